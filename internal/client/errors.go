package client

import (
	"errors"
	"fmt"
)

// ErrNetwork is a transport failure or a timeout.
type ErrNetwork struct {
	error
}

func NewErrNetwork(op string, err error) *ErrNetwork {
	return &ErrNetwork{fmt.Errorf("%s: network failure: %w", op, err)}
}

func (e *ErrNetwork) Unwrap() error { return errors.Unwrap(e.error) }

// ErrValidation is a client-side precondition failure. Nothing was sent.
type ErrValidation struct {
	error
}

func NewErrValidation(format string, args ...any) *ErrValidation {
	return &ErrValidation{fmt.Errorf(format, args...)}
}

// ErrInvalidState means the entity is not in a state that allows the action.
type ErrInvalidState struct {
	error
}

func NewErrInvalidState(format string, args ...any) *ErrInvalidState {
	return &ErrInvalidState{fmt.Errorf(format, args...)}
}

// ErrUpload is a document ingestion failure.
type ErrUpload struct {
	error
}

func NewErrUpload(format string, args ...any) *ErrUpload {
	return &ErrUpload{fmt.Errorf(format, args...)}
}

func (e *ErrUpload) Unwrap() error { return errors.Unwrap(e.error) }

type ErrNotFound struct {
	error
}

func NewErrNotFound(resourceType string, id int64) *ErrNotFound {
	return &ErrNotFound{fmt.Errorf("%s %d not found", resourceType, id)}
}

// ErrRemote is any non-success answer not covered by a more specific error.
type ErrRemote struct {
	error
	StatusCode int
}

func NewErrRemote(op string, statusCode int, detail string) *ErrRemote {
	if detail == "" {
		return &ErrRemote{error: fmt.Errorf("%s failed: status %d", op, statusCode), StatusCode: statusCode}
	}
	return &ErrRemote{error: fmt.Errorf("%s failed: status %d: %s", op, statusCode, detail), StatusCode: statusCode}
}

// ErrMalformedResponse is a body that does not decode or fails validation.
type ErrMalformedResponse struct {
	error
}

func NewErrMalformedResponse(op string, err error) *ErrMalformedResponse {
	return &ErrMalformedResponse{fmt.Errorf("%s: malformed response: %w", op, err)}
}

func (e *ErrMalformedResponse) Unwrap() error { return errors.Unwrap(e.error) }

func IsNetwork(err error) bool {
	var e *ErrNetwork
	return errors.As(err, &e)
}

func IsValidation(err error) bool {
	var e *ErrValidation
	return errors.As(err, &e)
}

func IsInvalidState(err error) bool {
	var e *ErrInvalidState
	return errors.As(err, &e)
}

func IsUpload(err error) bool {
	var e *ErrUpload
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *ErrNotFound
	return errors.As(err, &e)
}

func IsRemote(err error) bool {
	var e *ErrRemote
	return errors.As(err, &e)
}

func IsMalformedResponse(err error) bool {
	var e *ErrMalformedResponse
	return errors.As(err, &e)
}
