package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	v1 "github.com/supplydesk/desk/api/v1"
	"go.uber.org/zap"
)

// UploadFormField is the multipart field carrying the document.
const UploadFormField = "file"

const maxDetailLength = 200

var allowedUploadExtensions = []string{".pdf", ".docx", ".xlsx"}

// Desk is the client interface of the procurement API.
//
//go:generate moq -fmt=goimports -out zz_generated_desk.go . Desk
type Desk interface {
	UploadDocument(ctx context.Context, filename string, content io.Reader) (v1.UploadResult, error)
	ListRequests(ctx context.Context) ([]v1.Request, error)
	GetRequest(ctx context.Context, id int64) (*v1.RequestDetail, error)
	SubmitRequest(ctx context.Context, id int64) (v1.SubmitResult, error)
	DeleteRequest(ctx context.Context, id int64) (v1.DeleteResult, error)

	ListTasks(ctx context.Context) ([]v1.ParsingTask, error)
	GetTask(ctx context.Context, id int64) (*v1.TaskDetail, error)
	ApproveTask(ctx context.Context, id int64) error
	RejectTask(ctx context.Context, id int64, form v1.RejectForm) error
	ParseTask(ctx context.Context, id int64, form v1.ParseForm) (v1.ParseResult, error)
	GetTaskStatus(ctx context.Context, id int64) (v1.TaskProgress, error)
	StartParsing(ctx context.Context, requestID int64) (v1.StartParsingResult, error)
	ModerateURL(ctx context.Context, urlID int64, form v1.ModerateURLForm) (v1.ModerateURLResult, error)

	SearchSuppliers(ctx context.Context, query string) ([]v1.Supplier, error)
	ListSuppliers(ctx context.Context, skip, limit int) ([]v1.Supplier, error)
	GetSupplier(ctx context.Context, id int64) (*v1.SupplierDetail, error)
}

var _ Desk = (*desk)(nil)

type desk struct {
	httpClient *http.Client
	baseURL    string
	validator  *v1.Validator
	log        *zap.SugaredLogger
}

// NewFromConfig returns a Desk client talking to the server of config.
func NewFromConfig(config *Config, tracker *Interceptor) (Desk, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	httpClient, err := NewHTTPClientFromConfig(config, tracker)
	if err != nil {
		return nil, fmt.Errorf("NewFromConfig: creating HTTP client %w", err)
	}
	return NewDesk(httpClient, config.BaseURL()), nil
}

// NewDesk returns a Desk client sending calls to baseURL, which already includes the API prefix.
func NewDesk(httpClient *http.Client, baseURL string) Desk {
	return &desk{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		validator:  v1.NewValidator(),
		log:        zap.S().Named("client"),
	}
}

// call describes one API operation and how its failures are classified.
type call struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string

	// resource and id name the entity in a not found error.
	resource string
	id       int64
	// stateful calls report a state conflict on 400, 409 and 422.
	stateful bool
	upload   bool
	// optionalBody accepts an empty successful answer.
	optionalBody bool
}

func (d *desk) UploadDocument(ctx context.Context, filename string, content io.Reader) (v1.UploadResult, error) {
	if !AllowedUpload(filename) {
		return v1.UploadResult{}, NewErrUpload("unsupported file format %q: use one of %s", filepath.Ext(filename), strings.Join(allowedUploadExtensions, ", "))
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(UploadFormField, filepath.Base(filename))
	if err != nil {
		return v1.UploadResult{}, NewErrUpload("preparing upload: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return v1.UploadResult{}, NewErrUpload("reading %s: %w", filename, err)
	}
	if err := writer.Close(); err != nil {
		return v1.UploadResult{}, NewErrUpload("preparing upload: %w", err)
	}

	var result v1.UploadResult
	err = d.do(ctx, call{
		op:          "upload document",
		method:      http.MethodPost,
		path:        "/user/upload-and-create",
		body:        body,
		contentType: writer.FormDataContentType(),
		upload:      true,
	}, &result)
	return result, err
}

func (d *desk) ListRequests(ctx context.Context) ([]v1.Request, error) {
	var requests []v1.Request
	if err := d.do(ctx, call{op: "list requests", method: http.MethodGet, path: "/user/requests"}, &requests); err != nil {
		return nil, err
	}
	if err := v1.Slice(d.validator, requests); err != nil {
		return nil, NewErrMalformedResponse("list requests", err)
	}
	return requests, nil
}

func (d *desk) GetRequest(ctx context.Context, id int64) (*v1.RequestDetail, error) {
	detail := &v1.RequestDetail{}
	err := d.do(ctx, call{
		op:       "get request",
		method:   http.MethodGet,
		path:     fmt.Sprintf("/user/requests/%d", id),
		resource: "request",
		id:       id,
	}, detail)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (d *desk) SubmitRequest(ctx context.Context, id int64) (v1.SubmitResult, error) {
	var result v1.SubmitResult
	err := d.do(ctx, call{
		op:       "submit request",
		method:   http.MethodPost,
		path:     fmt.Sprintf("/user/requests/%d/submit", id),
		resource: "request",
		id:       id,
		stateful: true,
	}, &result)
	return result, err
}

func (d *desk) DeleteRequest(ctx context.Context, id int64) (v1.DeleteResult, error) {
	var result v1.DeleteResult
	err := d.do(ctx, call{
		op:       "delete request",
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/user/requests/%d", id),
		resource: "request",
		id:       id,
		stateful: true,
	}, &result)
	return result, err
}

func (d *desk) ListTasks(ctx context.Context) ([]v1.ParsingTask, error) {
	var tasks []v1.ParsingTask
	if err := d.do(ctx, call{op: "list tasks", method: http.MethodGet, path: "/moderator/tasks"}, &tasks); err != nil {
		return nil, err
	}
	if err := v1.Slice(d.validator, tasks); err != nil {
		return nil, NewErrMalformedResponse("list tasks", err)
	}
	return tasks, nil
}

func (d *desk) GetTask(ctx context.Context, id int64) (*v1.TaskDetail, error) {
	detail := &v1.TaskDetail{}
	err := d.do(ctx, call{
		op:       "get task",
		method:   http.MethodGet,
		path:     fmt.Sprintf("/moderator/tasks/%d", id),
		resource: "task",
		id:       id,
	}, detail)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (d *desk) ApproveTask(ctx context.Context, id int64) error {
	var result v1.TaskActionResult
	return d.do(ctx, call{
		op:       "approve task",
		method:   http.MethodPost,
		path:     fmt.Sprintf("/moderator/tasks/%d/approve", id),
		resource: "task",
		id:       id,
		stateful: true,

		optionalBody: true,
	}, &result)
}

func (d *desk) RejectTask(ctx context.Context, id int64, form v1.RejectForm) error {
	if strings.TrimSpace(form.Reason) == "" {
		return NewErrValidation("a reason is required to reject task %d", id)
	}
	body, err := d.encode(form)
	if err != nil {
		return err
	}
	var result v1.TaskActionResult
	return d.do(ctx, call{
		op:          "reject task",
		method:      http.MethodPost,
		path:        fmt.Sprintf("/moderator/tasks/%d/reject", id),
		body:        body,
		contentType: "application/json",
		resource:    "task",
		id:          id,
		stateful:    true,

		optionalBody: true,
	}, &result)
}

func (d *desk) ParseTask(ctx context.Context, id int64, form v1.ParseForm) (v1.ParseResult, error) {
	body, err := d.encode(form)
	if err != nil {
		return v1.ParseResult{}, err
	}
	var result v1.ParseResult
	err = d.do(ctx, call{
		op:          "parse task",
		method:      http.MethodPost,
		path:        fmt.Sprintf("/moderator/tasks/%d/parse", id),
		body:        body,
		contentType: "application/json",
		resource:    "task",
		id:          id,
		stateful:    true,
	}, &result)
	return result, err
}

func (d *desk) GetTaskStatus(ctx context.Context, id int64) (v1.TaskProgress, error) {
	var progress v1.TaskProgress
	err := d.do(ctx, call{
		op:       "get task status",
		method:   http.MethodGet,
		path:     fmt.Sprintf("/moderator/tasks/%d/status", id),
		resource: "task",
		id:       id,
	}, &progress)
	return progress, err
}

func (d *desk) StartParsing(ctx context.Context, requestID int64) (v1.StartParsingResult, error) {
	var result v1.StartParsingResult
	err := d.do(ctx, call{
		op:       "start parsing",
		method:   http.MethodPost,
		path:     fmt.Sprintf("/moderator/requests/%d/start-parsing", requestID),
		resource: "request",
		id:       requestID,
		stateful: true,
	}, &result)
	return result, err
}

func (d *desk) ModerateURL(ctx context.Context, urlID int64, form v1.ModerateURLForm) (v1.ModerateURLResult, error) {
	body, err := d.encode(form)
	if err != nil {
		return v1.ModerateURLResult{}, err
	}
	var result v1.ModerateURLResult
	err = d.do(ctx, call{
		op:          "moderate url",
		method:      http.MethodPost,
		path:        fmt.Sprintf("/moderator/urls/%d/moderate", urlID),
		body:        body,
		contentType: "application/json",
		resource:    "url",
		id:          urlID,
		stateful:    true,
	}, &result)
	return result, err
}

func (d *desk) SearchSuppliers(ctx context.Context, query string) ([]v1.Supplier, error) {
	var suppliers []v1.Supplier
	err := d.do(ctx, call{
		op:     "search suppliers",
		method: http.MethodGet,
		path:   "/suppliers/search",
		query:  url.Values{"q": []string{query}},
	}, &suppliers)
	if err != nil {
		return nil, err
	}
	if err := v1.Slice(d.validator, suppliers); err != nil {
		return nil, NewErrMalformedResponse("search suppliers", err)
	}
	return suppliers, nil
}

func (d *desk) ListSuppliers(ctx context.Context, skip, limit int) ([]v1.Supplier, error) {
	var suppliers []v1.Supplier
	err := d.do(ctx, call{
		op:     "list suppliers",
		method: http.MethodGet,
		path:   "/suppliers/",
		query:  url.Values{"skip": []string{strconv.Itoa(skip)}, "limit": []string{strconv.Itoa(limit)}},
	}, &suppliers)
	if err != nil {
		return nil, err
	}
	if err := v1.Slice(d.validator, suppliers); err != nil {
		return nil, NewErrMalformedResponse("list suppliers", err)
	}
	return suppliers, nil
}

func (d *desk) GetSupplier(ctx context.Context, id int64) (*v1.SupplierDetail, error) {
	detail := &v1.SupplierDetail{}
	err := d.do(ctx, call{
		op:       "get supplier",
		method:   http.MethodGet,
		path:     fmt.Sprintf("/suppliers/%d", id),
		resource: "supplier",
		id:       id,
	}, detail)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// AllowedUpload reports whether the server accepts documents with the extension of filename.
func AllowedUpload(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedUploadExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (d *desk) encode(form any) (io.Reader, error) {
	if err := d.validator.Struct(form); err != nil {
		return nil, NewErrValidation("%w", err)
	}
	data, err := json.Marshal(form)
	if err != nil {
		return nil, NewErrValidation("encoding body: %w", err)
	}
	return bytes.NewReader(data), nil
}

// do sends c and decodes a successful body into out. Structs are validated, slices are
// left to the caller.
func (d *desk) do(ctx context.Context, c call, out any) error {
	target := d.baseURL + c.path
	if len(c.query) > 0 {
		target += "?" + c.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, c.method, target, c.body)
	if err != nil {
		return d.fail(c, NewErrValidation("%s: building request: %w", c.op, err))
	}
	req.Header.Set("Accept", "application/json")
	if c.contentType != "" {
		req.Header.Set("Content-Type", c.contentType)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return d.fail(c, NewErrNetwork(c.op, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return d.fail(c, NewErrNetwork(c.op, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return d.fail(c, d.classify(c, resp.StatusCode, detailMessage(data)))
	}

	if envelope, ok := statusEnvelope(data); ok && envelope.Status == "error" {
		return d.fail(c, NewErrRemote(c.op, resp.StatusCode, envelope.message()))
	}

	if c.optionalBody && len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return d.fail(c, NewErrMalformedResponse(c.op, err))
	}
	if reflect.Indirect(reflect.ValueOf(out)).Kind() == reflect.Struct {
		if err := d.validator.Struct(out); err != nil {
			return d.fail(c, NewErrMalformedResponse(c.op, err))
		}
	}
	return nil
}

func (d *desk) fail(c call, err error) error {
	if c.upload {
		var uploadErr *ErrUpload
		if !errors.As(err, &uploadErr) {
			err = NewErrUpload("%w", err)
		}
	}
	return err
}

func (d *desk) classify(c call, statusCode int, detail string) error {
	if c.upload {
		if detail == "" {
			return NewErrUpload("%s failed: status %d", c.op, statusCode)
		}
		return NewErrUpload("%s failed: status %d: %s", c.op, statusCode, detail)
	}
	switch {
	case statusCode == http.StatusNotFound && c.resource != "":
		return NewErrNotFound(c.resource, c.id)
	case c.stateful && (statusCode == http.StatusBadRequest || statusCode == http.StatusConflict || statusCode == http.StatusUnprocessableEntity):
		if detail == "" {
			return NewErrInvalidState("%s %d: rejected by server (status %d)", c.resource, c.id, statusCode)
		}
		return NewErrInvalidState("%s %d: %s", c.resource, c.id, detail)
	default:
		d.log.Debugw("unexpected status", "op", c.op, "status", statusCode, "detail", detail)
		return NewErrRemote(c.op, statusCode, detail)
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}

func (e envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return rawDetail(e.Detail)
}

// statusEnvelope decodes the status field of an object body.
func statusEnvelope(data []byte) (envelope, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return envelope{}, false
	}
	var e envelope
	if err := json.Unmarshal(trimmed, &e); err != nil {
		return envelope{}, false
	}
	return e, true
}

// detailMessage extracts the error detail of a failed call. The detail is either a string
// or a structured list of field errors.
func detailMessage(data []byte) string {
	if e, ok := statusEnvelope(data); ok {
		if msg := e.message(); msg != "" {
			return msg
		}
	}
	msg := strings.TrimSpace(string(data))
	if runes := []rune(msg); len(runes) > maxDetailLength {
		msg = string(runes[:maxDetailLength]) + "..."
	}
	return msg
}

func rawDetail(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	compact := &bytes.Buffer{}
	if err := json.Compact(compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}
