package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/supplydesk/desk/internal/repository"
)

const (
	RequestKind  = "request"
	TaskKind     = "task"
	SupplierKind = "supplier"
)

var (
	pluralKinds = map[string]string{
		RequestKind:  "requests",
		TaskKind:     "tasks",
		SupplierKind: "suppliers",
	}
)

// parseAndValidateKindId splits TYPE or TYPE/ID. id is nil when only the type is given.
func parseAndValidateKindId(arg string) (string, *int64, error) {
	kind, rawID, hasID := strings.Cut(arg, "/")
	kind = singular(kind)
	if _, ok := pluralKinds[kind]; !ok {
		return "", nil, fmt.Errorf("invalid resource kind: %s", kind)
	}
	if !hasID {
		return kind, nil, nil
	}
	id, err := parseID(rawID)
	if err != nil {
		return "", nil, err
	}
	return kind, &id, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", raw)
	}
	return id, nil
}

func singular(kind string) string {
	for singular, plural := range pluralKinds {
		if kind == plural {
			return singular
		}
	}
	return kind
}

func plural(kind string) string {
	return pluralKinds[kind]
}

// promptConfirmer asks on the terminal with a y/N prompt.
func promptConfirmer(in io.Reader, out io.Writer) repository.Confirmer {
	return repository.ConfirmFunc(func(ctx context.Context, message string) (bool, error) {
		prompt := promptui.Prompt{
			Label:     message,
			IsConfirm: true,
			Stdin:     io.NopCloser(in),
			Stdout:    nopWriteCloser{out},
		}
		if _, err := prompt.Run(); err != nil {
			if errors.Is(err, promptui.ErrAbort) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	})
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
