package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

func StringToRequestStatus(s string) (RequestStatus, error) {
	switch s {
	case string(RequestStatusDraft):
		return RequestStatusDraft, nil
	case string(RequestStatusSubmitted):
		return RequestStatusSubmitted, nil
	case string(RequestStatusModeration):
		return RequestStatusModeration, nil
	case string(RequestStatusCompleted):
		return RequestStatusCompleted, nil
	default:
		return "", fmt.Errorf("unknown request status %q", s)
	}
}

// Rank returns the position of the status in the forward lifecycle order, or -1 if unknown.
func (s RequestStatus) Rank() int {
	switch s {
	case RequestStatusDraft:
		return 0
	case RequestStatusSubmitted:
		return 1
	case RequestStatusModeration:
		return 2
	case RequestStatusCompleted:
		return 3
	default:
		return -1
	}
}

// Before reports whether s comes strictly earlier than other in the lifecycle.
func (s RequestStatus) Before(other RequestStatus) bool {
	return s.Rank() >= 0 && other.Rank() >= 0 && s.Rank() < other.Rank()
}

func (s RequestStatus) Deletable() bool {
	return s == RequestStatusDraft
}

func (s RequestStatus) Submittable() bool {
	return s == RequestStatusDraft
}

// Settled is true for every status the remote service will not change anymore on its own.
func (s TaskStatus) Settled() bool {
	return s != TaskStatusPending
}

func StringToParseMethod(s string) (ParseMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ParseMethodInProcess), "background_task":
		return ParseMethodInProcess, nil
	case string(ParseMethodQueuedWorker), "celery":
		return ParseMethodQueuedWorker, nil
	case string(ParseMethodBrowserAutomation), "patchright":
		return ParseMethodBrowserAutomation, nil
	default:
		return "", fmt.Errorf("unknown parse method %q: use one of %s", s, strings.Join(ParseMethodNames(), ", "))
	}
}

// Wire returns the value the remote service expects in the parse body.
func (m ParseMethod) Wire() string {
	switch m {
	case ParseMethodInProcess:
		return "background_task"
	case ParseMethodQueuedWorker:
		return "celery"
	case ParseMethodBrowserAutomation:
		return "patchright"
	default:
		return ""
	}
}

func ParseMethodNames() []string {
	return []string{string(ParseMethodInProcess), string(ParseMethodQueuedWorker), string(ParseMethodBrowserAutomation)}
}

func StringToCabinet(s string) (Cabinet, error) {
	switch Cabinet(strings.ToLower(s)) {
	case CabinetUser:
		return CabinetUser, nil
	case CabinetModerator:
		return CabinetModerator, nil
	default:
		return "", fmt.Errorf("unknown cabinet %q", s)
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Timestamp accepts ISO-8601 values with or without a zone. Zone-less values are UTC.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if raw == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("timestamp: unsupported format %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// Quantity holds a line item quantity. The server sends a number, a numeric string,
// free text when the document could not be read as a number, or null.
type Quantity struct {
	Value float64
	Raw   string
	Valid bool
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	*q = Quantity{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("quantity: %w", err)
		}
		*q = ParseQuantity(raw)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	q.Value = v
	q.Valid = true
	q.Raw = strconv.FormatFloat(v, 'f', -1, 64)
	return nil
}

// ParseQuantity reads a quantity cell. A decimal comma is accepted; anything not numeric
// is kept as raw text.
func ParseQuantity(raw string) Quantity {
	q := Quantity{Raw: raw}
	if v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64); err == nil {
		q.Value = v
		q.Valid = true
	}
	return q
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	if q.Valid {
		return json.Marshal(q.Value)
	}
	if q.Raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(q.Raw)
}

func (q Quantity) String() string {
	if q.Valid {
		return strconv.FormatFloat(q.Value, 'f', -1, 64)
	}
	return q.Raw
}
