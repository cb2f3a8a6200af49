package inference

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Error is the single failure shape returned by every Client call.
type Error struct {
	Endpoint Endpoint
	Status   int    // HTTP status, 0 when the request never got a response
	Detail   string // backend-supplied detail, empty when absent
	Err      error  // transport or decode cause, nil for plain non-2xx responses
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Endpoint.Name())
	sb.WriteString(" request failed")
	if e.Status != 0 {
		fmt.Fprintf(&sb, " (status %d)", e.Status)
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	} else if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the backend detail, or fallback when there is none.
func (e *Error) Message(fallback string) string {
	if e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// DisplayMessage converts any error from a Client call into user-facing text.
func DisplayMessage(err error, fallback string) string {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Message(fallback)
	}
	return fallback
}

// parseDetail pulls the detail field out of an error body.
// A plain string is used as-is; a validation list is joined by its msg fields.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
