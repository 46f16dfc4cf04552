package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrUnauthenticated = errors.New("not authenticated with the finance API")
var ErrNotFound = errors.New("resource not found")

// StatusError is returned for every non-2xx response. Body keeps the server's message so that
// backend-side validation (e.g. a category still referenced by operations) can be shown as is.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	msg := e.Message()
	if msg == "" {
		return fmt.Sprintf("%s %s: API returned status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: API returned status %d: %s", e.Method, e.Path, e.Status, msg)
}

func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthenticated
	}
	return nil
}

// Message extracts a human readable message from the body: "detail" or "error" fields when
// the body is a JSON object, otherwise the trimmed raw body.
func (e *StatusError) Message() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return ""
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(body), &fields); err == nil {
		for _, key := range []string{"detail", "error", "message", "non_field_errors"} {
			switch v := fields[key].(type) {
			case string:
				return v
			case []any:
				if len(v) > 0 {
					return fmt.Sprint(v[0])
				}
			}
		}
	}
	return body
}

// IsClientError reports whether err is a 4xx answer from the API.
func IsClientError(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Status >= 400 && statusErr.Status < 500
}

// ErrInvalid is returned by form validation before any request is sent.
var ErrInvalid = errors.New("invalid input")

// Invalid wraps ErrInvalid with the offending field.
func Invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalid, field, reason)
}
