package bizforge

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrTransport matches failures where no response was received.
	ErrTransport = errors.New("bizforge: transport failure")
	// ErrParse matches responses whose body is not valid JSON.
	ErrParse = errors.New("bizforge: invalid JSON response")
	// ErrDecode matches valid JSON replies that do not fit the expected shape.
	ErrDecode = errors.New("bizforge: unexpected response shape")
	// ErrStatus matches non-2xx responses from the typed operations.
	ErrStatus = errors.New("bizforge: unexpected status")
	// ErrInvalidRequest matches requests rejected before dispatch.
	ErrInvalidRequest = errors.New("bizforge: invalid request")
)

// TransportError reports that the request could not be completed: DNS failure,
// refused connection, timeout or context cancellation.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap exposes both ErrTransport and the underlying cause, so
// errors.Is(err, context.DeadlineExceeded) keeps working.
func (e *TransportError) Unwrap() []error {
	return withCause(ErrTransport, e.Err)
}

// ParseError reports a response body that is not valid JSON.
type ParseError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %s: parse response (status %d): %v: %s",
		e.Method, e.URL, e.StatusCode, e.Err, snippet(e.Body))
}

func (e *ParseError) Unwrap() []error {
	return withCause(ErrParse, e.Err)
}

// DecodeError reports a valid JSON body that could not be decoded into the
// operation's response type.
type DecodeError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: decode response (status %d): %v: %s",
		e.Method, e.URL, e.StatusCode, e.Err, snippet(e.Body))
}

func (e *DecodeError) Unwrap() []error {
	return withCause(ErrDecode, e.Err)
}

func withCause(sentinel, cause error) []error {
	if cause == nil {
		return []error{sentinel}
	}
	return []error{sentinel, cause}
}

// StatusError reports a non-2xx response. Body holds the parsed JSON reply for
// diagnostics.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
	Body       json.RawMessage
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: http %d: %s", e.Method, e.URL, e.StatusCode, msg)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// Temporary reports whether the status usually clears on its own.
func (e *StatusError) Temporary() bool {
	switch e.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	default:
		return e.StatusCode >= 500
	}
}

// AsStatusError unwraps err into a *StatusError.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// errorMessage pulls a human readable message out of FastAPI style
// {"detail": ...} or {"error": ...} envelopes.
func errorMessage(body []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
		Error  json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	for _, raw := range []json.RawMessage{env.Detail, env.Error} {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		return string(raw)
	}
	return ""
}

func snippet(body []byte) string {
	if len(body) > 256 {
		body = body[:256]
	}
	return strings.TrimSpace(string(body))
}
