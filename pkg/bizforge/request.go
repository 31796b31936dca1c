package bizforge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/bizforge-hq/bizforge-client/pkg/httpclient"
)

const contentTypeJSON = "application/json"

// RequestDescriptor is one outbound call. It is built per call and not retained.
type RequestDescriptor struct {
	URL     string
	Method  string
	Body    any
	Headers map[string]string
}

// RequestOption fills in optional parts of a RequestDescriptor.
type RequestOption func(*RequestDescriptor)

// WithMethod sets the HTTP verb. The default is GET.
func WithMethod(method string) RequestOption {
	return func(d *RequestDescriptor) {
		d.Method = method
	}
}

// WithBody sets the request payload. Falsy values (nil, false, zero numbers,
// empty strings, JSON null) are not sent.
func WithBody(body any) RequestOption {
	return func(d *RequestDescriptor) {
		d.Body = body
	}
}

// WithHeaders overrides or adds request headers.
func WithHeaders(headers map[string]string) RequestOption {
	return func(d *RequestDescriptor) {
		d.Headers = headers
	}
}

// Result is a parsed JSON response. Non-2xx replies are returned as Results
// too; use Err to classify them.
type Result struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       json.RawMessage
}

// OK reports whether the status code is in the 2xx range.
func (r *Result) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Err returns a *StatusError for non-2xx results and nil otherwise.
func (r *Result) Err() error {
	if r == nil || r.OK() {
		return nil
	}
	return &StatusError{
		Method:     r.Method,
		URL:        r.URL,
		StatusCode: r.StatusCode,
		Message:    errorMessage(r.Body),
		Body:       r.Body,
	}
}

// Decode unmarshals the body into v. An invalid body is a *ParseError; a valid
// body of the wrong shape is a *DecodeError.
func (r *Result) Decode(v any) error {
	if r == nil {
		return fmt.Errorf("decode: nil result")
	}
	if !json.Valid(r.Body) {
		return &ParseError{Method: r.Method, URL: r.URL, StatusCode: r.StatusCode, Body: r.Body, Err: errors.New("invalid JSON")}
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &DecodeError{Method: r.Method, URL: r.URL, StatusCode: r.StatusCode, Body: r.Body, Err: err}
	}
	return nil
}

// Value returns the body as generic JSON values (map[string]any, []any, ...).
func (r *Result) Value() (any, error) {
	var v any
	if err := r.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Request issues a JSON request to url. url is used as given; the base path is
// not prepended.
func (c *Client) Request(ctx context.Context, url string, opts ...RequestOption) (*Result, error) {
	desc := RequestDescriptor{URL: url, Method: http.MethodGet}
	for _, opt := range opts {
		if opt != nil {
			opt(&desc)
		}
	}
	return c.Do(ctx, desc)
}

// Do dispatches a descriptor: exactly one transport call, no retries.
func (c *Client) Do(ctx context.Context, desc RequestDescriptor) (*Result, error) {
	return c.send(ctx, desc, nil)
}

func (c *Client) send(ctx context.Context, desc RequestDescriptor, files []httpclient.File) (*Result, error) {
	if strings.TrimSpace(desc.URL) == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidRequest)
	}
	method := strings.ToUpper(strings.TrimSpace(desc.Method))
	if method == "" {
		method = http.MethodGet
	}

	req := httpclient.Request{
		Method: method,
		URL:    desc.URL,
		Files:  files,
	}
	if len(files) > 0 {
		req.Headers = mergeHeaders(nil, desc.Headers)
	} else {
		req.Headers = mergeHeaders(map[string]string{"Content-Type": contentTypeJSON}, desc.Headers)
		if isTruthy(desc.Body) {
			payload, err := json.Marshal(desc.Body)
			if err != nil {
				return nil, fmt.Errorf("%w: marshal body: %v", ErrInvalidRequest, err)
			}
			req.Body = payload
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		c.log.DebugObj("bizforge request failed", "request_error", map[string]any{
			"method": method,
			"url":    desc.URL,
			"error":  err.Error(),
		})
		return nil, &TransportError{Method: method, URL: desc.URL, Err: err}
	}

	c.log.DebugObj("bizforge request completed", "request_meta", map[string]any{
		"method":     method,
		"url":        desc.URL,
		"status":     resp.StatusCode(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return parseResult(method, desc.URL, resp)
}

func parseResult(method, url string, resp httpclient.Response) (*Result, error) {
	body := resp.Body()
	var probe json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, &ParseError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode(),
			Body:       append([]byte(nil), body...),
			Err:        err,
		}
	}
	return &Result{
		Method:     method,
		URL:        url,
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       probe,
	}, nil
}

// mergeHeaders copies base and applies overrides on top. Keys are matched
// case-insensitively so an override of "content-type" replaces the default.
func mergeHeaders(base, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		out[http.CanonicalHeaderKey(k)] = v
	}
	for k, v := range overrides {
		key := http.CanonicalHeaderKey(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		out[key] = v
	}
	return out
}

// isTruthy decides whether a body is attached: nil, false, numeric zero, NaN,
// the empty string and nil pointers/maps/slices are falsy. Empty but non-nil
// maps and slices are truthy. Raw JSON is judged by the value it encodes.
func isTruthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case json.RawMessage:
		return rawTruthy(b)
	case []byte:
		return b != nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return isTruthy(rv.Elem().Interface())
	case reflect.Map, reflect.Slice:
		return !rv.IsNil()
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	default:
		return true
	}
}

func rawTruthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "", "null", "false", `""`:
		return false
	}
	if f, err := strconv.ParseFloat(string(raw), 64); err == nil {
		return f != 0
	}
	return true
}
