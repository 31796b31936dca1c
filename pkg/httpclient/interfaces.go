package httpclient

import (
	"context"
	"io"
	"net/http"
)

// Request describes a single outbound call. A nil Body sends no payload.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	Files   []File
}

// File is a multipart file field attached to a request.
type File struct {
	Param    string
	FileName string
	Reader   io.Reader
}

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header() http.Header
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Do(ctx context.Context, req Request) (Response, error)
}
