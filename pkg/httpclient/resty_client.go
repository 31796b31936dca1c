package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient. Relative request URLs are resolved
// against baseURL when it is non-empty.
func NewRestyClient(baseURL string, timeout time.Duration) *RestyClient {
	c := newRestyBaseClient(timeout)
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		c.SetBaseURL(strings.TrimRight(baseURL, "/"))
	}
	return &RestyClient{client: c}
}

func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	// Callers may attach a body to any verb, GET included.
	c.SetAllowGetMethodPayload(true)
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// Do performs one HTTP request. Non-2xx responses are returned without error.
func (r *RestyClient) Do(ctx context.Context, in Request) (Response, error) {
	if r == nil || r.client == nil {
		return nil, fmt.Errorf("resty client is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	req := r.client.R().SetContext(ctx)
	if len(in.Headers) > 0 {
		req.SetHeaders(in.Headers)
	}
	if in.Body != nil {
		req.SetBody(in.Body)
	}
	for _, f := range in.Files {
		req.SetFileReader(f.Param, f.FileName, f.Reader)
	}

	method := strings.ToUpper(strings.TrimSpace(in.Method))
	if method == "" {
		method = http.MethodGet
	}

	resp, err := req.Execute(method, in.URL)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte        { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }
