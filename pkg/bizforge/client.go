// Package bizforge is a typed client for the BizForge branding API.
//
// Every call goes through Client.Do, which builds one JSON request, sends it
// over the configured transport and parses the JSON reply. The generic Request
// and Do methods hand back whatever the server answered, whatever the status
// code. The named operations (GenerateBrand, SaveItem, ...) decode into typed
// structs and report non-2xx replies as *StatusError.
package bizforge

import (
	"strings"
	"time"

	"github.com/bizforge-hq/bizforge-client/pkg/httpclient"
)

// DefaultBasePath is the route prefix shared by all backend operations.
const DefaultBasePath = "/api"

// Client issues requests against the BizForge backend. It holds no mutable
// state after construction and is safe for concurrent use.
type Client struct {
	basePath  string
	baseURL   string
	timeout   time.Duration
	transport httpclient.Client
	log       Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBasePath overrides the route prefix used by the named operations.
func WithBasePath(path string) Option {
	return func(c *Client) {
		c.basePath = path
	}
}

// WithBaseURL sets the scheme and host that relative URLs resolve against
// when the default transport is used.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithTimeout bounds every call made through the default transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithTransport replaces the default resty transport.
func WithTransport(t httpclient.Client) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithLogger attaches a logger; calls are logged at debug level.
func WithLogger(log Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New builds a Client. With no options it targets DefaultBasePath on a
// transport without a base URL, so callers normally pass WithBaseURL.
func New(opts ...Option) *Client {
	c := &Client{basePath: DefaultBasePath}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.basePath = normalizeBasePath(c.basePath)
	if c.transport == nil {
		c.transport = httpclient.NewRestyClient(c.baseURL, c.timeout)
	}
	c.log = ensureLogger(c.log)
	return c
}

// BasePath returns the route prefix fixed at construction.
func (c *Client) BasePath() string {
	return c.basePath
}

// path joins the base path with an operation suffix such as "/save-item".
func (c *Client) path(suffix string) string {
	return c.basePath + suffix
}

func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") && !strings.Contains(p, "://") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}
