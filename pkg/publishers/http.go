package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bizforge-hq/bizforge-client/pkg/httpclient"
)

// Webhook receivers can route on these without parsing the body.
const (
	headerEventType = "X-Bizforge-Event"
	headerOperation = "X-Bizforge-Operation"
)

type httpPublisher struct {
	id        string
	typ       string
	method    string
	url       string
	headers   map[string]string
	transport httpclient.Client
	log       Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	return &httpPublisher{
		id:        cfg.ID,
		typ:       TypeHTTP,
		method:    cfg.HTTP.Method,
		url:       cfg.HTTP.URL,
		headers:   cfg.HTTP.Headers,
		transport: httpclient.NewRestyClient("", timeout),
		log:       ensureLogger(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return h.typ }

// Publish POSTs the event as JSON. Any non-2xx reply is a delivery failure.
func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	headers := make(map[string]string, len(h.headers)+3)
	for k, v := range h.headers {
		headers[k] = v
	}
	headers["Content-Type"] = "application/json"
	headers[headerEventType] = evt.Type
	headers[headerOperation] = evt.Operation

	method := h.method
	if method == "" {
		method = httpDefaultMethod
	}

	resp, err := h.transport.Do(ctx, httpclient.Request{
		Method:  method,
		URL:     h.url,
		Headers: headers,
		Body:    payload,
	})
	if err != nil {
		h.log.ErrorObj("http publisher send failed", "publisher_http_error", deliveryFields(h.id, evt, err))
		return fmt.Errorf("http request: %w", err)
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return fmt.Errorf("http response status %d: %s", code, readBodySnippet(resp.Body()))
	}

	h.log.DebugObj("http publisher delivered event", "publisher_http_delivery", deliveryFields(h.id, evt, nil))
	return nil
}

func readBodySnippet(body []byte) string {
	const limit = 512
	if len(body) > limit {
		body = body[:limit]
	}
	return strings.TrimSpace(string(body))
}
