package bizforge

import (
	"context"
	"net/http"
)

// Operation names, shared by the CLI, the jobs file and the history store.
const (
	OpGenerateBrand       = "generate-brand"
	OpGenerateTagline     = "generate-tagline"
	OpGenerateContent     = "generate-content"
	OpGenerateDescription = "generate-desc"
	OpAnalyzeSentiment    = "analyze-sentiment"
	OpAnalyzeTagline      = "analyze-tagline"
	OpGetColors           = "get-colors"
	OpChat                = "chat"
	OpGenerateLogo        = "generate-logo"
	OpTranscribeVoice     = "transcribe-voice"
	OpSaveItem            = "save-item"
	OpGetSavedItems       = "saved-items"
)

// GenerateBrand asks for brand name suggestions.
// POST {base}/generate-brand with {"description", "keywords"}.
func (c *Client) GenerateBrand(ctx context.Context, description string, keywords []string) (*BrandResponse, error) {
	var out BrandResponse
	body := BrandRequest{Description: description, Keywords: keywords}
	if err := c.call(ctx, http.MethodPost, OpGenerateBrand, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveItem persists an artifact on the backend.
// POST {base}/save-item with {"item_type", "content"}.
func (c *Client) SaveItem(ctx context.Context, itemType string, content any) (*SavedItem, error) {
	var out SavedItem
	body := SaveItemRequest{ItemType: itemType, Content: content}
	if err := c.call(ctx, http.MethodPost, OpSaveItem, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSavedItems lists every saved artifact. GET {base}/saved-items, no body.
func (c *Client) GetSavedItems(ctx context.Context) ([]SavedItem, error) {
	var out []SavedItem
	if err := c.call(ctx, http.MethodGet, OpGetSavedItems, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// call sends a JSON request to {base}/{op}, turns non-2xx replies into
// *StatusError and decodes the body into out.
func (c *Client) call(ctx context.Context, method, op string, body, out any) error {
	res, err := c.Do(ctx, RequestDescriptor{
		URL:    c.path("/" + op),
		Method: method,
		Body:   body,
	})
	if err != nil {
		return err
	}
	if err := res.Err(); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return res.Decode(out)
}
