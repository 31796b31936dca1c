package bizforge

import (
	"context"
	"net/http"
)

// GenerateTagline suggests taglines with a short rationale each.
func (c *Client) GenerateTagline(ctx context.Context, req TaglineRequest) (*TaglineResponse, error) {
	if req.Tone == "" {
		req.Tone = DefaultTaglineTone
	}
	var out TaglineResponse
	if err := c.call(ctx, http.MethodPost, OpGenerateTagline, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateContent writes marketing copy on a topic.
func (c *Client) GenerateContent(ctx context.Context, req ContentRequest) (*ContentResponse, error) {
	if req.Tone == "" {
		req.Tone = DefaultContentTone
	}
	if req.ContentType == "" {
		req.ContentType = DefaultContentType
	}
	var out ContentResponse
	if err := c.call(ctx, http.MethodPost, OpGenerateContent, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateProductDescription writes catalog copy for a product.
func (c *Client) GenerateProductDescription(ctx context.Context, req ProductDescriptionRequest) (*ProductDescription, error) {
	if req.TargetAudience == "" {
		req.TargetAudience = DefaultTargetAudience
	}
	if req.Tone == "" {
		req.Tone = DefaultDescriptionTone
	}
	var out ProductDescription
	if err := c.call(ctx, http.MethodPost, OpGenerateDescription, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
