package bizforge

import (
	"context"
	"net/http"
)

// AnalyzeSentiment scores customer feedback.
func (c *Client) AnalyzeSentiment(ctx context.Context, req SentimentRequest) (*SentimentAnalysis, error) {
	var out SentimentAnalysis
	if err := c.call(ctx, http.MethodPost, OpAnalyzeSentiment, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeTagline rates a tagline and proposes alternatives.
func (c *Client) AnalyzeTagline(ctx context.Context, req TaglineAnalysisRequest) (*TaglineAnalysis, error) {
	var out TaglineAnalysis
	if err := c.call(ctx, http.MethodPost, OpAnalyzeTagline, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetColors suggests a palette for a brand description.
func (c *Client) GetColors(ctx context.Context, description string) (*ColorsResponse, error) {
	var out ColorsResponse
	if err := c.call(ctx, http.MethodPost, OpGetColors, ColorsRequest{Description: description}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
