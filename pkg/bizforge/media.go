package bizforge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/bizforge-hq/bizforge-client/pkg/httpclient"
)

const (
	transcriptionFileParam    = "file"
	defaultTranscriptFileName = "recording.m4a"
)

// Chat sends one user message with the prior conversation.
func (c *Client) Chat(ctx context.Context, message string, history []ChatMessage) (*ChatResponse, error) {
	if history == nil {
		// the backend iterates history; null is rejected
		history = []ChatMessage{}
	}
	var out ChatResponse
	body := ChatRequest{Message: message, History: history}
	if err := c.call(ctx, http.MethodPost, OpChat, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateLogo generates a logo, filling in the default style.
func (c *Client) GenerateLogo(ctx context.Context, req LogoRequest) (*Logo, error) {
	if req.Style == "" {
		req.Style = DefaultLogoStyle
	}
	var out Logo
	if err := c.call(ctx, http.MethodPost, OpGenerateLogo, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TranscribeVoice uploads audio as the multipart field "file".
func (c *Client) TranscribeVoice(ctx context.Context, fileName string, audio io.Reader) (*Transcription, error) {
	if audio == nil {
		return nil, fmt.Errorf("%w: audio reader is required", ErrInvalidRequest)
	}
	if fileName = filepath.Base(fileName); fileName == "." || fileName == "/" {
		fileName = defaultTranscriptFileName
	}

	desc := RequestDescriptor{
		URL:    c.path("/" + OpTranscribeVoice),
		Method: http.MethodPost,
	}
	res, err := c.send(ctx, desc, []httpclient.File{{
		Param:    transcriptionFileParam,
		FileName: fileName,
		Reader:   audio,
	}})
	if err != nil {
		return nil, err
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	var out Transcription
	if err := res.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
