package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bizforge-hq/bizforge-client/pkg/bizforge"
	"github.com/bizforge-hq/bizforge-client/pkg/jobs"
)

// dispatch maps a job onto the typed client operation.
func (s *Service) dispatch(ctx context.Context, job jobs.Job) (any, error) {
	c := s.client

	switch job.Operation {
	case bizforge.OpGenerateBrand:
		var req bizforge.BrandRequest
		if err := job.Decode(&req); err != nil {
			return nil, err
		}
		return c.GenerateBrand(ctx, req.Description, req.Keywords)
	case bizforge.OpGenerateTagline:
		var req bizforge.TaglineRequest
		if err := job.Decode(&req); err != nil {
			return nil, err
		}
		return c.GenerateTagline(ctx, req)
	case bizforge.OpGenerateContent:
		var req bizforge.ContentRequest
		if err := job.Decode(&req); err != nil {
			return nil, err
		}
		return c.GenerateContent(ctx, req)
	case bizforge.OpGenerateDescription:
		var req bizforge.ProductDescriptionRequest
		if err := job.Decode(&req); err != nil {
			return nil, err
		}
		return c.GenerateProductDescription(ctx, req)
	case bizforge.OpAnalyzeSentiment:
		var req bizforge.SentimentRequest
		if err := job.Decode(&req); err != nil {
			return nil, err
		}
		return c.AnalyzeSentiment(ctx, req)
	case bizforge.OpAnalyzeTagline:
		var req bizforge.TaglineAnalysisRequest
		if err := job.Decode(&req); err != nil {
			return nil, err
		}
		return c.AnalyzeTagline(ctx, req)
	case bizforge.OpGetColors:
		var req bizforge.ColorsRequest
		if err := job.Decode(&req); err != nil {
			return nil, err
		}
		return c.GetColors(ctx, req.Description)
	case bizforge.OpChat:
		var req bizforge.ChatRequest
		if err := job.Decode(&req); err != nil {
			return nil, err
		}
		return c.Chat(ctx, req.Message, req.History)
	case bizforge.OpGenerateLogo:
		var req bizforge.LogoRequest
		if err := job.Decode(&req); err != nil {
			return nil, err
		}
		return c.GenerateLogo(ctx, req)
	case bizforge.OpTranscribeVoice:
		path := job.String("file", "")
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open audio file: %w", err)
		}
		defer f.Close()
		return c.TranscribeVoice(ctx, job.String("file_name", filepath.Base(path)), f)
	case bizforge.OpSaveItem:
		var req bizforge.SaveItemRequest
		if err := job.Decode(&req); err != nil {
			return nil, err
		}
		return c.SaveItem(ctx, req.ItemType, req.Content)
	case bizforge.OpGetSavedItems:
		return c.GetSavedItems(ctx)
	default:
		return nil, fmt.Errorf("unsupported operation %q", job.Operation)
	}
}
