package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bizforge-hq/bizforge-client/pkg/bizforge"
	"github.com/spf13/cobra"
)

func newBrandCommand(opts *GlobalOptions) *cobra.Command {
	var req bizforge.BrandRequest

	cmd := &cobra.Command{
		Use:     "brand",
		Short:   "Suggest brand names for a business description",
		Example: `  bizforge brand -d "organic coffee roaster" -k green,bean`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.invoke(cmd, bizforge.OpGenerateBrand, "", req, func(ctx context.Context, c *bizforge.Client) (any, error) {
				return c.GenerateBrand(ctx, req.Description, req.Keywords)
			})
		},
	}

	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "business description")
	cmd.Flags().StringSliceVarP(&req.Keywords, "keywords", "k", nil, "comma separated keywords")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newTaglineCommand(opts *GlobalOptions) *cobra.Command {
	var req bizforge.TaglineRequest

	cmd := &cobra.Command{
		Use:   "tagline",
		Short: "Generate taglines for a brand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.invoke(cmd, bizforge.OpGenerateTagline, "", req, func(ctx context.Context, c *bizforge.Client) (any, error) {
				return c.GenerateTagline(ctx, req)
			})
		},
	}

	cmd.Flags().StringVarP(&req.BrandName, "brand", "b", "", "brand name")
	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "brand description")
	cmd.Flags().StringVar(&req.Tone, "tone", "", "tone of voice (default \""+bizforge.DefaultTaglineTone+"\")")
	_ = cmd.MarkFlagRequired("brand")
	return cmd
}

func newContentCommand(opts *GlobalOptions) *cobra.Command {
	var req bizforge.ContentRequest

	cmd := &cobra.Command{
		Use:   "content",
		Short: "Write marketing content on a topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.invoke(cmd, bizforge.OpGenerateContent, "", req, func(ctx context.Context, c *bizforge.Client) (any, error) {
				return c.GenerateContent(ctx, req)
			})
		},
	}

	cmd.Flags().StringVarP(&req.Topic, "topic", "t", "", "content topic")
	cmd.Flags().StringVar(&req.Tone, "tone", "", "tone of voice (default \""+bizforge.DefaultContentTone+"\")")
	cmd.Flags().StringVar(&req.ContentType, "type", "", "content type (default \""+bizforge.DefaultContentType+"\")")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func newDescribeCommand(opts *GlobalOptions) *cobra.Command {
	var req bizforge.ProductDescriptionRequest

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Write a product description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.invoke(cmd, bizforge.OpGenerateDescription, "", req, func(ctx context.Context, c *bizforge.Client) (any, error) {
				return c.GenerateProductDescription(ctx, req)
			})
		},
	}

	cmd.Flags().StringVarP(&req.ProductName, "product", "p", "", "product name")
	cmd.Flags().StringVarP(&req.Features, "features", "f", "", "key features")
	cmd.Flags().StringVar(&req.TargetAudience, "audience", "", "target audience (default \""+bizforge.DefaultTargetAudience+"\")")
	cmd.Flags().StringVar(&req.Tone, "tone", "", "tone of voice (default \""+bizforge.DefaultDescriptionTone+"\")")
	_ = cmd.MarkFlagRequired("product")
	return cmd
}

func newLogoCommand(opts *GlobalOptions) *cobra.Command {
	var (
		req     bizforge.LogoRequest
		outPath string
	)

	cmd := &cobra.Command{
		Use:     "logo",
		Short:   "Generate a logo image",
		Example: `  bizforge logo -d "mountain bakery" --out logo.png`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.invoke(cmd, bizforge.OpGenerateLogo, "", req, func(ctx context.Context, c *bizforge.Client) (any, error) {
				logo, err := c.GenerateLogo(ctx, req)
				if err != nil || outPath == "" {
					return logo, err
				}
				return logo, writeLogo(logo, outPath)
			})
		},
	}

	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "what the logo should show")
	cmd.Flags().StringVar(&req.Style, "style", "", "visual style (default \""+bizforge.DefaultLogoStyle+"\")")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the decoded image to this file")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func writeLogo(logo *bizforge.Logo, path string) error {
	data, _, err := logo.DecodeImage()
	if err != nil {
		return fmt.Errorf("decode logo image: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write logo image: %w", err)
	}
	return nil
}

func newSaveCommand(opts *GlobalOptions) *cobra.Command {
	var (
		itemType string
		content  string
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save an artifact on the backend",
		Long: `Save an artifact on the backend.

--content is sent as JSON when it parses as JSON and as a plain string otherwise.`,
		Example: `  bizforge save --type brand --content '{"name":"Leafy"}'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body := contentValue(content)
			req := bizforge.SaveItemRequest{ItemType: itemType, Content: body}
			return opts.invoke(cmd, bizforge.OpSaveItem, itemType, req, func(ctx context.Context, c *bizforge.Client) (any, error) {
				return c.SaveItem(ctx, itemType, body)
			})
		},
	}

	cmd.Flags().StringVarP(&itemType, "type", "t", "", "item type, e.g. brand, tagline, logo")
	cmd.Flags().StringVarP(&content, "content", "c", "", "item content")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

// contentValue keeps valid JSON as raw JSON so objects are not double encoded.
func contentValue(s string) any {
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	return s
}

func newSavedCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "saved",
		Short: "List saved artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.invoke(cmd, bizforge.OpGetSavedItems, "", nil, func(ctx context.Context, c *bizforge.Client) (any, error) {
				return c.GetSavedItems(ctx)
			})
		},
	}
}
