package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bizforge-hq/bizforge-client/pkg/bizforge"
	"github.com/spf13/cobra"
)

func newSentimentCommand(opts *GlobalOptions) *cobra.Command {
	var req bizforge.SentimentRequest

	cmd := &cobra.Command{
		Use:   "sentiment",
		Short: "Analyze customer feedback sentiment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.invoke(cmd, bizforge.OpAnalyzeSentiment, "", req, func(ctx context.Context, c *bizforge.Client) (any, error) {
				return c.AnalyzeSentiment(ctx, req)
			})
		},
	}

	cmd.Flags().StringVar(&req.Text, "text", "", "feedback text")
	cmd.Flags().StringVarP(&req.BrandName, "brand", "b", "", "brand the feedback is about")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newAnalyzeTaglineCommand(opts *GlobalOptions) *cobra.Command {
	var req bizforge.TaglineAnalysisRequest

	cmd := &cobra.Command{
		Use:   "analyze-tagline",
		Short: "Score a tagline and suggest alternatives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.invoke(cmd, bizforge.OpAnalyzeTagline, "", req, func(ctx context.Context, c *bizforge.Client) (any, error) {
				return c.AnalyzeTagline(ctx, req)
			})
		},
	}

	cmd.Flags().StringVar(&req.Tagline, "tagline", "", "tagline to analyze")
	cmd.Flags().StringVarP(&req.BrandName, "brand", "b", "", "brand name")
	cmd.Flags().StringVarP(&req.BrandDescription, "description", "d", "", "brand description")
	_ = cmd.MarkFlagRequired("tagline")
	return cmd
}

func newColorsCommand(opts *GlobalOptions) *cobra.Command {
	var req bizforge.ColorsRequest

	cmd := &cobra.Command{
		Use:   "colors",
		Short: "Suggest a brand color palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.invoke(cmd, bizforge.OpGetColors, "", req, func(ctx context.Context, c *bizforge.Client) (any, error) {
				return c.GetColors(ctx, req.Description)
			})
		},
	}

	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "brand description")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newChatCommand(opts *GlobalOptions) *cobra.Command {
	var (
		message     string
		historyFile string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask the business assistant a question",
		Long: `Ask the business assistant a question.

--history points at a JSON file holding earlier turns as
[{"role": "user", "content": "..."}, {"role": "assistant", "content": "..."}].`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			history, err := loadHistory(historyFile)
			if err != nil {
				return err
			}
			req := bizforge.ChatRequest{Message: message, History: history}
			return opts.invoke(cmd, bizforge.OpChat, "", req, func(ctx context.Context, c *bizforge.Client) (any, error) {
				return c.Chat(ctx, message, history)
			})
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "message to send")
	cmd.Flags().StringVar(&historyFile, "history", "", "JSON file with prior conversation turns")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func loadHistory(path string) ([]bizforge.ChatMessage, error) {
	if path == "" {
		return []bizforge.ChatMessage{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chat history: %w", err)
	}
	var history []bizforge.ChatMessage
	if err := json.Unmarshal(raw, &history); err != nil {
		return nil, fmt.Errorf("decode chat history: %w", err)
	}
	return history, nil
}

func newTranscribeCommand(opts *GlobalOptions) *cobra.Command {
	var fileName string

	cmd := &cobra.Command{
		Use:   "transcribe AUDIO_FILE",
		Short: "Transcribe a voice recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open audio file: %w", err)
			}
			defer f.Close()

			name := fileName
			if name == "" {
				name = f.Name()
			}
			req := map[string]string{"file": args[0]}
			return opts.invoke(cmd, bizforge.OpTranscribeVoice, "", req, func(ctx context.Context, c *bizforge.Client) (any, error) {
				return c.TranscribeVoice(ctx, name, f)
			})
		},
	}

	cmd.Flags().StringVar(&fileName, "file-name", "", "file name reported to the backend")
	return cmd
}
