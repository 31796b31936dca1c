// Package cli implements the bizforge command tree on top of cobra.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bizforge-hq/bizforge-client/internal/batch"
	"github.com/bizforge-hq/bizforge-client/internal/domain"
	"github.com/bizforge-hq/bizforge-client/pkg/bizforge"
	"github.com/spf13/cobra"
)

const (
	cliName        = "bizforge"
	cliDescription = "bizforge - command line client for the BizForge backend"
)

// Runtime is what commands need from the application runtime.
type Runtime interface {
	Client() *bizforge.Client
	Track(ctx context.Context, call batch.Call)
	RunBatch(ctx context.Context, path string) (batch.Summary, error)
	History(limit int) ([]domain.HistoryEntry, error)
}

// GlobalOptions holds options shared by every command.
type GlobalOptions struct {
	Compact bool

	rt  Runtime
	out io.Writer
}

// NewRootCommand builds the command tree. Results are written to out as JSON.
func NewRootCommand(rt Runtime, out io.Writer) *cobra.Command {
	opts := &GlobalOptions{rt: rt, out: out}

	cmd := &cobra.Command{
		Use:   cliName,
		Short: cliDescription,
		Long: `bizforge talks to a BizForge backend and prints each reply as JSON.

The backend address comes from BIZFORGE_BASE_URL and BIZFORGE_BASE_PATH.
Every call is journaled to the local history store and announced to the
publishers listed in BIZFORGE_PUBLISHERS_FILE.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)

	cmd.PersistentFlags().BoolVar(&opts.Compact, "compact", false, "print JSON on a single line")

	cmd.AddCommand(
		newBrandCommand(opts),
		newTaglineCommand(opts),
		newContentCommand(opts),
		newDescribeCommand(opts),
		newSentimentCommand(opts),
		newAnalyzeTaglineCommand(opts),
		newColorsCommand(opts),
		newChatCommand(opts),
		newLogoCommand(opts),
		newTranscribeCommand(opts),
		newSaveCommand(opts),
		newSavedCommand(opts),
		newRequestCommand(opts),
		newBatchCommand(opts),
		newHistoryCommand(opts),
	)

	return cmd
}

// print writes v as JSON.
func (o *GlobalOptions) print(v any) error {
	enc := json.NewEncoder(o.out)
	if !o.Compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// invoke runs a typed client call, tracks it and prints the reply.
func (o *GlobalOptions) invoke(cmd *cobra.Command, op, itemType string, req any, call func(ctx context.Context, c *bizforge.Client) (any, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := call(ctx, o.rt.Client())
	o.rt.Track(ctx, batch.Call{
		Operation: op,
		ItemType:  itemType,
		Request:   req,
		Response:  resp,
		Err:       err,
	})
	if err != nil {
		return err
	}
	return o.print(resp)
}
