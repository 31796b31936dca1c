package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bizforge-hq/bizforge-client/pkg/bizforge"
	"github.com/spf13/cobra"
)

func newRequestCommand(opts *GlobalOptions) *cobra.Command {
	var (
		method  string
		data    string
		headers map[string]string
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "request URL",
		Short: "Send a raw JSON request",
		Long: `Send a raw JSON request and print the parsed reply.

URL is used as given; the configured base path is not prepended. Error
statuses are printed like any other reply unless --fail is set.`,
		Example: `  bizforge request /api/saved-items
  bizforge request /api/get-colors -X POST -d '{"description":"forest cafe"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			reqOpts := []bizforge.RequestOption{
				bizforge.WithMethod(strings.ToUpper(method)),
				bizforge.WithHeaders(headers),
			}
			if data != "" {
				if !json.Valid([]byte(data)) {
					return fmt.Errorf("--data is not valid JSON")
				}
				reqOpts = append(reqOpts, bizforge.WithBody(json.RawMessage(data)))
			}

			res, err := opts.rt.Client().Request(ctx, args[0], reqOpts...)
			if err != nil {
				return err
			}
			if err := opts.print(res.Body); err != nil {
				return err
			}
			if strict {
				return res.Err()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "HTTP method")
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	cmd.Flags().StringToStringVarP(&headers, "header", "H", nil, "extra headers as key=value")
	cmd.Flags().BoolVar(&strict, "fail", false, "exit with an error on non-2xx statuses")
	return cmd
}

func newBatchCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "batch JOBS_FILE",
		Short:   "Run every job in a YAML or JSON jobs file",
		Example: `  bizforge batch jobs.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			sum, runErr := opts.rt.RunBatch(ctx, args[0])
			if sum.Total > 0 {
				if err := opts.print(sum); err != nil {
					return errors.Join(runErr, err)
				}
			}
			return runErr
		},
	}
}

func newHistoryCommand(opts *GlobalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently journaled calls, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := opts.rt.History(limit)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			return opts.print(entries)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to show")
	return cmd
}
