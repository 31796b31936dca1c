package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bizforge-hq/bizforge-client/internal/app"
	"github.com/bizforge-hq/bizforge-client/internal/cli"
	"github.com/bizforge-hq/bizforge-client/internal/config"
	"github.com/bizforge-hq/bizforge-client/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bizforge: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := app.NewRuntime(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize runtime", "error", err)
		return err
	}
	defer func() {
		if cerr := rt.Close(); cerr != nil {
			logger.ErrorObj("runtime close failed", "error", cerr)
		}
	}()

	return cli.NewRootCommand(rt, os.Stdout).ExecuteContext(ctx)
}
