package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bizforge-hq/bizforge-client/internal/batch"
	"github.com/bizforge-hq/bizforge-client/internal/config"
	"github.com/bizforge-hq/bizforge-client/internal/domain"
	"github.com/bizforge-hq/bizforge-client/internal/logger"
	"github.com/bizforge-hq/bizforge-client/internal/storage"
	"github.com/bizforge-hq/bizforge-client/pkg/bizforge"
	"github.com/bizforge-hq/bizforge-client/pkg/jobs"
	"github.com/bizforge-hq/bizforge-client/pkg/publishers"
)

// Runtime owns the client and its sinks for the lifetime of one CLI process.
// It wires the history store and the publishers fanout around the client
// so every call leaves a journal entry and an event.
type Runtime struct {
	cfg    *config.Config
	client *bizforge.Client
	fanout *publishers.Fanout
	batch  *batch.Service
	store  storage.Store
	log    logger.Logger
}

// NewRuntime builds a runtime from config. A missing publishers file leaves
// the fanout empty.
func NewRuntime(ctx context.Context, cfg *config.Config, log logger.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := bizforge.New(
		bizforge.WithBaseURL(cfg.BaseURL),
		bizforge.WithBasePath(cfg.BasePath),
		bizforge.WithTimeout(cfg.Timeout),
		bizforge.WithLogger(log),
	)
	log.InfoObj("client initialized", "client_config", map[string]any{
		"base_url":        cfg.BaseURL,
		"base_path":       client.BasePath(),
		"timeout_seconds": cfg.TimeoutSeconds,
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	storeOpts := storage.Options{
		EntryTTL:        cfg.HistoryTTL,
		CleanupInterval: cfg.HistoryCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"entry_ttl_seconds":        int(cfg.HistoryTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.HistoryCleanupInterval.Seconds()),
	})

	return &Runtime{
		cfg:    cfg,
		client: client,
		fanout: fanout,
		batch:  batch.NewService(client, fanout, log, store, cfg.BatchWorkers),
		store:  store,
		log:    log,
	}, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(cfg.PublishersFile) == "" {
		log.DebugObj("no publishers file configured", "publishers_file", "")
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers, err := selectPublishers(publisherReg, cfg.Publishers)
	if err != nil {
		return nil, err
	}
	if len(enabledPublishers) == 0 {
		log.WarnObj("no publishers enabled", "publishers_file", cfg.PublishersFile)
		return publishers.NewFanout(nil), nil
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	publisherSummaries := make([]map[string]any, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]any{
			"id":     pubCfg.ID,
			"type":   pubCfg.Type,
			"events": pubCfg.Events,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	return publishers.NewFanout(pubClients), nil
}

// selectPublishers returns the enabled publishers, or only the listed ids when
// ids is non-empty. Naming an unknown or disabled publisher is an error.
func selectPublishers(reg *publishers.ConfigRegistry, ids []string) ([]publishers.PublisherConfig, error) {
	var selected []publishers.PublisherConfig
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		pubCfg, ok := reg.ByID(id)
		if !ok {
			return nil, fmt.Errorf("select publishers: unknown publisher %q", id)
		}
		if !pubCfg.EnabledValue() {
			return nil, fmt.Errorf("select publishers: publisher %q is disabled", id)
		}
		selected = append(selected, pubCfg)
	}
	if len(seen) == 0 {
		return reg.Enabled(), nil
	}
	return selected, nil
}

// Client returns the configured BizForge client.
func (r *Runtime) Client() *bizforge.Client {
	return r.client
}

// Track journals and publishes the outcome of a call made outside a batch.
func (r *Runtime) Track(ctx context.Context, call batch.Call) {
	r.batch.Track(ctx, call)
}

// RunBatch loads the jobs file and runs every job through the worker pool.
func (r *Runtime) RunBatch(ctx context.Context, path string) (batch.Summary, error) {
	list, err := jobs.Load(path)
	if err != nil {
		return batch.Summary{}, fmt.Errorf("load jobs: %w", err)
	}
	r.log.InfoObj("batch starting", "batch_meta", map[string]any{
		"jobs_file":        path,
		"jobs_count":       len(list),
		"workers":          r.cfg.BatchWorkers,
		"publishers_count": r.fanout.Size(),
	})
	return r.batch.Run(ctx, list)
}

// History returns up to limit journal entries, newest first.
func (r *Runtime) History(limit int) ([]domain.HistoryEntry, error) {
	return r.store.Recent(limit)
}

// Close releases the store and publisher connections.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	if err := r.fanout.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publishers: %w", err))
	}
	return errors.Join(errs...)
}
