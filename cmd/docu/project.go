package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/docu"
	"github.com/aretw0/docu/internal/config"
	"github.com/aretw0/docu/internal/logging"
	"github.com/aretw0/docu/internal/metrics"
	"github.com/aretw0/docu/pkg/adapters/memory"
	"github.com/aretw0/docu/pkg/adapters/redis"
	"github.com/aretw0/docu/pkg/ports"
	"github.com/spf13/cobra"
)

// project is the state shared by the commands: the resolved configuration,
// the logger and the built site.
type project struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	site    *docu.Site
}

// loadProject reads the configuration and builds the site. Flags override
// the values of docu.yaml.
func loadProject(cmd *cobra.Command, args []string) (*project, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if !cmd.Flags().Changed("dir") && len(args) > 0 {
		dir = args[0]
	}
	cfgPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(dir, cfgPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("fail-fast") {
		cfg.FailFast, _ = cmd.Flags().GetBool("fail-fast")
	}

	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	logger := logging.ForCLI(debug)
	if cfg.LogFormat == string(logging.FormatJSON) {
		logger = logging.NewWithFormat(cmd.ErrOrStderr(), level, logging.FormatJSON)
	}

	defs, err := cfg.Definitions(dir)
	if err != nil {
		return nil, err
	}

	p := &project{cfg: cfg, logger: logger, metrics: metrics.New()}

	opts := []docu.Option{
		docu.WithLogger(logger),
		docu.WithMetrics(p.metrics.BuildHooks()),
		docu.WithCollections(defs...),
		docu.WithConcurrency(cfg.Concurrency),
	}
	if cfg.FailFast {
		opts = append(opts, docu.WithFailFast())
	}

	site, err := docu.New(dir, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build site: %w", err)
	}
	p.site = site
	return p, nil
}

// counterStore selects the Redis store when a URL is configured (or given
// with --redis) and the in-memory store otherwise.
func (p *project) counterStore(cmd *cobra.Command) (ports.CounterStore, func(), error) {
	url := p.cfg.Redis.URL
	if f := cmd.Flags().Lookup("redis"); f != nil && f.Changed {
		url = f.Value.String()
	}
	if url == "" {
		return memory.NewStore(), func() {}, nil
	}

	var opts []redis.Option
	if p.cfg.Redis.TTL > 0 {
		opts = append(opts, redis.WithTTL(p.cfg.Redis.TTL))
	}
	store, err := redis.New(url, opts...)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("redis unavailable: %w", err)
	}
	p.logger.Info("Using Redis counter store", "ttl", p.cfg.Redis.TTL)
	return store, func() { store.Close() }, nil
}
