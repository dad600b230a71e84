package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"jobradar-engine/internal/aggregate"
	"jobradar-engine/internal/config"
	"jobradar-engine/internal/events"
	"jobradar-engine/internal/feed"
	"jobradar-engine/internal/httpapi"
	"jobradar-engine/internal/logger"
	"jobradar-engine/internal/scheduler"
	"jobradar-engine/internal/secrets"
	"jobradar-engine/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the engine: scheduled aggregation plus the feed API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	zl, err := logger.New(jsonLogs, debug)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()
	log := zl.Sugar()

	dir := dataDir
	if dir == "" {
		dir = os.Getenv("JOBRADAR_DATA_DIR")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// One engine per data dir: the URL-dedupe insert is check-then-write,
	// so a second concurrent process could double-insert.
	lock := flock.New(filepath.Join(dir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock data dir: %w", err)
	}
	if !locked {
		return fmt.Errorf("another engine instance is using %s", dir)
	}
	defer func() { _ = lock.Unlock() }()

	userCfgPath, err := config.EnsureUserConfig(dir, defaultCfg)
	if err != nil {
		return fmt.Errorf("config bootstrap: %w", err)
	}

	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		// Tier membership may live in its own file next to the config.
		if err := config.OverlayTiers(&cfg, filepath.Join(dir, "tiers.yml")); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	var cfgVal atomic.Value
	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("config load (%s): %w", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	db, err := store.Open(filepath.Join(dir, "jobradar.db"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("migrate store: %w", err)
	}

	hub := events.NewHub()
	runner := &aggregate.Runner{
		DB:       db,
		Hub:      hub,
		Log:      log,
		TokenFor: secrets.GetSourceToken,
	}

	var aggStatus atomic.Value
	aggStatus.Store(httpapi.AggregateStatus{})

	deps := httpapi.Deps{
		DB:             db,
		Hub:            hub,
		Log:            log,
		Feed:           &feed.Service{DB: db},
		CfgVal:         &cfgVal,
		AggStatus:      &aggStatus,
		UserCfgPath:    userCfgPath,
		LoadCfg:        loadCfg,
		RunAggregation: runner.Run,
		SetSourceToken: secrets.SetSourceToken,
	}

	handler := httpapi.Chain(httpapi.NewMux(deps),
		httpapi.RequestID,
		httpapi.Recover(log),
		httpapi.AccessLog(log),
		httpapi.Cors,
	)

	runPass := func() {
		st := aggStatus.Load().(httpapi.AggregateStatus)
		if st.Running {
			return
		}
		st.Running = true
		st.LastRunAt = time.Now().Format(time.RFC3339)
		aggStatus.Store(st)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		cur := cfgVal.Load().(config.Config)
		res, err := runner.Run(ctx, cur, aggregate.Options{})

		now := time.Now().Format(time.RFC3339)
		next := aggStatus.Load().(httpapi.AggregateStatus)
		next.Running = false
		next.LastRunAt = now
		next.LastAdded = res.Added
		if err != nil {
			next.LastError = err.Error()
			log.Warnw("scheduled aggregation failed", "err", err)
		} else {
			next.LastError = ""
			next.LastOkAt = now
		}
		aggStatus.Store(next)
	}

	sched := scheduler.New(log)
	if err := sched.Every(cfg.Aggregate.IntervalMinutes, "aggregate", runPass); err != nil {
		return err
	}
	if err := sched.Daily("cleanup", func() {
		deleted, err := store.CleanupOldListings(db)
		if err != nil {
			log.Warnw("cleanup failed", "err", err)
			return
		}
		if deleted > 0 {
			log.Infow("cleaned up old listings", "deleted", deleted)
		}
	}); err != nil {
		return err
	}
	sched.Start(runPass)
	defer sched.Stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", cfg.App.Port),
		Handler: handler,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infow("engine listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Infow("shutting down")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}
