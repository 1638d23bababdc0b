package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/onto-project/ontobench/internal/adapters/http/api"
	app "github.com/onto-project/ontobench/internal/app"
	"github.com/onto-project/ontobench/internal/config"
	"github.com/onto-project/ontobench/internal/domain/eval"
	"github.com/onto-project/ontobench/internal/domain/model"
	"github.com/onto-project/ontobench/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection; the service registry carries
	// its own curated metric set.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	truth, err := model.LoadGroundTruth(cfg.GroundTruthPath)
	if err != nil {
		os.Stderr.WriteString("failed to load ground truth: " + err.Error() + "\n")
		return
	}
	log.Info(ctx, "ground truth loaded",
		logger.String("path", cfg.GroundTruthPath),
		logger.Int("samples", len(truth)),
	)

	engine := eval.New(
		eval.WithBinCount(cfg.BinCount),
		eval.WithCoveragePoints(cfg.CoveragePoints),
		eval.WithAbstentionThresholds(cfg.AbstentionThresholds),
		eval.WithSignificanceThreshold(cfg.SignificanceThreshold),
	)

	svc := app.New(
		app.WithLogger(log),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithGroundTruth(truth),
		app.WithEngine(engine),
		app.WithPrimaryMetric(cfg.PrimaryMetric),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop(context.Background())

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc, cfg.MaxLeaderboardLimit, api.DatasetInfo{
		Name:        "ONTO-Bench",
		Version:     "1.6",
		TestSamples: len(truth),
		Categories:  []string{"KNOWN", "UNKNOWN", "CONTRADICTION"},
		Download:    "https://github.com/onto-project/onto-bench",
	})
	apiServer.Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}
