package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/onto-project/ontobench/internal/simulator"
	"github.com/onto-project/ontobench/pkg/logger"
)

// Default configuration constants.
const (
	defaultTopN        = 20
	defaultTimeout     = 30 * time.Second
	defaultRunTimeout  = 10 * time.Minute
	defaultSeed        = 42
	defaultSettleDelay = 2 * time.Second
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:8080", "Base URL of the service")
		datasetPath = flag.String("dataset", "data/test.jsonl", "JSONL sample file the server scores against")
		topN        = flag.Int("top", defaultTopN, "Number of top entries to fetch from the leaderboard")
		workers     = flag.Int("workers", runtime.NumCPU(), "Number of concurrent submitters")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed        = flag.Int64("seed", defaultSeed, "RNG seed for synthetic submissions")
		settle      = flag.Duration("settle", defaultSettleDelay, "Wait between submitting and reading the leaderboard")
		verbose     = flag.Bool("verbose", false, "Log every leaderboard entry")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &simulator.Config{
		BaseURL:     *baseURL,
		DatasetPath: *datasetPath,
		TopN:        *topN,
		Workers:     *workers,
		Timeout:     *timeout,
		Seed:        *seed,
		SettleDelay: *settle,
		Verbose:     *verbose,
	}

	if err := simulator.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
