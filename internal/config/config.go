// Package config defines service configuration structures and loading.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, optional YAML file and env vars.
// - External errors are wrapped via this package's error kinds.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// GroundTruthPath points at the JSONL test split with curated labels.
	GroundTruthPath string `koanf:"ground_truth_path"`

	// QueueSize bounds the in-memory submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of evaluation workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the submission-id dedupe cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// BinCount sets the number of calibration bins for ECE.
	BinCount int `koanf:"bin_count"`

	// CoveragePoints sets the number of levels on the risk/coverage curve.
	CoveragePoints int `koanf:"coverage_points"`

	// SignificanceThreshold is the p-value cutoff for model comparisons.
	SignificanceThreshold float64 `koanf:"significance_threshold"`

	// PrimaryMetric orders the leaderboard: unknown_f1, contradiction_f1,
	// macro_f1 or accuracy.
	PrimaryMetric string `koanf:"primary_metric"`

	// AbstentionThresholds are the confidence cutoffs analyzed in reports.
	AbstentionThresholds []float64 `koanf:"abstention_thresholds"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":8080",
		GroundTruthPath:       "data/test.jsonl",
		QueueSize:             10_000,
		WorkerCount:           runtime.NumCPU() * 2,
		DedupeSize:            100_000,
		MaxLeaderboardLimit:   100,
		BinCount:              10,
		CoveragePoints:        20,
		SignificanceThreshold: 0.01,
		PrimaryMetric:         "unknown_f1",
		AbstentionThresholds:  []float64{0.5, 0.7},
	}
}
