// Package simulator generates synthetic benchmark submissions and drives
// them through a running leaderboard service for load and sanity runs.
package simulator

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL     string        // Base URL of the service
	DatasetPath string        // JSONL sample file the server scores against
	TopN        int           // Number of top entries to fetch
	Workers     int           // Number of concurrent submitters
	Timeout     time.Duration // HTTP request timeout
	Seed        int64         // RNG seed; same seed, same submissions
	SettleDelay time.Duration // Wait between submission and leaderboard read
	Verbose     bool          // Enable verbose logging
}

// Stats holds simulation statistics.
type Stats struct {
	ProfilesGenerated    int
	SubmissionsAccepted  int
	SubmissionsDuplicate int
	SubmissionsFailed    int
	LeaderboardEntries   int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}

// Wire mirrors of the service's JSON schema.

type predictionWire struct {
	SampleID   string  `json:"sample_id"`
	Label      string  `json:"label"`
	Answer     string  `json:"answer,omitempty"`
	Confidence float64 `json:"confidence"`
	LatencyMS  float64 `json:"latency_ms"`
}

type submissionWire struct {
	SubmissionID string           `json:"submission_id"`
	ModelName    string           `json:"model_name"`
	Organization string           `json:"organization"`
	Predictions  []predictionWire `json:"predictions"`
}

type ackWire struct {
	Status       string `json:"status"`
	SubmissionID string `json:"submission_id"`
	Duplicate    bool   `json:"duplicate"`
}

type entryWire struct {
	Rank         int    `json:"rank"`
	Model        string `json:"model"`
	Organization string `json:"organization"`
	Metrics      struct {
		UF1      float64 `json:"u_f1"`
		Accuracy float64 `json:"accuracy"`
		MacroF1  float64 `json:"macro_f1"`
		NSamples int     `json:"n_samples"`
	} `json:"metrics"`
}
