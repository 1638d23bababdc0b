package model

// Metrics is the per-model evaluation result. It is entirely derived and
// never mutated after creation; equal inputs always produce equal values.
type Metrics struct {
	Model string `json:"model"`

	// Unknown detection (UNKNOWN as the positive class)
	UPrecision float64 `json:"u_precision"`
	URecall    float64 `json:"u_recall"`
	UF1        float64 `json:"u_f1"`

	// Contradiction detection
	CPrecision float64 `json:"c_precision"`
	CRecall    float64 `json:"c_recall"`
	CF1        float64 `json:"c_f1"`

	// Overall
	Accuracy float64 `json:"accuracy"`
	MacroF1  float64 `json:"macro_f1"`

	// Calibration
	ECE        float64 `json:"ece"`
	BrierScore float64 `json:"brier_score"`

	// Meta
	NSamples     int     `json:"n_samples"`
	Excluded     int     `json:"excluded"` // predictions without ground truth
	AvgLatencyMS float64 `json:"avg_latency_ms"`
}

// LeaderboardEntry wraps a Metrics record with its leaderboard position.
// Entries are keyed by (model, organization); ranks are recomputed for the
// whole collection whenever any entry changes.
type LeaderboardEntry struct {
	Rank         int     `json:"rank"`
	Model        string  `json:"model"`
	Organization string  `json:"organization"`
	Verified     bool    `json:"verified"`
	SubmittedAt  string  `json:"submitted_at"`
	Metrics      Metrics `json:"metrics"`
}

// Key identifies the entry for replace-on-resubmit semantics.
func (e LeaderboardEntry) Key() string {
	return e.Model + "\x00" + e.Organization
}
