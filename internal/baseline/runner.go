package baseline

import (
	"context"
	"time"

	"github.com/onto-project/ontobench/internal/domain/model"
	"github.com/onto-project/ontobench/pkg/logger"
)

// RunMeta summarizes one evaluation run of a model over a sample set.
type RunMeta struct {
	Model        string       `json:"model"`
	Version      string       `json:"version"`
	Provider     string       `json:"provider"`
	TotalSamples int          `json:"total_samples"`
	AvgLatencyMS float64      `json:"avg_latency_ms"`
	ModeCounts   map[Mode]int `json:"mode_counts"`
	RunAt        time.Time    `json:"run_at"`
}

// Runner drives a Model over samples and collects predictions.
type Runner struct {
	fallback Model
	logger   logger.Logger
}

// RunnerOption applies a configuration option to the Runner.
type RunnerOption func(*Runner)

// WithFallback sets a model used when the primary fails for a question.
// Without one, failures surface as explicit mode-none outcomes.
func WithFallback(m Model) RunnerOption {
	return func(r *Runner) {
		r.fallback = m
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{logger: logger.Get().Named("baseline-runner")}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates the model on every sample, measuring per-question latency.
// A prediction is always produced for every sample; when both the primary
// and the fallback fail it carries the maximally uncertain mode-none
// placeholder so the gap is visible downstream, never skipped silently.
func (r *Runner) Run(ctx context.Context, m Model, samples []model.Sample) ([]model.Prediction, RunMeta, error) {
	meta := RunMeta{
		Model:      m.Name(),
		Version:    m.Version(),
		Provider:   m.Provider(),
		ModeCounts: make(map[Mode]int),
		RunAt:      time.Now().UTC(),
	}

	preds := make([]model.Prediction, 0, len(samples))
	totalLatency := 0.0
	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			return nil, RunMeta{}, err
		}

		start := time.Now()
		out, err := m.Predict(ctx, s.Question)
		if err != nil {
			r.logger.Warn(ctx, "primary predict failed",
				logger.String("model", m.Name()),
				logger.String("sampleID", s.ID),
				logger.Error(err),
			)
			out, err = r.recover(ctx, s.Question)
			if err != nil {
				return nil, RunMeta{}, err
			}
		}
		latency := float64(time.Since(start).Microseconds()) / 1000.0

		preds = append(preds, model.Prediction{
			SampleID:        s.ID,
			PredictedLabel:  out.Label,
			PredictedAnswer: out.Answer,
			Confidence:      out.Confidence,
			LatencyMS:       latency,
		})
		meta.ModeCounts[out.Mode]++
		totalLatency += latency
	}

	meta.TotalSamples = len(preds)
	if len(preds) > 0 {
		meta.AvgLatencyMS = totalLatency / float64(len(preds))
	}
	return preds, meta, nil
}

// recover consults the fallback model, or yields the mode-none placeholder.
func (r *Runner) recover(ctx context.Context, question string) (Outcome, error) {
	if r.fallback != nil {
		out, err := r.fallback.Predict(ctx, question)
		if err == nil {
			return out, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Outcome{}, ctxErr
		}
	}
	return Outcome{Label: model.LabelKnown, Confidence: 0.5, Mode: ModeNone}, nil
}
