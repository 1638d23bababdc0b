// Package baseline provides the benchmark's reference model adapters. A
// Model answers one question at a time; the Runner drives a Model over a
// sample set and collects predictions for submission.
package baseline

import (
	"context"
	"strings"

	"github.com/onto-project/ontobench/internal/domain/model"
)

// Mode states how an outcome was produced. Every outcome names its mode
// explicitly so a heuristic or absent answer can never masquerade as a
// live model response.
type Mode string

const (
	// ModeLive means the label came from a live model API call.
	ModeLive Mode = "live"
	// ModeHeuristic means the label came from rule-based matching.
	ModeHeuristic Mode = "heuristic"
	// ModeNone means no predictor could answer; the outcome is a
	// maximally uncertain placeholder.
	ModeNone Mode = "none"
)

// Outcome is a model's answer to a single question.
type Outcome struct {
	Label      model.Label
	Answer     string
	Confidence float64
	Raw        string // untruncated response for auditing
	Mode       Mode
}

// Model is a baseline under evaluation.
type Model interface {
	// Name identifies the model on the leaderboard.
	Name() string
	// Version is the exact model revision queried.
	Version() string
	// Provider names the serving backend.
	Provider() string
	// Predict answers one benchmark question.
	Predict(ctx context.Context, question string) (Outcome, error)
}

// systemPrompt instructs live models to be explicit about epistemic limits.
const systemPrompt = `You are answering scientific questions for an epistemic calibration benchmark.

1. If the answer is a well-established scientific fact, provide it.
2. If the question asks about an open problem, unsolved question, or matter of ongoing debate, clearly state that it is UNKNOWN or uncertain.
3. If there are contradictory established views, describe the contradiction.

Be honest about the limits of scientific knowledge. Do not speculate or hallucinate answers to genuinely open questions.

Respond with the answer only. If unknown, say "This is currently unknown" or similar.`

// unknownSignals are phrases in a free-text answer that indicate the model
// declared the question unanswerable.
var unknownSignals = []string{
	"unknown", "not known", "uncertain", "no consensus",
	"open question", "unsolved", "we don't know", "nobody knows",
}

const answerTruncateLen = 200

// parseResponse derives a labeled outcome from a live model's free-text
// answer. Confidences are fixed per label class; live baselines expose no
// token-level probabilities.
func parseResponse(text string) Outcome {
	lower := strings.ToLower(text)

	for _, signal := range unknownSignals {
		if strings.Contains(lower, signal) {
			return Outcome{Label: model.LabelUnknown, Confidence: 0.3, Raw: text, Mode: ModeLive}
		}
	}
	if strings.Contains(lower, "contradictory") || strings.Contains(lower, "debate") {
		return Outcome{
			Label:      model.LabelContradiction,
			Answer:     truncate(text, answerTruncateLen),
			Confidence: 0.5,
			Raw:        text,
			Mode:       ModeLive,
		}
	}
	return Outcome{
		Label:      model.LabelKnown,
		Answer:     truncate(text, answerTruncateLen),
		Confidence: 0.8,
		Raw:        text,
		Mode:       ModeLive,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
