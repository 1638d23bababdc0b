package simulator

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/onto-project/ontobench/internal/domain/model"
)

// Profile describes a synthetic model's behavior. Accuracy is the chance
// a generated prediction matches the true label; noise widens the spread
// of reported confidences around it.
type Profile struct {
	Name            string
	Organization    string
	Accuracy        float64
	ConfidenceNoise float64
}

// DefaultProfiles spans the quality range from near-oracle to guessing,
// so a simulation run produces a fully ordered leaderboard.
func DefaultProfiles() []Profile {
	return []Profile{
		{Name: "sim-oracle", Organization: "Simulation", Accuracy: 0.95, ConfidenceNoise: 0.05},
		{Name: "sim-strong", Organization: "Simulation", Accuracy: 0.80, ConfidenceNoise: 0.10},
		{Name: "sim-mid", Organization: "Simulation", Accuracy: 0.60, ConfidenceNoise: 0.20},
		{Name: "sim-weak", Organization: "Simulation", Accuracy: 0.40, ConfidenceNoise: 0.25},
		{Name: "sim-guesser", Organization: "Simulation", Accuracy: 0.34, ConfidenceNoise: 0.30},
	}
}

// latency bounds for the fabricated per-prediction timings (ms).
const (
	minLatencyMS = 5.0
	maxLatencyMS = 250.0
)

// Generate fabricates one prediction per sample according to the profile.
// The rng is caller-owned; runs with the same seed are identical.
func Generate(samples []model.Sample, p Profile, rng *rand.Rand) submissionWire {
	preds := make([]predictionWire, 0, len(samples))
	for _, s := range samples {
		label := s.Label
		if rng.Float64() >= p.Accuracy {
			label = wrongLabel(s.Label, rng)
		}

		conf := p.Accuracy + (rng.Float64()-0.5)*2*p.ConfidenceNoise
		conf = clamp(conf, 0.05, 0.99)

		preds = append(preds, predictionWire{
			SampleID:   s.ID,
			Label:      string(label),
			Confidence: conf,
			LatencyMS:  minLatencyMS + rng.Float64()*(maxLatencyMS-minLatencyMS),
		})
	}
	return submissionWire{
		SubmissionID: uuid.NewString(),
		ModelName:    p.Name,
		Organization: p.Organization,
		Predictions:  preds,
	}
}

// wrongLabel picks uniformly between the two labels that are not truth.
func wrongLabel(truth model.Label, rng *rand.Rand) model.Label {
	others := make([]model.Label, 0, 2)
	for _, l := range model.Labels() {
		if l != truth {
			others = append(others, l)
		}
	}
	return others[rng.Intn(len(others))]
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
