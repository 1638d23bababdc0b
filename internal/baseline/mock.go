package baseline

import (
	"context"
	"math/rand"

	"github.com/onto-project/ontobench/internal/domain/model"
)

// MockModel produces random answers for pipeline testing without API
// keys. The caller supplies the rng so runs are reproducible.
type MockModel struct {
	name        string
	unknownRate float64
	rng         *rand.Rand
}

// NewMockModel creates a mock baseline that answers UNKNOWN at the given
// rate and KNOWN otherwise.
func NewMockModel(name string, unknownRate float64, rng *rand.Rand) *MockModel {
	return &MockModel{name: name, unknownRate: unknownRate, rng: rng}
}

// Name implements Model.
func (m *MockModel) Name() string { return m.name }

// Version implements Model.
func (m *MockModel) Version() string { return "mock-1.0" }

// Provider implements Model.
func (m *MockModel) Provider() string { return "mock" }

// Predict implements Model.
func (m *MockModel) Predict(_ context.Context, _ string) (Outcome, error) {
	if m.rng.Float64() < m.unknownRate {
		return Outcome{Label: model.LabelUnknown, Confidence: 0.3, Raw: "mock_unknown", Mode: ModeHeuristic}, nil
	}
	return Outcome{Label: model.LabelKnown, Answer: "Mock answer", Confidence: 0.8, Raw: "mock_known", Mode: ModeHeuristic}, nil
}
