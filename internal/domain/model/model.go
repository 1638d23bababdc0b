// Package model contains domain records passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Label is the three-way epistemic state of a question.
type Label string

// The label set is closed; anything else is rejected at construction.
const (
	LabelKnown         Label = "KNOWN"
	LabelUnknown       Label = "UNKNOWN"
	LabelContradiction Label = "CONTRADICTION"
)

// Labels returns the full label set in canonical order.
func Labels() []Label {
	return []Label{LabelKnown, LabelUnknown, LabelContradiction}
}

// ParseLabel converts a string into a Label, case-insensitively.
func ParseLabel(s string) (Label, error) {
	switch Label(strings.ToUpper(strings.TrimSpace(s))) {
	case LabelKnown:
		return LabelKnown, nil
	case LabelUnknown:
		return LabelUnknown, nil
	case LabelContradiction:
		return LabelContradiction, nil
	default:
		return "", fmt.Errorf("unknown label %q", s)
	}
}

// Valid reports whether l is one of the three recognized labels.
func (l Label) Valid() bool {
	switch l {
	case LabelKnown, LabelUnknown, LabelContradiction:
		return true
	}
	return false
}

// Sample is a single benchmark question with its curated ground-truth label.
// Samples are immutable once constructed; the engine only reads them.
type Sample struct {
	ID       string // unique id
	Question string
	Answer   string // empty for open problems
	Label    Label
	Domain   string // subject area, e.g. "physics"
	Source   string // provenance of the question
}

// NewSample validates the record at construction so malformed data fails
// here rather than deep inside a metrics computation.
func NewSample(id, question, answer string, label Label, domain, source string) (Sample, error) {
	if strings.TrimSpace(id) == "" {
		return Sample{}, fmt.Errorf("sample: missing id")
	}
	if strings.TrimSpace(question) == "" {
		return Sample{}, fmt.Errorf("sample %s: missing question", id)
	}
	if !label.Valid() {
		return Sample{}, fmt.Errorf("sample %s: invalid label %q", id, label)
	}
	return Sample{ID: id, Question: question, Answer: answer, Label: label, Domain: domain, Source: source}, nil
}

// Prediction is one model's answer to one sample.
type Prediction struct {
	SampleID        string
	PredictedLabel  Label
	PredictedAnswer string
	Confidence      float64 // in [0, 1]
	LatencyMS       float64 // >= 0
}

// Validate checks the construction invariants for a prediction.
func (p Prediction) Validate() error {
	if strings.TrimSpace(p.SampleID) == "" {
		return fmt.Errorf("prediction: missing sample_id")
	}
	if !p.PredictedLabel.Valid() {
		return fmt.Errorf("prediction %s: invalid label %q", p.SampleID, p.PredictedLabel)
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("prediction %s: confidence %v outside [0,1]", p.SampleID, p.Confidence)
	}
	if p.LatencyMS < 0 {
		return fmt.Errorf("prediction %s: negative latency", p.SampleID)
	}
	return nil
}

// GroundTruth maps sample ids to their curated labels. Predictions without
// an entry here are excluded from every metric.
type GroundTruth map[string]Label
