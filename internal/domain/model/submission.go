package model

import (
	"fmt"
	"strings"
	"time"
)

// Submission is one model's full prediction set, queued for evaluation.
type Submission struct {
	ID           string // unique id for idempotency
	Model        string
	Organization string
	Verified     bool
	SubmittedAt  time.Time
	Predictions  []Prediction
}

// Validate checks the construction invariants for a submission, including
// every contained prediction.
func (s Submission) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("submission: missing id")
	}
	if strings.TrimSpace(s.Model) == "" {
		return fmt.Errorf("submission %s: missing model name", s.ID)
	}
	if len(s.Predictions) == 0 {
		return fmt.Errorf("submission %s: no predictions", s.ID)
	}
	for _, p := range s.Predictions {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("submission %s: %w", s.ID, err)
		}
	}
	return nil
}
