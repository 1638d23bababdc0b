// Package classify computes per-class precision/recall/F1 and overall
// accuracy for three-way epistemic labels.
package classify

import (
	"fmt"

	"github.com/onto-project/ontobench/internal/domain/model"
)

// PRF holds precision, recall and F1 for one target label against the rest.
type PRF struct {
	Precision float64
	Recall    float64
	F1        float64
}

// ForLabel computes precision/recall/F1 treating target as the positive
// class and everything else as negative.
//
// Zero denominators resolve to 0 by convention, never NaN. A length
// mismatch between the two sequences is a programming error and panics.
func ForLabel(yTrue, yPred []model.Label, target model.Label) PRF {
	mustSameLength(len(yTrue), len(yPred))

	var tp, fp, fn int
	for i := range yTrue {
		switch {
		case yTrue[i] == target && yPred[i] == target:
			tp++
		case yTrue[i] != target && yPred[i] == target:
			fp++
		case yTrue[i] == target && yPred[i] != target:
			fn++
		}
	}

	var p, r float64
	if tp+fp > 0 {
		p = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		r = float64(tp) / float64(tp+fn)
	}
	var f1 float64
	if p+r > 0 {
		f1 = 2 * p * r / (p + r)
	}
	return PRF{Precision: p, Recall: r, F1: f1}
}

// Accuracy returns the fraction of exact label matches across all classes.
// Empty input yields 0.
func Accuracy(yTrue, yPred []model.Label) float64 {
	mustSameLength(len(yTrue), len(yPred))
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// Correctness converts aligned label sequences into a 1/0 vector used by
// calibration and significance testing.
func Correctness(yTrue, yPred []model.Label) []int {
	mustSameLength(len(yTrue), len(yPred))
	out := make([]int, len(yTrue))
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			out[i] = 1
		}
	}
	return out
}

func mustSameLength(a, b int) {
	if a != b {
		panic(fmt.Sprintf("classify: sequence length mismatch (%d vs %d)", a, b))
	}
}
