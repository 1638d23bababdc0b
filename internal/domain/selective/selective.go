// Package selective analyzes confidence-ordered selective prediction:
// unknown-detection AUROC, risk/coverage curves, AURC and abstention.
package selective

import (
	"fmt"
	"math"
	"sort"

	"github.com/onto-project/ontobench/internal/domain/model"
)

// DefaultCoveragePoints is the number of coverage levels on the curve.
const DefaultCoveragePoints = 20

// AUROCUnknown computes the area under the ROC curve for detecting
// true-UNKNOWN samples.
//
// The per-sample score is the model's confidence when it predicted UNKNOWN,
// and 1-confidence otherwise: low confidence in a non-UNKNOWN call is
// treated as evidence the sample might actually be UNKNOWN. This scoring
// rule is a heuristic proxy kept for parity with published results.
//
// When either class is absent the AUROC is undefined and defaults to 0.5.
func AUROCUnknown(yTrue, yPred []model.Label, confidences []float64) float64 {
	mustSameLength(len(yTrue), len(yPred))
	mustSameLength(len(yTrue), len(confidences))

	n := len(yTrue)
	scores := make([]float64, n)
	positive := make([]bool, n)
	nPos := 0
	for i := range yTrue {
		if yPred[i] == model.LabelUnknown {
			scores[i] = confidences[i]
		} else {
			scores[i] = 1 - confidences[i]
		}
		if yTrue[i] == model.LabelUnknown {
			positive[i] = true
			nPos++
		}
	}
	nNeg := n - nPos
	if nPos == 0 || nNeg == 0 {
		return 0.5
	}

	// Sort by score descending, ties broken by original index.
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	var tp, fp int
	var tprPrev, fprPrev, auroc float64
	for _, i := range idx {
		if positive[i] {
			tp++
		} else {
			fp++
		}
		tpr := float64(tp) / float64(nPos)
		fpr := float64(fp) / float64(nNeg)
		auroc += (fpr - fprPrev) * (tpr + tprPrev) / 2
		tprPrev, fprPrev = tpr, fpr
	}
	return auroc
}

// Point is one (coverage, risk) pair on the selective risk curve.
type Point struct {
	Coverage float64 `json:"coverage"`
	Risk     float64 `json:"risk"`
}

// RiskCoverage computes the selective risk curve at points coverage levels.
//
// Samples are ordered by confidence descending (ties by original index);
// at coverage c the top ceil(c*N) samples are kept and their error rate is
// the risk. Risk at full coverage equals the overall error rate.
func RiskCoverage(yTrue, yPred []model.Label, confidences []float64, points int) []Point {
	mustSameLength(len(yTrue), len(yPred))
	mustSameLength(len(yTrue), len(confidences))
	if points <= 0 {
		points = DefaultCoveragePoints
	}
	n := len(yTrue)
	if n == 0 {
		return nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return confidences[idx[a]] > confidences[idx[b]] })

	curve := make([]Point, 0, points)
	for k := 1; k <= points; k++ {
		coverage := float64(k) / float64(points)
		covered := int(math.Ceil(coverage * float64(n)))
		if covered > n {
			covered = n
		}
		errors := 0
		for _, i := range idx[:covered] {
			if yTrue[i] != yPred[i] {
				errors++
			}
		}
		curve = append(curve, Point{Coverage: coverage, Risk: float64(errors) / float64(covered)})
	}
	return curve
}

// AURC is the trapezoidal integral of risk over coverage. Lower indicates a
// better confidence-ordered selective predictor.
func AURC(curve []Point) float64 {
	if len(curve) < 2 {
		return 0
	}
	area := 0.0
	for i := 1; i < len(curve); i++ {
		dx := curve[i].Coverage - curve[i-1].Coverage
		area += dx * (curve[i].Risk + curve[i-1].Risk) / 2
	}
	return area
}

// RiskAt returns the risk at the curve point with the highest coverage not
// exceeding the requested level. Requests below the lowest coverage return
// the first point's risk; an empty curve returns 0. The curve must be
// sorted by ascending coverage, as RiskCoverage produces it.
func RiskAt(curve []Point, coverage float64) float64 {
	if len(curve) == 0 {
		return 0
	}
	best := 0
	for i, p := range curve {
		if p.Coverage > coverage {
			break
		}
		best = i
	}
	return curve[best].Risk
}

// Abstention summarizes model behavior at a fixed confidence threshold.
// The model "abstains" on samples with confidence below the threshold.
type Abstention struct {
	Threshold             float64             `json:"threshold"`
	AbstentionRate        float64             `json:"abstention_rate"`
	AnsweredAccuracy      float64             `json:"answered_accuracy"`
	AbstainedCount        int                 `json:"abstained_count"`
	AnsweredCount         int                 `json:"answered_count"`
	AbstainedByLabel      map[model.Label]int `json:"abstained_by_label"`
	UnknownAbstentionRate float64             `json:"unknown_abstention_rate"`
}

// Abstain partitions samples at threshold and reports the abstention rate,
// accuracy on the answered subset, and how many abstentions landed on
// true-UNKNOWN samples (the ideal abstention target).
func Abstain(yTrue, yPred []model.Label, confidences []float64, threshold float64) Abstention {
	mustSameLength(len(yTrue), len(yPred))
	mustSameLength(len(yTrue), len(confidences))

	out := Abstention{Threshold: threshold, AbstainedByLabel: make(map[model.Label]int)}
	n := len(yTrue)
	answeredCorrect := 0
	for i := range yTrue {
		if confidences[i] < threshold {
			out.AbstainedCount++
			out.AbstainedByLabel[yTrue[i]]++
		} else {
			out.AnsweredCount++
			if yTrue[i] == yPred[i] {
				answeredCorrect++
			}
		}
	}
	if n > 0 {
		out.AbstentionRate = float64(out.AbstainedCount) / float64(n)
	}
	if out.AnsweredCount > 0 {
		out.AnsweredAccuracy = float64(answeredCorrect) / float64(out.AnsweredCount)
	}
	if out.AbstainedCount > 0 {
		out.UnknownAbstentionRate = float64(out.AbstainedByLabel[model.LabelUnknown]) / float64(out.AbstainedCount)
	}
	return out
}

func mustSameLength(a, b int) {
	if a != b {
		panic(fmt.Sprintf("selective: sequence length mismatch (%d vs %d)", a, b))
	}
}
