// Package eval composes the metric computations into per-model evaluation
// reports. It is a pure function from ground truth plus predictions to a
// Metrics record; it never calls a model and never persists anything.
package eval

import (
	"math"
	"sort"

	"github.com/onto-project/ontobench/internal/domain/calibration"
	"github.com/onto-project/ontobench/internal/domain/classify"
	"github.com/onto-project/ontobench/internal/domain/model"
	"github.com/onto-project/ontobench/internal/domain/selective"
	"github.com/onto-project/ontobench/internal/domain/significance"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithBinCount sets the number of calibration bins.
func WithBinCount(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.binCount = n
		}
	}
}

// WithCoveragePoints sets the number of levels on the risk/coverage curve.
func WithCoveragePoints(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.coveragePoints = n
		}
	}
}

// WithAbstentionThresholds sets the confidence thresholds analyzed in the
// extended report.
func WithAbstentionThresholds(ts []float64) Option {
	return func(e *Engine) {
		if len(ts) > 0 {
			e.abstentionThresholds = append([]float64(nil), ts...)
		}
	}
}

// WithSignificanceThreshold sets the p-value cutoff for model comparisons.
func WithSignificanceThreshold(p float64) Option {
	return func(e *Engine) {
		if p > 0 && p < 1 {
			e.sigThreshold = p
		}
	}
}

// Engine evaluates prediction sets against ground truth. It holds only
// configuration; all methods are safe for concurrent use.
type Engine struct {
	binCount             int
	coveragePoints       int
	abstentionThresholds []float64
	sigThreshold         float64
}

// New creates an Engine with the benchmark's default configuration.
func New(opts ...Option) *Engine {
	e := &Engine{
		binCount:             calibration.DefaultBinCount,
		coveragePoints:       selective.DefaultCoveragePoints,
		abstentionThresholds: []float64{0.5, 0.7},
		sigThreshold:         significance.DefaultThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Aligned holds prediction data joined against ground truth, in prediction
// order. Predictions without a ground-truth entry are excluded from every
// metric; the count is kept for auditability.
type Aligned struct {
	SampleIDs   []string
	YTrue       []model.Label
	YPred       []model.Label
	Correct     []int
	Confidences []float64
	Latencies   []float64
	Excluded    int
}

// Align joins predictions with the ground-truth mapping. Unmatched
// predictions are silently dropped (not an error) and counted.
func Align(gt model.GroundTruth, preds []model.Prediction) Aligned {
	a := Aligned{}
	for _, p := range preds {
		truth, ok := gt[p.SampleID]
		if !ok {
			a.Excluded++
			continue
		}
		a.SampleIDs = append(a.SampleIDs, p.SampleID)
		a.YTrue = append(a.YTrue, truth)
		a.YPred = append(a.YPred, p.PredictedLabel)
		if truth == p.PredictedLabel {
			a.Correct = append(a.Correct, 1)
		} else {
			a.Correct = append(a.Correct, 0)
		}
		a.Confidences = append(a.Confidences, p.Confidence)
		a.Latencies = append(a.Latencies, p.LatencyMS)
	}
	return a
}

// Metrics computes the per-model Metrics record. Degenerate input (no
// ground truth, no overlapping predictions) yields zeroed metrics with
// NSamples 0, never a NaN and never an error.
func (e *Engine) Metrics(modelName string, gt model.GroundTruth, preds []model.Prediction) model.Metrics {
	a := Align(gt, preds)
	m := model.Metrics{Model: modelName, NSamples: len(a.YTrue), Excluded: a.Excluded}
	if len(a.YTrue) == 0 {
		return m
	}

	u := classify.ForLabel(a.YTrue, a.YPred, model.LabelUnknown)
	c := classify.ForLabel(a.YTrue, a.YPred, model.LabelContradiction)

	m.UPrecision = round4(u.Precision)
	m.URecall = round4(u.Recall)
	m.UF1 = round4(u.F1)
	m.CPrecision = round4(c.Precision)
	m.CRecall = round4(c.Recall)
	m.CF1 = round4(c.F1)
	m.Accuracy = round4(classify.Accuracy(a.YTrue, a.YPred))
	// Macro F1 over the two detection tasks, matching the published numbers.
	m.MacroF1 = round4((u.F1 + c.F1) / 2)
	m.ECE = round4(calibration.ECE(a.Correct, a.Confidences, e.binCount))
	m.BrierScore = round4(calibration.Brier(a.Correct, a.Confidences))

	sum := 0.0
	for _, l := range a.Latencies {
		sum += l
	}
	m.AvgLatencyMS = round2(sum / float64(len(a.Latencies)))
	return m
}

// Report is the extended evaluation artifact: calibration breakdown plus
// the selective prediction analysis.
type Report struct {
	Metrics         model.Metrics          `json:"metrics"`
	AUROCUnknown    float64                `json:"auroc_unknown"`
	RiskAt80        float64                `json:"risk_at_80_coverage"`
	AURC            float64                `json:"aurc"`
	SelectiveCurve  []selective.Point      `json:"selective_curve"`
	CalibrationBins []calibration.Bin      `json:"calibration_bins"`
	Abstention      []selective.Abstention `json:"abstention_analysis"`
}

// Report computes the Metrics record plus the extended artifacts.
func (e *Engine) Report(modelName string, gt model.GroundTruth, preds []model.Prediction) Report {
	a := Align(gt, preds)
	rep := Report{Metrics: e.Metrics(modelName, gt, preds)}
	if len(a.YTrue) == 0 {
		return rep
	}

	rep.AUROCUnknown = round4(selective.AUROCUnknown(a.YTrue, a.YPred, a.Confidences))
	curve := selective.RiskCoverage(a.YTrue, a.YPred, a.Confidences, e.coveragePoints)
	for i := range curve {
		curve[i].Risk = round4(curve[i].Risk)
	}
	rep.SelectiveCurve = curve
	rep.AURC = round4(selective.AURC(curve))
	rep.RiskAt80 = round4(selective.RiskAt(curve, 0.8))

	_, bins := calibration.ECEWithBins(a.Correct, a.Confidences, e.binCount)
	for i := range bins {
		bins[i].Accuracy = round4(bins[i].Accuracy)
		bins[i].Confidence = round4(bins[i].Confidence)
	}
	rep.CalibrationBins = bins

	for _, t := range e.abstentionThresholds {
		ab := selective.Abstain(a.YTrue, a.YPred, a.Confidences, t)
		ab.AbstentionRate = round4(ab.AbstentionRate)
		ab.AnsweredAccuracy = round4(ab.AnsweredAccuracy)
		ab.UnknownAbstentionRate = round4(ab.UnknownAbstentionRate)
		rep.Abstention = append(rep.Abstention, ab)
	}
	return rep
}

// Compare runs the significance tests between two models, restricted to
// the samples both were evaluated on. Common ids are walked in sorted
// order so the result is deterministic regardless of prediction order.
func (e *Engine) Compare(modelA, modelB string, gt model.GroundTruth, predsA, predsB []model.Prediction) significance.Comparison {
	byID := func(preds []model.Prediction) map[string]model.Prediction {
		m := make(map[string]model.Prediction, len(preds))
		for _, p := range preds {
			m[p.SampleID] = p
		}
		return m
	}
	mapA, mapB := byID(predsA), byID(predsB)

	common := make([]string, 0, len(mapA))
	for id := range mapA {
		if _, ok := mapB[id]; !ok {
			continue
		}
		if _, ok := gt[id]; !ok {
			continue
		}
		common = append(common, id)
	}
	sort.Strings(common)

	correctA := make([]int, 0, len(common))
	correctB := make([]int, 0, len(common))
	for _, id := range common {
		truth := gt[id]
		correctA = append(correctA, boolToInt(mapA[id].PredictedLabel == truth))
		correctB = append(correctB, boolToInt(mapB[id].PredictedLabel == truth))
	}
	return significance.Compare(modelA, modelB, correctA, correctB, e.sigThreshold)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// round4 is the reporting precision for all ratio metrics.
func round4(x float64) float64 { return math.Round(x*10000) / 10000 }

// round2 is the reporting precision for latencies.
func round2(x float64) float64 { return math.Round(x*100) / 100 }
