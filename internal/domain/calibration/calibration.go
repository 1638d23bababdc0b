// Package calibration measures how well stated confidence tracks actual
// correctness, via Expected Calibration Error and the Brier score.
package calibration

import "fmt"

// DefaultBinCount partitions [0,1] into ten equal-width confidence bins.
const DefaultBinCount = 10

// Bin summarizes one non-empty confidence bin.
type Bin struct {
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	Count      int     `json:"count"`
	Accuracy   float64 `json:"accuracy"`
	Confidence float64 `json:"confidence"`
}

// ECE computes the Expected Calibration Error over equal-width confidence
// bins.
//
// Bins are half-open [i/B, (i+1)/B) except the last, which is closed on the
// right so confidence 1.0 lands in it. Empty bins are skipped. Empty input
// yields 0 by documented convention.
func ECE(correct []int, confidences []float64, bins int) float64 {
	ece, _ := ECEWithBins(correct, confidences, bins)
	return ece
}

// ECEWithBins is ECE plus the per-bin breakdown used in reports.
func ECEWithBins(correct []int, confidences []float64, bins int) (float64, []Bin) {
	mustSameLength(len(correct), len(confidences))
	if bins <= 0 {
		bins = DefaultBinCount
	}
	n := len(correct)
	if n == 0 {
		return 0, nil
	}

	out := make([]Bin, 0, bins)
	ece := 0.0
	for i := 0; i < bins; i++ {
		lo := float64(i) / float64(bins)
		hi := float64(i+1) / float64(bins)
		last := i == bins-1

		count := 0
		sumCorrect := 0
		sumConf := 0.0
		for j, c := range confidences {
			if c < lo || c > hi || (c == hi && !last) {
				continue
			}
			count++
			sumCorrect += correct[j]
			sumConf += c
		}
		if count == 0 {
			continue
		}

		acc := float64(sumCorrect) / float64(count)
		conf := sumConf / float64(count)
		ece += float64(count) / float64(n) * abs(acc-conf)
		out = append(out, Bin{Lower: lo, Upper: hi, Count: count, Accuracy: acc, Confidence: conf})
	}
	return ece, out
}

// Brier computes the mean squared difference between stated confidence and
// binary correctness. Empty input yields 0.
func Brier(correct []int, confidences []float64) float64 {
	mustSameLength(len(correct), len(confidences))
	if len(correct) == 0 {
		return 0
	}
	sum := 0.0
	for i, c := range confidences {
		d := c - float64(correct[i])
		sum += d * d
	}
	return sum / float64(len(correct))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func mustSameLength(a, b int) {
	if a != b {
		panic(fmt.Sprintf("calibration: sequence length mismatch (%d vs %d)", a, b))
	}
}
