// Package significance compares two models' per-sample correctness vectors
// with parametric and non-parametric hypothesis tests.
//
// The p-values use a normal approximation of the relevant sampling
// distribution; benchmark comparisons run over hundreds of samples, where
// the approximation is tight.
package significance

import (
	"math"
	"sort"
)

// DefaultThreshold is the p-value below which a difference is flagged.
const DefaultThreshold = 0.01

// MinGroupSize is the smallest group either test accepts. Below it the
// result is reported as undefined rather than computed.
const MinGroupSize = 2

// TestResult carries one hypothesis test's outcome. Nil fields mean the
// test was undefined for the given inputs (insufficient data) - a
// reportable state, not a failure.
type TestResult struct {
	TestType    string   `json:"test_type"`
	Statistic   *float64 `json:"statistic"`
	PValue      *float64 `json:"p_value"`
	Significant *bool    `json:"significant"`
	EffectSize  *float64 `json:"effect_size,omitempty"`
}

// Comparison bundles both tests over a pair of correctness vectors.
type Comparison struct {
	ModelA      string     `json:"model_a"`
	ModelB      string     `json:"model_b"`
	Metric      string     `json:"metric"`
	NSamplesA   int        `json:"n_samples_a"`
	NSamplesB   int        `json:"n_samples_b"`
	TTest       TestResult `json:"t_test"`
	MannWhitney TestResult `json:"mann_whitney"`
}

// Compare runs the mean-difference t-test and the Mann-Whitney rank test on
// two correctness vectors at the given significance threshold.
func Compare(modelA, modelB string, correctA, correctB []int, threshold float64) Comparison {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	a := toFloats(correctA)
	b := toFloats(correctB)

	cmp := Comparison{
		ModelA:    modelA,
		ModelB:    modelB,
		Metric:    "accuracy",
		NSamplesA: len(a),
		NSamplesB: len(b),
	}
	cmp.TTest = TTest(a, b, threshold)
	cmp.MannWhitney = MannWhitneyU(a, b, threshold)
	return cmp
}

// TTest performs a two-sample Student's t-test with pooled variance.
//
// The effect size is the difference in means divided by the pooled standard
// deviation, 0 when the pooled deviation is 0. Groups smaller than
// MinGroupSize yield nil fields.
func TTest(a, b []float64, threshold float64) TestResult {
	res := TestResult{TestType: "t-test"}
	if len(a) < MinGroupSize || len(b) < MinGroupSize {
		return res
	}

	n1, n2 := float64(len(a)), float64(len(b))
	m1, m2 := mean(a), mean(b)
	v1, v2 := sampleVariance(a, m1), sampleVariance(b, m2)

	pooledVar := ((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2)
	pooledStd := math.Sqrt(pooledVar)

	effect := 0.0
	if pooledStd > 0 {
		effect = (m1 - m2) / pooledStd
	}
	res.EffectSize = ptr(effect)

	se := pooledStd * math.Sqrt(1/n1+1/n2)
	if se == 0 {
		// Identical constant vectors: no detectable difference.
		res.Statistic = ptr(0.0)
		res.PValue = ptr(1.0)
		res.Significant = ptrBool(false)
		return res
	}

	t := (m1 - m2) / se
	df := n1 + n2 - 2

	// Normal approximation of the t distribution; widen the tail for small df.
	var p float64
	if df >= 30 {
		p = 2 * normalCDF(-math.Abs(t))
	} else {
		p = 2 * normalCDF(-math.Abs(t)*math.Sqrt(df/(df+2)))
	}

	res.Statistic = ptr(t)
	res.PValue = ptr(p)
	res.Significant = ptrBool(p < threshold)
	return res
}

// MannWhitneyU performs the two-sided Mann-Whitney rank-sum test using the
// normal approximation with tie correction and continuity correction.
func MannWhitneyU(a, b []float64, threshold float64) TestResult {
	res := TestResult{TestType: "mann-whitney"}
	if len(a) < MinGroupSize || len(b) < MinGroupSize {
		return res
	}

	n1, n2 := float64(len(a)), float64(len(b))
	ranks, tieTerm := rankCombined(a, b)

	r1 := 0.0
	for i := range a {
		r1 += ranks[i]
	}
	u1 := r1 - n1*(n1+1)/2

	mu := n1 * n2 / 2
	n := n1 + n2
	sigma2 := n1 * n2 / 12 * ((n + 1) - tieTerm/(n*(n-1)))
	if sigma2 <= 0 {
		// All observations tied: the rank test carries no information.
		res.Statistic = ptr(u1)
		res.PValue = ptr(1.0)
		res.Significant = ptrBool(false)
		return res
	}

	// Continuity correction toward the mean.
	z := (u1 - mu)
	switch {
	case z > 0:
		z -= 0.5
	case z < 0:
		z += 0.5
	}
	z /= math.Sqrt(sigma2)

	p := 2 * normalCDF(-math.Abs(z))
	if p > 1 {
		p = 1
	}

	res.Statistic = ptr(u1)
	res.PValue = ptr(p)
	res.Significant = ptrBool(p < threshold)
	return res
}

// rankCombined assigns average ranks over the concatenation of a and b and
// returns the tie correction term sum(t^3 - t).
func rankCombined(a, b []float64) ([]float64, float64) {
	n := len(a) + len(b)
	values := make([]float64, 0, n)
	values = append(values, a...)
	values = append(values, b...)

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(x, y int) bool { return values[idx[x]] < values[idx[y]] })

	ranks := make([]float64, n)
	tieTerm := 0.0
	for i := 0; i < n; {
		j := i
		for j < n && values[idx[j]] == values[idx[i]] {
			j++
		}
		// Average rank for the tie group spanning positions i..j-1.
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		t := float64(j - i)
		tieTerm += t*t*t - t
		i = j
	}
	return ranks, tieTerm
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func sampleVariance(xs []float64, m float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs)-1)
}

func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

func toFloats(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

func ptr(v float64) *float64 { return &v }
func ptrBool(v bool) *bool   { return &v }
