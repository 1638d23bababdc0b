// Package agreement measures inter-rater agreement between two independent
// label assignments over the same samples.
package agreement

import (
	"fmt"
	"math/rand"

	"github.com/onto-project/ontobench/internal/domain/model"
)

// Kappa computes Cohen's κ between two equal-length label sequences.
//
// κ = (p_o - p_e) / (1 - p_e). When both raters are unanimous on a single
// label p_e is 1; the result is then 1.0 for perfect observed agreement and
// 0.0 otherwise, which avoids division by zero while preserving the
// intuitive value. Kappa is exactly symmetric in its two arguments.
func Kappa(a, b []model.Label) float64 {
	mustSameLength(len(a), len(b))
	n := len(a)
	if n == 0 {
		return 0
	}

	agree := 0
	freqA := make(map[model.Label]int)
	freqB := make(map[model.Label]int)
	for i := range a {
		if a[i] == b[i] {
			agree++
		}
		freqA[a[i]]++
		freqB[b[i]]++
	}
	po := float64(agree) / float64(n)

	pe := 0.0
	for _, l := range model.Labels() {
		pe += float64(freqA[l]) / float64(n) * float64(freqB[l]) / float64(n)
	}

	if pe == 1 {
		if po == 1 {
			return 1
		}
		return 0
	}
	return (po - pe) / (1 - pe)
}

// Report is the full agreement summary between a primary and a secondary
// rater, broken down by the ground-truth label where one is supplied.
type Report struct {
	Kappa             float64                             `json:"cohens_kappa"`
	AgreementRate     float64                             `json:"agreement_rate"`
	DisagreementCount int                                 `json:"disagreement_count"`
	NSamples          int                                 `json:"n_samples"`
	ByTrueLabel       map[model.Label]float64             `json:"agreement_by_label,omitempty"`
	Confusion         map[model.Label]map[model.Label]int `json:"confusion"`
}

// Compute builds the agreement report for two raters. The truth sequence
// drives the per-label breakdown; pass nil when no ground truth applies
// and the breakdown is omitted.
func Compute(primary, secondary, truth []model.Label) Report {
	mustSameLength(len(primary), len(secondary))
	if truth != nil {
		mustSameLength(len(primary), len(truth))
	}

	rep := Report{
		Kappa:     Kappa(primary, secondary),
		NSamples:  len(primary),
		Confusion: make(map[model.Label]map[model.Label]int),
	}

	agree := 0
	for i := range primary {
		if rep.Confusion[primary[i]] == nil {
			rep.Confusion[primary[i]] = make(map[model.Label]int)
		}
		rep.Confusion[primary[i]][secondary[i]]++
		if primary[i] == secondary[i] {
			agree++
		} else {
			rep.DisagreementCount++
		}
	}
	if len(primary) > 0 {
		rep.AgreementRate = float64(agree) / float64(len(primary))
	}

	if truth != nil {
		agreeByLabel := make(map[model.Label]int)
		totalByLabel := make(map[model.Label]int)
		for i := range truth {
			totalByLabel[truth[i]]++
			if primary[i] == secondary[i] {
				agreeByLabel[truth[i]]++
			}
		}
		rep.ByTrueLabel = make(map[model.Label]float64, len(totalByLabel))
		for l, total := range totalByLabel {
			rep.ByTrueLabel[l] = float64(agreeByLabel[l]) / float64(total)
		}
	}
	return rep
}

// StratifiedSample selects up to n samples, proportionally per label, using
// the supplied random source. The rng is passed explicitly so validation
// subsample selection is independently reproducible; there is no implicit
// process-wide seed.
func StratifiedSample(samples []model.Sample, n int, rng *rand.Rand) []model.Sample {
	if n <= 0 || len(samples) == 0 {
		return nil
	}
	if n >= len(samples) {
		out := make([]model.Sample, len(samples))
		copy(out, samples)
		return out
	}

	groups := make(map[model.Label][]model.Sample)
	for _, s := range samples {
		groups[s.Label] = append(groups[s.Label], s)
	}

	selected := make([]model.Sample, 0, n)
	for _, l := range model.Labels() {
		group := groups[l]
		if len(group) == 0 {
			continue
		}
		k := n * len(group) / len(samples)
		if k < 1 {
			k = 1
		}
		if k > len(group) {
			k = len(group)
		}
		perm := rng.Perm(len(group))
		for _, i := range perm[:k] {
			selected = append(selected, group[i])
		}
	}

	// Proportional rounding can overshoot; trim at random to the exact size.
	if len(selected) > n {
		perm := rng.Perm(len(selected))
		trimmed := make([]model.Sample, n)
		for i := 0; i < n; i++ {
			trimmed[i] = selected[perm[i]]
		}
		selected = trimmed
	}
	return selected
}

func mustSameLength(a, b int) {
	if a != b {
		panic(fmt.Sprintf("agreement: sequence length mismatch (%d vs %d)", a, b))
	}
}
