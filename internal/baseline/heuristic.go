package baseline

import (
	"context"
	"regexp"
	"strings"

	"github.com/onto-project/ontobench/internal/domain/model"
)

// Question patterns for rule-based epistemic detection. Contradiction
// patterns are checked before unknown patterns; the specific signal wins.
var (
	unknownPatterns = compilePatterns([]string{
		// Direct unknown signals
		`what is the (exact |complete |true )?mechanism of`,
		`what causes`,
		`why is there`,
		`why do(es)?`,
		`how did .* (originate|arise|begin|start)`,
		`what determines`,
		`is there a (theory|explanation|solution)`,
		`what is the (nature|origin|source) of`,
		`can we (prove|explain|understand)`,
		`does .* exist`,

		// Open problem markers
		`is p equal to np`,
		`is p ?= ?np`,
		`p vs np`,
		`riemann hypothesis`,
		`millennium problem`,
		`unsolved`,
		`open (problem|question)`,
		`unknown`,
		`no consensus`,
		`actively researched`,
		`remains unclear`,
		`not yet (known|understood|solved)`,

		// Specific open problems
		`dark (matter|energy)`,
		`consciousness`,
		`abiogenesis`,
		`quantum gravity`,
		`theory of everything`,
		`arrow of time`,
		`fine.?tun(ed|ing)`,
		`hierarchy problem`,
		`black hole information`,
		`cosmological constant`,
		`matter.?antimatter`,
		`baryon asymmetry`,
		`collatz`,
		`twin prime`,
		`goldbach`,
		`abc conjecture`,
		`navier.?stokes`,
		`yang.?mills`,
		`hodge conjecture`,
		`birch.*(swinnerton|dyer)`,
		`how does (the )?brain`,
		`neural basis`,
		`alzheimer`,
		`protein folding`,
		`eukaryotic (cell )?origin`,
	})

	contradictionPatterns = compilePatterns([]string{
		`is .* (deterministic|probabilistic)`,
		`(invented|discovered)`,
		`interpretation of quantum`,
		`copenhagen vs`,
		`many.?worlds`,
		`string theory vs`,
		`is .* alive`,
		`continuum hypothesis`,
		`moral (realism|truth)`,
		`abstract objects`,
		`free will`,
		`personal identity`,
		`gradualism vs`,
		`punctuated equilibrium`,
	})

	knownHighConfidencePatterns = compilePatterns([]string{
		`speed of light`,
		`planck.?s constant`,
		`boltzmann constant`,
		`avogadro`,
		`gravitational constant`,
		`electron mass`,
		`fine structure constant`,
		`formula for`,
		`equation for`,
		`theorem`,
		`what is the derivative`,
		`what is the integral`,
		`what is (a |the )?(definition|meaning) of`,
		`what is big o`,
		`what is turing`,
		`what is entropy`,
		`what is (the )?dna`,
		`what is atp`,
		`what is ph`,
	})
)

func compilePatterns(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// HeuristicModel labels questions with pattern rules, no API required.
// Known answers are capped at 0.9 confidence.
type HeuristicModel struct {
	name string
}

// NewHeuristicModel creates the rule-based baseline.
func NewHeuristicModel() *HeuristicModel {
	return &HeuristicModel{name: "heuristic-oracle"}
}

// Name implements Model.
func (m *HeuristicModel) Name() string { return m.name }

// Version implements Model.
func (m *HeuristicModel) Version() string { return "heuristic-1.0" }

// Provider implements Model.
func (m *HeuristicModel) Provider() string { return "heuristic" }

// Predict implements Model.
func (m *HeuristicModel) Predict(_ context.Context, question string) (Outcome, error) {
	q := strings.ToLower(question)

	for _, p := range contradictionPatterns {
		if p.MatchString(q) {
			return Outcome{Label: model.LabelContradiction, Confidence: 0.54, Raw: question, Mode: ModeHeuristic}, nil
		}
	}
	for _, p := range unknownPatterns {
		if p.MatchString(q) {
			return Outcome{Label: model.LabelUnknown, Confidence: 0.7, Raw: question, Mode: ModeHeuristic}, nil
		}
	}
	for _, p := range knownHighConfidencePatterns {
		if p.MatchString(q) {
			return Outcome{Label: model.LabelKnown, Confidence: 0.9, Raw: question, Mode: ModeHeuristic}, nil
		}
	}
	return Outcome{Label: model.LabelKnown, Confidence: 0.75, Raw: question, Mode: ModeHeuristic}, nil
}
