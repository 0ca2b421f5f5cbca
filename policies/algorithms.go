package policies

import (
	"fmt"
	"strings"

	"github.com/zeu5/bandits/core"
)

const (
	RandomLabel        = "random"
	PerfectLabel       = "perfect"
	EpsilonGreedyLabel = "e_greedy"
	UCBLabel           = "UCB"
)

// Algorithm is a labelled, fully resolved policy configuration
type Algorithm struct {
	Label  string
	Policy core.PolicyConstructor
}

// Experiment turns the algorithm into an experiment of a comparison
func (a Algorithm) Experiment() *core.Experiment {
	return &core.Experiment{
		Name:   a.Label,
		Policy: a.Policy,
	}
}

// ResolveAlgorithms maps algorithm labels to policy constructors once, before anything runs.
//
// "random" and "perfect" map to their policies. A label containing "e_greedy" takes the
// next unused entry of epsilons and a label containing "UCB" the next unused entry of cs,
// in label order, so several variants of the same family can run side by side.
// initQ is shared by all value estimating policies.
func ResolveAlgorithms(labels []string, epsilons, cs, initQ []float64) ([]Algorithm, error) {
	out := make([]Algorithm, 0, len(labels))
	seen := make(map[string]bool)
	nextEpsilon, nextC := 0, 0
	for _, label := range labels {
		if seen[label] {
			return nil, fmt.Errorf("%w: duplicate algorithm label %q", core.ErrInvalidConfiguration, label)
		}
		seen[label] = true

		var policy core.PolicyConstructor
		switch {
		case label == RandomLabel:
			policy = &RandomPolicyConstructor{}
		case label == PerfectLabel:
			policy = &PerfectPolicyConstructor{}
		case strings.Contains(label, EpsilonGreedyLabel):
			if nextEpsilon >= len(epsilons) {
				return nil, fmt.Errorf("%w: no epsilon left for %q, %d given", core.ErrInvalidConfiguration, label, len(epsilons))
			}
			policy = NewEpsilonGreedyPolicyConstructor(epsilons[nextEpsilon], initQ)
			nextEpsilon++
		case strings.Contains(label, UCBLabel):
			if nextC >= len(cs) {
				return nil, fmt.Errorf("%w: no c left for %q, %d given", core.ErrInvalidConfiguration, label, len(cs))
			}
			policy = NewUCBPolicyConstructor(cs[nextC], initQ)
			nextC++
		default:
			return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedAlgorithm, label)
		}
		out = append(out, Algorithm{Label: label, Policy: policy})
	}
	return out, nil
}
