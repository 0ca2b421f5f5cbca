package policies

import (
	"github.com/zeu5/bandits/core"
	erand "golang.org/x/exp/rand"
)

// PerfectPolicy always pulls the optimal arm of the environment.
// It is the upper reference line of a comparison.
type PerfectPolicy struct {
	arm     int
	decided bool
}

var _ core.Policy = &PerfectPolicy{}

func NewPerfectPolicy(env core.Environment) *PerfectPolicy {
	return &PerfectPolicy{arm: env.OptimalArm()}
}

func (p *PerfectPolicy) Decide() (int, error) {
	p.decided = true
	return p.arm, nil
}

func (p *PerfectPolicy) Observe(_ float64) error {
	if !p.decided {
		return core.ErrNoAction
	}
	return nil
}

type PerfectPolicyConstructor struct{}

var _ core.PolicyConstructor = &PerfectPolicyConstructor{}

func (p *PerfectPolicyConstructor) Validate(_ int) error {
	return nil
}

func (p *PerfectPolicyConstructor) NewPolicy(env core.Environment, _ *erand.Rand) (core.Policy, error) {
	return NewPerfectPolicy(env), nil
}
