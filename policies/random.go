package policies

import (
	"fmt"

	"github.com/zeu5/bandits/core"
	erand "golang.org/x/exp/rand"
)

// RandomPolicy pulls an arm uniformly at random at every step
type RandomPolicy struct {
	arms    int
	decided bool
	rand    *erand.Rand
}

var _ core.Policy = &RandomPolicy{}

func NewRandomPolicy(arms int, rand *erand.Rand) (*RandomPolicy, error) {
	if arms < 1 {
		return nil, fmt.Errorf("%w: policy needs at least one arm", core.ErrInvalidConfiguration)
	}
	if rand == nil {
		return nil, fmt.Errorf("%w: random policy needs a random source", core.ErrInvalidConfiguration)
	}
	return &RandomPolicy{
		arms: arms,
		rand: rand,
	}, nil
}

func (r *RandomPolicy) Decide() (int, error) {
	r.decided = true
	return r.rand.Intn(r.arms), nil
}

func (r *RandomPolicy) Observe(_ float64) error {
	if !r.decided {
		return core.ErrNoAction
	}
	return nil
}

type RandomPolicyConstructor struct{}

var _ core.PolicyConstructor = &RandomPolicyConstructor{}

func (r *RandomPolicyConstructor) Validate(_ int) error {
	return nil
}

func (r *RandomPolicyConstructor) NewPolicy(env core.Environment, rand *erand.Rand) (core.Policy, error) {
	return NewRandomPolicy(env.Arms(), rand)
}
