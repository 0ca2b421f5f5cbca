package policies

import (
	"fmt"

	"github.com/zeu5/bandits/core"
	"github.com/zeu5/bandits/util"
	erand "golang.org/x/exp/rand"
)

// EpsilonGreedyPolicy explores a uniformly random arm with probability epsilon
// and otherwise exploits the arm with the highest sample average.
type EpsilonGreedyPolicy struct {
	values     []float64
	counts     []int
	lastAction int
	epsilon    float64

	rand *erand.Rand
}

var _ core.Policy = &EpsilonGreedyPolicy{}

func validateEpsilon(epsilon float64) error {
	if !(epsilon >= 0 && epsilon <= 1) {
		return fmt.Errorf("%w: epsilon must be in [0, 1], got %v", core.ErrInvalidConfiguration, epsilon)
	}
	return nil
}

func NewEpsilonGreedyPolicy(arms int, epsilon float64, initQ []float64, rand *erand.Rand) (*EpsilonGreedyPolicy, error) {
	if arms < 1 {
		return nil, fmt.Errorf("%w: policy needs at least one arm", core.ErrInvalidConfiguration)
	}
	if err := validateEpsilon(epsilon); err != nil {
		return nil, err
	}
	if epsilon > 0 && rand == nil {
		return nil, fmt.Errorf("%w: exploring policy needs a random source", core.ErrInvalidConfiguration)
	}
	values, err := initialValues(arms, initQ)
	if err != nil {
		return nil, err
	}
	return &EpsilonGreedyPolicy{
		values:     values,
		counts:     make([]int, arms),
		lastAction: noAction,
		epsilon:    epsilon,
		rand:       rand,
	}, nil
}

// Decide does not touch the estimates or the counts.
// With epsilon 0 the random source is never consulted.
func (e *EpsilonGreedyPolicy) Decide() (int, error) {
	if e.epsilon > 0 && e.rand.Float64() < e.epsilon {
		e.lastAction = e.rand.Intn(len(e.values))
		return e.lastAction, nil
	}
	e.lastAction = argmax(e.values)
	return e.lastAction, nil
}

func (e *EpsilonGreedyPolicy) Observe(reward float64) error {
	if e.lastAction == noAction {
		return core.ErrNoAction
	}
	e.counts[e.lastAction]++
	e.values[e.lastAction] = incrementalMean(e.values[e.lastAction], reward, e.counts[e.lastAction])
	return nil
}

func (e *EpsilonGreedyPolicy) Values() []float64 {
	return util.CopyFloatSlice(e.values)
}

func (e *EpsilonGreedyPolicy) Counts() []int {
	return util.CopyIntSlice(e.counts)
}

func (e *EpsilonGreedyPolicy) LastAction() int {
	return e.lastAction
}

func (e *EpsilonGreedyPolicy) Snapshot() *State {
	return (&State{
		Values:     e.values,
		Counts:     e.counts,
		LastAction: e.lastAction,
	}).copy()
}

func (e *EpsilonGreedyPolicy) Restore(s *State) error {
	if err := s.validate(len(e.values)); err != nil {
		return err
	}
	s = s.copy()
	e.values = s.Values
	e.counts = s.Counts
	e.lastAction = s.LastAction
	return nil
}

type EpsilonGreedyPolicyConstructor struct {
	Epsilon float64
	InitQ   []float64
}

var _ core.PolicyConstructor = &EpsilonGreedyPolicyConstructor{}

func NewEpsilonGreedyPolicyConstructor(epsilon float64, initQ []float64) *EpsilonGreedyPolicyConstructor {
	return &EpsilonGreedyPolicyConstructor{
		Epsilon: epsilon,
		InitQ:   initQ,
	}
}

func (e *EpsilonGreedyPolicyConstructor) Validate(arms int) error {
	if err := validateEpsilon(e.Epsilon); err != nil {
		return err
	}
	_, err := initialValues(arms, e.InitQ)
	return err
}

func (e *EpsilonGreedyPolicyConstructor) NewPolicy(env core.Environment, rand *erand.Rand) (core.Policy, error) {
	return NewEpsilonGreedyPolicy(env.Arms(), e.Epsilon, e.InitQ, rand)
}
