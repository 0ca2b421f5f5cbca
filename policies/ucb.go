package policies

import (
	"fmt"
	"math"

	"github.com/zeu5/bandits/core"
	"github.com/zeu5/bandits/util"
	erand "golang.org/x/exp/rand"
)

// UCBPolicy picks the arm maximizing Q(a) + c * sqrt(ln(t) / N(a)).
// Untried arms are pulled first, lowest index first.
//
// N(a) is incremented when the arm is decided, not when its reward is observed,
// so Observe averages with the count that already includes the pull.
type UCBPolicy struct {
	values     []float64
	counts     []int
	lastAction int
	timestep   int
	c          float64
}

var _ core.Policy = &UCBPolicy{}

func validateC(c float64) error {
	if !(c >= 0) || math.IsInf(c, 1) {
		return fmt.Errorf("%w: c must be a non negative number, got %v", core.ErrInvalidConfiguration, c)
	}
	return nil
}

func NewUCBPolicy(arms int, c float64, initQ []float64) (*UCBPolicy, error) {
	if arms < 1 {
		return nil, fmt.Errorf("%w: policy needs at least one arm", core.ErrInvalidConfiguration)
	}
	if err := validateC(c); err != nil {
		return nil, err
	}
	values, err := initialValues(arms, initQ)
	if err != nil {
		return nil, err
	}
	return &UCBPolicy{
		values:     values,
		counts:     make([]int, arms),
		lastAction: noAction,
		timestep:   1,
		c:          c,
	}, nil
}

func (u *UCBPolicy) Decide() (int, error) {
	action := u.untried()
	if action == noAction {
		action = argmax(u.bounds())
	}
	u.counts[action]++
	u.timestep++
	u.lastAction = action
	return action, nil
}

func (u *UCBPolicy) untried() int {
	for a, c := range u.counts {
		if c == 0 {
			return a
		}
	}
	return noAction
}

// bounds are only defined once every arm has been tried
func (u *UCBPolicy) bounds() []float64 {
	logT := math.Log(float64(u.timestep))
	out := make([]float64, len(u.values))
	for a := range u.values {
		out[a] = u.values[a] + u.c*math.Sqrt(logT/float64(u.counts[a]))
	}
	return out
}

func (u *UCBPolicy) Observe(reward float64) error {
	if u.lastAction == noAction {
		return core.ErrNoAction
	}
	u.values[u.lastAction] = incrementalMean(u.values[u.lastAction], reward, u.counts[u.lastAction])
	return nil
}

func (u *UCBPolicy) Values() []float64 {
	return util.CopyFloatSlice(u.values)
}

func (u *UCBPolicy) Counts() []int {
	return util.CopyIntSlice(u.counts)
}

func (u *UCBPolicy) LastAction() int {
	return u.lastAction
}

func (u *UCBPolicy) Timestep() int {
	return u.timestep
}

func (u *UCBPolicy) Snapshot() *State {
	return (&State{
		Values:     u.values,
		Counts:     u.counts,
		LastAction: u.lastAction,
		Timestep:   u.timestep,
	}).copy()
}

func (u *UCBPolicy) Restore(s *State) error {
	if err := s.validate(len(u.values)); err != nil {
		return err
	}
	if s.Timestep < 1 {
		return fmt.Errorf("%w: timestep must be at least 1, got %d", core.ErrInvalidConfiguration, s.Timestep)
	}
	s = s.copy()
	u.values = s.Values
	u.counts = s.Counts
	u.lastAction = s.LastAction
	u.timestep = s.Timestep
	return nil
}

type UCBPolicyConstructor struct {
	C     float64
	InitQ []float64
}

var _ core.PolicyConstructor = &UCBPolicyConstructor{}

func NewUCBPolicyConstructor(c float64, initQ []float64) *UCBPolicyConstructor {
	return &UCBPolicyConstructor{
		C:     c,
		InitQ: initQ,
	}
}

func (u *UCBPolicyConstructor) Validate(arms int) error {
	if err := validateC(u.C); err != nil {
		return err
	}
	_, err := initialValues(arms, u.InitQ)
	return err
}

func (u *UCBPolicyConstructor) NewPolicy(env core.Environment, _ *erand.Rand) (core.Policy, error) {
	return NewUCBPolicy(env.Arms(), u.C, u.InitQ)
}
