package policies

import (
	"fmt"

	"github.com/zeu5/bandits/core"
	"github.com/zeu5/bandits/util"
	"gonum.org/v1/gonum/floats"
)

const noAction = -1

// initialValues expands initQ into one estimate per arm.
// An empty initQ starts every estimate at zero, a single entry is broadcast.
func initialValues(arms int, initQ []float64) ([]float64, error) {
	switch len(initQ) {
	case 0:
		return make([]float64, arms), nil
	case 1:
		return util.Fill(arms, initQ[0]), nil
	case arms:
		return util.CopyFloatSlice(initQ), nil
	}
	return nil, fmt.Errorf("%w: initQ must be a scalar or have %d entries, got %d", core.ErrInvalidConfiguration, arms, len(initQ))
}

// argmax returns the index of the largest value, the lowest index among ties
func argmax(values []float64) int {
	return floats.MaxIdx(values)
}

// incrementalMean moves the estimate towards reward by 1/count
func incrementalMean(estimate, reward float64, count int) float64 {
	return estimate + (reward-estimate)/float64(count)
}

// State is the serializable learning state of a value estimating policy
type State struct {
	Values     []float64 `json:"values"`
	Counts     []int     `json:"counts"`
	LastAction int       `json:"last_action"`
	Timestep   int       `json:"timestep,omitempty"`
}

func (s *State) copy() *State {
	return &State{
		Values:     util.CopyFloatSlice(s.Values),
		Counts:     util.CopyIntSlice(s.Counts),
		LastAction: s.LastAction,
		Timestep:   s.Timestep,
	}
}

func (s *State) validate(arms int) error {
	if len(s.Values) != arms || len(s.Counts) != arms {
		return fmt.Errorf("%w: state has %d values and %d counts for %d arms", core.ErrInvalidConfiguration, len(s.Values), len(s.Counts), arms)
	}
	if s.LastAction < noAction || s.LastAction >= arms {
		return fmt.Errorf("%w: state last action %d", core.ErrInvalidArmIndex, s.LastAction)
	}
	for a, c := range s.Counts {
		if c < 0 {
			return fmt.Errorf("%w: negative count %d for arm %d", core.ErrInvalidConfiguration, c, a)
		}
	}
	return nil
}

// Record saves the state as json to path
func (s *State) Record(path string) error {
	return util.SaveJson(path, s)
}

// ReadState reads a state saved with Record
func ReadState(path string) (*State, error) {
	s := &State{}
	if err := util.ReadJson(path, s); err != nil {
		return nil, fmt.Errorf("error reading state: %w", err)
	}
	return s, nil
}
