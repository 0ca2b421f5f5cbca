package core

import "gonum.org/v1/gonum/floats"

// Result holds the logs of every run of one experiment
type Result struct {
	Runs  int
	Steps int

	// Rewards[run][step]
	Rewards [][]float64
	// Actions[run][step]
	Actions [][]int
	// OptimalCounts[step] is the number of runs that pulled the optimal arm at that step
	OptimalCounts []int
}

func newResult(runs, steps int) *Result {
	return &Result{
		Runs:          runs,
		Steps:         steps,
		Rewards:       make([][]float64, runs),
		Actions:       make([][]int, runs),
		OptimalCounts: make([]int, steps),
	}
}

func (r *Result) record(run int, trace *Trace) {
	r.Rewards[run] = trace.Rewards()
	r.Actions[run] = trace.Actions()
	for i := 0; i < trace.Len(); i++ {
		if trace.Step(i).Optimal {
			r.OptimalCounts[i]++
		}
	}
}

// MeanRewards returns the element wise mean of the reward curves across runs
func (r *Result) MeanRewards() []float64 {
	out := make([]float64, r.Steps)
	if r.Runs == 0 {
		return out
	}
	for _, rewards := range r.Rewards {
		floats.Add(out, rewards)
	}
	floats.Scale(1/float64(r.Runs), out)
	return out
}

// OptimalPercentages returns, per step, the percentage of runs that pulled the optimal arm
func (r *Result) OptimalPercentages() []float64 {
	out := make([]float64, r.Steps)
	if r.Runs == 0 {
		return out
	}
	for i, c := range r.OptimalCounts {
		out[i] = float64(c) / float64(r.Runs) * 100
	}
	return out
}

// Report is the aggregated output of a comparison handed to reporters
type Report struct {
	ID         string
	Labels     []string
	Steps      int
	Runs       int
	OptimalArm int
	Means      []float64

	Results map[string]*Result
	// Datasets[analysis][experiment]
	Datasets map[string]map[string]DataSet

	Environment Environment `json:"-"`
}
