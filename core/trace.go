package core

import "sync"

type Step struct {
	Action  int
	Reward  float64
	Optimal bool
}

// Trace records the steps of a single run
type Trace struct {
	mtx   *sync.Mutex
	steps []*Step
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]*Step, 0),
		mtx:   &sync.Mutex{},
	}
}

func (t *Trace) AddStep(s *Step) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.steps = append(t.steps, s)
}

func (t *Trace) Step(i int) *Step {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.steps[i]
}

func (t *Trace) Len() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return len(t.steps)
}

func (t *Trace) Last() *Step {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.steps[len(t.steps)-1]
}

// Rewards returns the reward of every step in order
func (t *Trace) Rewards() []float64 {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	out := make([]float64, len(t.steps))
	for i, s := range t.steps {
		out[i] = s.Reward
	}
	return out
}

// Actions returns the arm chosen at every step in order
func (t *Trace) Actions() []int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	out := make([]int, len(t.steps))
	for i, s := range t.steps {
		out[i] = s.Action
	}
	return out
}
