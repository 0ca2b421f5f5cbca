package core

import (
	"context"

	erand "golang.org/x/exp/rand"
)

// Environment is a stochastic reward source over a fixed set of arms.
// Arm statistics never change after construction.
type Environment interface {
	Arms() int
	Sample(int) (float64, error)
	OptimalArm() int
	Means() []float64
}

// ForkableEnvironment can hand out copies that share the arm statistics
// but draw from an independent random stream. Required by ParallelComparison.
type ForkableEnvironment interface {
	Environment
	// Fork returns a view of the environment that samples from the given source
	Fork(erand.Source) Environment
}

// RunContext carries the state of a single run of an experiment.
type RunContext struct {
	Context    context.Context
	Experiment string
	Run        int
	RunCount   int
	Steps      int

	Environment Environment
	Rand        *erand.Rand
}

