package core

import erand "golang.org/x/exp/rand"

// Policy is an online action selection procedure.
// Every Decide is followed by an Observe carrying the reward of the decided arm.
type Policy interface {
	// Decide returns the next arm to pull
	Decide() (int, error)
	// Observe feeds back the reward for the last decided arm
	Observe(float64) error
}

// PolicyConstructor builds fresh policies, one per run.
type PolicyConstructor interface {
	// Validate checks the configuration against the number of arms
	// before any run starts.
	Validate(int) error
	NewPolicy(Environment, *erand.Rand) (Policy, error)
}
