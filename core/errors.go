package core

import "errors"

var (
	// ErrInvalidArmIndex is returned when an environment is queried outside [0, arms)
	ErrInvalidArmIndex = errors.New("invalid arm index")
	// ErrInvalidConfiguration is returned for malformed environment, policy or run parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrUnsupportedAlgorithm is returned for an algorithm label that cannot be resolved
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	// ErrNoAction is returned when a policy observes a reward before deciding on any arm
	ErrNoAction = errors.New("no action decided yet")
)
