package core

import (
	"fmt"
	"io"

	erand "golang.org/x/exp/rand"
)

// Experiment pairs a label with the policy configuration it runs
type Experiment struct {
	Name   string
	Policy PolicyConstructor
}

type DataSet interface{}

type Analyzer interface {
	Analyze(*RunContext, *Trace)
	DataSet() DataSet
	Reset()
}

type AnalyzerConstructor interface {
	// new analyzer for the experiment with the given name
	NewAnalyzer(string) Analyzer
}

type Comparator interface {
	Compare([]string, []DataSet) error
}

// Reporter consumes the aggregated report once all experiments are done
type Reporter interface {
	Report(*Report) error
}

type RunConfig struct {
	Steps int
	Runs  int
	// Seed is the base seed of the per run random streams of ParallelComparison
	Seed uint64
	// ProgressEvery controls how often (in steps) progress is printed, 0 disables it
	ProgressEvery int
	Writer        io.Writer
}

func (r *RunConfig) validate() error {
	if r.Steps < 1 {
		return fmt.Errorf("%w: steps must be at least 1, got %d", ErrInvalidConfiguration, r.Steps)
	}
	if r.Runs < 1 {
		return fmt.Errorf("%w: runs must be at least 1, got %d", ErrInvalidConfiguration, r.Runs)
	}
	return nil
}

func (r *RunConfig) writer() io.Writer {
	if r.Writer == nil {
		return io.Discard
	}
	return r.Writer
}

// Comparison runs a set of experiments against a single shared environment.
// All randomness is drawn from one stream in a fixed order.
type Comparison struct {
	ID          string
	Environment Environment
	Experiments []*Experiment
	Analyzers   map[string]AnalyzerConstructor
	Comparators map[string]Comparator
	Reporters   []Reporter

	rand *erand.Rand
}

// NewComparison creates a comparison over env. The random stream should be
// the one env samples from so that the whole comparison is reproducible.
func NewComparison(env Environment, rand *erand.Rand) *Comparison {
	return &Comparison{
		Environment: env,
		Experiments: make([]*Experiment, 0),
		Analyzers:   make(map[string]AnalyzerConstructor),
		Comparators: make(map[string]Comparator),
		Reporters:   make([]Reporter, 0),
		rand:        rand,
	}
}

func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

func (c *Comparison) AddAnalysis(name string, a AnalyzerConstructor, cmp Comparator) {
	c.Analyzers[name] = a
	c.Comparators[name] = cmp
}

func (c *Comparison) AddReporter(r Reporter) {
	c.Reporters = append(c.Reporters, r)
}

// validate fails fast on configuration errors before anything is sampled
func (c *Comparison) validate(rConfig *RunConfig) error {
	if err := rConfig.validate(); err != nil {
		return err
	}
	if c.Environment == nil {
		return fmt.Errorf("%w: no environment", ErrInvalidConfiguration)
	}
	if len(c.Experiments) == 0 {
		return fmt.Errorf("%w: no experiments", ErrInvalidConfiguration)
	}
	names := make(map[string]bool)
	for _, e := range c.Experiments {
		if names[e.Name] {
			return fmt.Errorf("%w: duplicate experiment %q", ErrInvalidConfiguration, e.Name)
		}
		names[e.Name] = true
		if e.Policy == nil {
			return fmt.Errorf("%w: experiment %q", ErrUnsupportedAlgorithm, e.Name)
		}
		if err := e.Policy.Validate(c.Environment.Arms()); err != nil {
			return fmt.Errorf("experiment %s: %w", e.Name, err)
		}
	}
	return nil
}

// ParallelComparison distributes the runs of every experiment over a pool of workers.
// Each run gets its own fork of the environment and its own random stream derived from
// RunConfig.Seed, so results do not depend on scheduling.
type ParallelComparison struct {
	*Comparison
	environment ForkableEnvironment
}

func NewParallelComparison(env ForkableEnvironment) *ParallelComparison {
	return &ParallelComparison{
		Comparison:  NewComparison(env, nil),
		environment: env,
	}
}
