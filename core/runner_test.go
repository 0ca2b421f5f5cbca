package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/bandits/bandit"
	"github.com/zeu5/bandits/core"
	"github.com/zeu5/bandits/policies"
	erand "golang.org/x/exp/rand"
)

// countingEnv counts the samples drawn from the wrapped environment
type countingEnv struct {
	core.Environment
	samples int
}

func (c *countingEnv) Sample(arm int) (float64, error) {
	c.samples++
	return c.Environment.Sample(arm)
}

// fixedPolicy always pulls the same arm
type fixedPolicy struct{ arm int }

func (f *fixedPolicy) Decide() (int, error)  { return f.arm, nil }
func (f *fixedPolicy) Observe(float64) error { return nil }

type fixedPolicyConstructor struct{ arm int }

func (f *fixedPolicyConstructor) Validate(int) error { return nil }
func (f *fixedPolicyConstructor) NewPolicy(core.Environment, *erand.Rand) (core.Policy, error) {
	return &fixedPolicy{arm: f.arm}, nil
}

var errBroken = errors.New("broken policy")

type brokenPolicy struct{ steps int }

func (b *brokenPolicy) Decide() (int, error) {
	b.steps++
	if b.steps > 3 {
		return 0, errBroken
	}
	return 0, nil
}
func (b *brokenPolicy) Observe(float64) error { return nil }

type brokenPolicyConstructor struct{}

func (b *brokenPolicyConstructor) Validate(int) error { return nil }
func (b *brokenPolicyConstructor) NewPolicy(core.Environment, *erand.Rand) (core.Policy, error) {
	return &brokenPolicy{}, nil
}

func twoArmed(t *testing.T) (*bandit.Bandit, *erand.Rand) {
	rand := erand.New(erand.NewSource(1))
	env, err := bandit.NewWithParams([]float64{1, -1}, []float64{0, 0}, rand)
	require.NoError(t, err)
	return env, rand
}

func TestGreedyOnDeterministicBandit(t *testing.T) {
	env, rand := twoArmed(t)
	cmp := core.NewComparison(env, rand)
	cmp.AddExperiment(&core.Experiment{
		Name:   "greedy",
		Policy: policies.NewEpsilonGreedyPolicyConstructor(0, []float64{0, 0}),
	})

	report, err := cmp.Run(context.Background(), &core.RunConfig{Steps: 5, Runs: 3})
	require.NoError(t, err)

	result := report.Results["greedy"]
	require.NotNil(t, result)
	assert.Equal(t, []int{3, 3, 3, 3, 3}, result.OptimalCounts)
	assert.Equal(t, []float64{1, 1, 1, 1, 1}, result.MeanRewards())
	assert.Equal(t, []float64{100, 100, 100, 100, 100}, result.OptimalPercentages())
	for run := 0; run < 3; run++ {
		assert.Equal(t, []int{0, 0, 0, 0, 0}, result.Actions[run])
	}
	assert.Equal(t, []string{"greedy"}, report.Labels)
	assert.Equal(t, 0, report.OptimalArm)
	assert.Equal(t, []float64{1, -1}, report.Means)
}

func TestUCBOnDeterministicBandit(t *testing.T) {
	env, rand := twoArmed(t)
	cmp := core.NewComparison(env, rand)
	cmp.AddExperiment(&core.Experiment{Name: "ucb", Policy: policies.NewUCBPolicyConstructor(2, []float64{0, 0})})

	report, err := cmp.Run(context.Background(), &core.RunConfig{Steps: 3, Runs: 1})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, report.Results["ucb"].Actions[0])
	assert.Equal(t, []float64{1, -1, 1}, report.Results["ucb"].Rewards[0])
	assert.Equal(t, []int{1, 0, 1}, report.Results["ucb"].OptimalCounts)
}

func TestReferencePoliciesBracketTheOthers(t *testing.T) {
	env, rand := twoArmed(t)
	cmp := core.NewComparison(env, rand)
	cmp.AddExperiment(&core.Experiment{Name: "perfect", Policy: &policies.PerfectPolicyConstructor{}})
	cmp.AddExperiment(&core.Experiment{Name: "worst", Policy: &fixedPolicyConstructor{arm: 1}})

	report, err := cmp.Run(context.Background(), &core.RunConfig{Steps: 4, Runs: 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 100, 100, 100}, report.Results["perfect"].OptimalPercentages())
	assert.Equal(t, []float64{0, 0, 0, 0}, report.Results["worst"].OptimalPercentages())
	assert.Equal(t, []float64{-1, -1, -1, -1}, report.Results["worst"].MeanRewards())
}

func TestConfigurationErrorsFailBeforeSampling(t *testing.T) {
	base, rand := twoArmed(t)

	cases := map[string]struct {
		experiments []*core.Experiment
		config      *core.RunConfig
		err         error
	}{
		"unsupported": {
			experiments: []*core.Experiment{
				{Name: "greedy", Policy: policies.NewEpsilonGreedyPolicyConstructor(0, nil)},
				{Name: "unknown"},
			},
			config: &core.RunConfig{Steps: 5, Runs: 1},
			err:    core.ErrUnsupportedAlgorithm,
		},
		"bad init values": {
			experiments: []*core.Experiment{{Name: "greedy", Policy: policies.NewEpsilonGreedyPolicyConstructor(0, []float64{0, 0, 0})}},
			config:      &core.RunConfig{Steps: 5, Runs: 1},
			err:         core.ErrInvalidConfiguration,
		},
		"bad epsilon": {
			experiments: []*core.Experiment{{Name: "greedy", Policy: policies.NewEpsilonGreedyPolicyConstructor(3, nil)}},
			config:      &core.RunConfig{Steps: 5, Runs: 1},
			err:         core.ErrInvalidConfiguration,
		},
		"duplicate names": {
			experiments: []*core.Experiment{
				{Name: "a", Policy: &policies.PerfectPolicyConstructor{}},
				{Name: "a", Policy: &policies.RandomPolicyConstructor{}},
			},
			config: &core.RunConfig{Steps: 5, Runs: 1},
			err:    core.ErrInvalidConfiguration,
		},
		"no steps": {
			experiments: []*core.Experiment{{Name: "a", Policy: &policies.PerfectPolicyConstructor{}}},
			config:      &core.RunConfig{Steps: 0, Runs: 1},
			err:         core.ErrInvalidConfiguration,
		},
		"no experiments": {
			config: &core.RunConfig{Steps: 1, Runs: 1},
			err:    core.ErrInvalidConfiguration,
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			env := &countingEnv{Environment: base}
			cmp := core.NewComparison(env, rand)
			for _, e := range c.experiments {
				cmp.AddExperiment(e)
			}
			report, err := cmp.Run(context.Background(), c.config)
			assert.ErrorIs(t, err, c.err)
			assert.Nil(t, report)
			assert.Equal(t, 0, env.samples)
		})
	}
}

func TestInvalidArmAbortsComparison(t *testing.T) {
	env, rand := twoArmed(t)
	cmp := core.NewComparison(env, rand)
	cmp.AddExperiment(&core.Experiment{Name: "out of range", Policy: &fixedPolicyConstructor{arm: 7}})
	cmp.AddExperiment(&core.Experiment{Name: "perfect", Policy: &policies.PerfectPolicyConstructor{}})

	report, err := cmp.Run(context.Background(), &core.RunConfig{Steps: 5, Runs: 2})
	assert.ErrorIs(t, err, core.ErrInvalidArmIndex)
	assert.Nil(t, report)
}

func TestPolicyErrorAbortsComparison(t *testing.T) {
	env, rand := twoArmed(t)
	cmp := core.NewComparison(env, rand)
	cmp.AddExperiment(&core.Experiment{Name: "broken", Policy: &brokenPolicyConstructor{}})

	_, err := cmp.Run(context.Background(), &core.RunConfig{Steps: 10, Runs: 1})
	assert.ErrorIs(t, err, errBroken)
}

func TestCancelledComparison(t *testing.T) {
	env, rand := twoArmed(t)
	cmp := core.NewComparison(env, rand)
	cmp.AddExperiment(&core.Experiment{Name: "perfect", Policy: &policies.PerfectPolicyConstructor{}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cmp.Run(ctx, &core.RunConfig{Steps: 10, Runs: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func newTestbed(t *testing.T, seed uint64) (*bandit.Bandit, *erand.Rand) {
	rand := erand.New(erand.NewSource(seed))
	env, err := bandit.New(bandit.DefaultConfig(), rand)
	require.NoError(t, err)
	return env, rand
}

func addAlgorithms(t *testing.T, cmp *core.Comparison) {
	algorithms, err := policies.ResolveAlgorithms(
		[]string{"random", "perfect", "e_greedy", "UCB"},
		[]float64{0.1}, []float64{2}, nil,
	)
	require.NoError(t, err)
	for _, a := range algorithms {
		cmp.AddExperiment(a.Experiment())
	}
}

func TestComparisonIsReproducible(t *testing.T) {
	run := func() *core.Report {
		env, rand := newTestbed(t, 7)
		cmp := core.NewComparison(env, rand)
		addAlgorithms(t, cmp)
		report, err := cmp.Run(context.Background(), &core.RunConfig{Steps: 50, Runs: 4})
		require.NoError(t, err)
		return report
	}

	r1, r2 := run(), run()
	assert.Equal(t, r1.Means, r2.Means)
	for _, label := range r1.Labels {
		assert.Equal(t, r1.Results[label].Rewards, r2.Results[label].Rewards, label)
		assert.Equal(t, r1.Results[label].Actions, r2.Results[label].Actions, label)
	}
}

func TestParallelComparisonIgnoresScheduling(t *testing.T) {
	run := func(parallelism int) *core.Report {
		env, _ := newTestbed(t, 7)
		cmp := core.NewParallelComparison(env)
		addAlgorithms(t, cmp.Comparison)
		report, err := cmp.Run(context.Background(), &core.RunConfig{Steps: 50, Runs: 6, Seed: 7}, parallelism)
		require.NoError(t, err)
		return report
	}

	sequential, parallel := run(1), run(4)
	require.Equal(t, sequential.Labels, parallel.Labels)
	for _, label := range sequential.Labels {
		assert.Equal(t, sequential.Results[label].Rewards, parallel.Results[label].Rewards, label)
		assert.Equal(t, sequential.Results[label].OptimalCounts, parallel.Results[label].OptimalCounts, label)
	}
	assert.Equal(t, []float64{100}, parallel.Results["perfect"].OptimalPercentages()[:1])
}

func TestParallelComparisonStopsOnError(t *testing.T) {
	env, _ := twoArmed(t)
	cmp := core.NewParallelComparison(env)
	cmp.AddExperiment(&core.Experiment{Name: "perfect", Policy: &policies.PerfectPolicyConstructor{}})
	cmp.AddExperiment(&core.Experiment{Name: "out of range", Policy: &fixedPolicyConstructor{arm: 2}})

	report, err := cmp.Run(context.Background(), &core.RunConfig{Steps: 20, Runs: 10}, 3)
	assert.ErrorIs(t, err, core.ErrInvalidArmIndex)
	assert.Nil(t, report)

	_, err = cmp.Run(context.Background(), &core.RunConfig{Steps: 20, Runs: 10}, 0)
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
}

type recordingAnalyzer struct {
	runs []int
}

func (r *recordingAnalyzer) Analyze(ctx *core.RunContext, _ *core.Trace) { r.runs = append(r.runs, ctx.Run) }
func (r *recordingAnalyzer) DataSet() core.DataSet                       { return r.runs }
func (r *recordingAnalyzer) Reset()                                      { r.runs = nil }

type recordingAnalyzerConstructor struct{}

func (recordingAnalyzerConstructor) NewAnalyzer(string) core.Analyzer { return &recordingAnalyzer{} }

type recordingComparator struct {
	labels []string
	sets   []core.DataSet
}

func (r *recordingComparator) Compare(labels []string, sets []core.DataSet) error {
	r.labels = labels
	r.sets = sets
	return nil
}

func TestAnalyzersSeeRunsInOrder(t *testing.T) {
	env, _ := twoArmed(t)
	cmp := core.NewParallelComparison(env)
	cmp.AddExperiment(&core.Experiment{Name: "perfect", Policy: &policies.PerfectPolicyConstructor{}})
	cmp.AddExperiment(&core.Experiment{Name: "random", Policy: &policies.RandomPolicyConstructor{}})
	comparator := &recordingComparator{}
	cmp.AddAnalysis("runs", recordingAnalyzerConstructor{}, comparator)

	_, err := cmp.Run(context.Background(), &core.RunConfig{Steps: 5, Runs: 8, Seed: 1}, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"perfect", "random"}, comparator.labels)
	for _, set := range comparator.sets {
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, set)
	}
}
