package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/bandits/bandit"
	"github.com/zeu5/bandits/core"
	"github.com/zeu5/bandits/policies"
	"github.com/zeu5/bandits/util"
	erand "golang.org/x/exp/rand"
)

func traceOf(actions ...int) *core.Trace {
	trace := core.NewTrace()
	for _, a := range actions {
		trace.AddStep(&core.Step{Action: a})
	}
	return trace
}

func threeArmed(t *testing.T) *bandit.Bandit {
	env, err := bandit.NewWithParams([]float64{0, 2, 1}, []float64{0, 0, 0}, erand.NewSource(1))
	require.NoError(t, err)
	return env
}

func TestRegretAnalyzer(t *testing.T) {
	rCtx := &core.RunContext{Environment: threeArmed(t)}
	a := NewRegretAnalyzer()
	a.Analyze(rCtx, traceOf(0, 1, 2))
	a.Analyze(rCtx, traceOf(2, 1, 1))

	d, ok := a.DataSet().(*regretDataset)
	require.True(t, ok)
	assert.Equal(t, 2, d.Runs)
	assert.InDeltaSlice(t, []float64{1.5, 0, 0.5}, d.MeanRegret, 1e-12)
	assert.InDeltaSlice(t, []float64{1.5, 1.5, 2}, d.CumulativeRegret, 1e-12)

	a.Reset()
	d = a.DataSet().(*regretDataset)
	assert.Equal(t, 0, d.Runs)
	assert.Empty(t, d.MeanRegret)
}

func TestArmUsageAnalyzer(t *testing.T) {
	rCtx := &core.RunContext{Environment: threeArmed(t)}
	a := NewArmUsageAnalyzer()
	a.Analyze(rCtx, traceOf(0, 1, 1))
	a.Analyze(rCtx, traceOf(1, 2, 1))

	d, ok := a.DataSet().(*armUsageDataset)
	require.True(t, ok)
	assert.Equal(t, []int{1, 4, 1}, d.Pulls)
	assert.Equal(t, 1, d.OptimalArm)

	// datasets are snapshots
	a.Analyze(rCtx, traceOf(0))
	assert.Equal(t, []int{1, 4, 1}, d.Pulls)
}

func TestJSONComparator(t *testing.T) {
	dir := t.TempDir()
	c := NewJSONComparator(dir, "usage")
	err := c.Compare(
		[]string{"a", "b"},
		[]core.DataSet{&armUsageDataset{Pulls: []int{1, 2}}, &armUsageDataset{Pulls: []int{3, 0}, OptimalArm: 1}},
	)
	require.NoError(t, err)

	out := make(map[string]*armUsageDataset)
	require.NoError(t, util.ReadJson(filepath.Join(dir, "usage.json"), &out))
	assert.Equal(t, []int{1, 2}, out["a"].Pulls)
	assert.Equal(t, 1, out["b"].OptimalArm)
}

func runReport(t *testing.T, dir string) *core.Report {
	rand := erand.New(erand.NewSource(4))
	env, err := bandit.NewWithParams([]float64{1, -1}, []float64{0, 0}, rand)
	require.NoError(t, err)

	cmp := core.NewComparison(env, rand)
	cmp.ID = "test"
	cmp.AddExperiment(&core.Experiment{Name: "perfect", Policy: &policies.PerfectPolicyConstructor{}})
	cmp.AddExperiment(&core.Experiment{Name: "greedy", Policy: policies.NewEpsilonGreedyPolicyConstructor(0, []float64{0, 5})})
	cmp.AddAnalysis("Regret", NewRegretAnalyzerConstructor(), NewNoOpComparator())
	cmp.AddReporter(NewSummaryReporter(dir))
	cmp.AddReporter(NewChartReporter(dir, 50))

	report, err := cmp.Run(context.Background(), &core.RunConfig{Steps: 4, Runs: 2})
	require.NoError(t, err)
	return report
}

func TestSummaryReporter(t *testing.T) {
	dir := t.TempDir()
	report := runReport(t, dir)

	s := &summary{}
	require.NoError(t, util.ReadJson(filepath.Join(dir, "summary.json"), s))
	assert.Equal(t, "test", s.ID)
	assert.Equal(t, []string{"perfect", "greedy"}, s.Labels)
	assert.Equal(t, report.OptimalArm, s.OptimalArm)

	perfect := s.Algorithms["perfect"]
	require.NotNil(t, perfect)
	assert.Equal(t, 1.0, perfect.AverageReward)
	assert.Equal(t, 100.0, perfect.FinalOptimalPercentage)

	// greedy starts on arm 1 because of its initial values, then sticks to arm 0
	greedy := s.Algorithms["greedy"]
	require.NotNil(t, greedy)
	assert.Equal(t, []float64{-1, 1, 1, 1}, greedy.MeanRewards)
	assert.Equal(t, []float64{0, 100, 100, 100}, greedy.OptimalPercentages)
	assert.Equal(t, 0.5, greedy.AverageReward)
}

func TestChartReporter(t *testing.T) {
	dir := t.TempDir()
	runReport(t, dir)

	bs, err := os.ReadFile(filepath.Join(dir, "charts.html"))
	require.NoError(t, err)
	assert.Contains(t, string(bs), "Average Reward of each Step")
	assert.Contains(t, string(bs), "Percentage of Optimal Actions")
}

func TestDistributionReporter(t *testing.T) {
	dir := t.TempDir()
	env := threeArmed(t)

	require.NoError(t, NewDistributionReporter(dir, 20).Render(env))
	_, err := os.Stat(filepath.Join(dir, "distributions.html"))
	assert.NoError(t, err)

	assert.ErrorIs(t, NewDistributionReporter(dir, 0).Render(env), core.ErrInvalidConfiguration)
}

func TestBoxValues(t *testing.T) {
	values := boxValues([]float64{5, 1, 4, 2, 3})
	require.Len(t, values, 5)
	assert.Equal(t, 1.0, values[0])
	assert.Equal(t, 3.0, values[2])
	assert.Equal(t, 5.0, values[4])
	assert.LessOrEqual(t, values[1], values[2])
	assert.GreaterOrEqual(t, values[3], values[2])
}
