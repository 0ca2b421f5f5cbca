package testbed

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/zeu5/bandits/analysis"
	"github.com/zeu5/bandits/bandit"
	"github.com/zeu5/bandits/core"
	"github.com/zeu5/bandits/experiments/common"
	"github.com/zeu5/bandits/policies"
	erand "golang.org/x/exp/rand"
)

// CustomAlgorithms resolves the algorithms named in the flags
func CustomAlgorithms(flags *common.Flags) ([]policies.Algorithm, error) {
	return policies.ResolveAlgorithms(flags.Algorithms, flags.Epsilons, flags.Cs, flags.InitQ)
}

// TestbedAlgorithms is the classic 10-armed testbed line up: the two reference
// policies, greedy and two epsilon-greedy variants, and UCB with c = 2
func TestbedAlgorithms(flags *common.Flags) []policies.Algorithm {
	out := []policies.Algorithm{
		{Label: policies.RandomLabel, Policy: &policies.RandomPolicyConstructor{}},
		{Label: policies.PerfectLabel, Policy: &policies.PerfectPolicyConstructor{}},
	}
	for _, epsilon := range []float64{0, 0.01, 0.1} {
		out = append(out, policies.Algorithm{
			Label:  policies.EpsilonGreedyLabel + "_" + strconv.FormatFloat(epsilon, 'g', -1, 64),
			Policy: policies.NewEpsilonGreedyPolicyConstructor(epsilon, flags.InitQ),
		})
	}
	out = append(out, policies.Algorithm{
		Label:  policies.UCBLabel + "_2",
		Policy: policies.NewUCBPolicyConstructor(2, flags.InitQ),
	})
	return out
}

// NewBandit draws the bandit described by the flags from src
func NewBandit(flags *common.Flags, src erand.Source) (*bandit.Bandit, error) {
	return bandit.New(flags.BanditConfig(), src)
}

// configure adds the experiments, analyses and reporters to the comparison
func configure(cmp *core.Comparison, flags *common.Flags, algorithms []policies.Algorithm) {
	cmp.ID = flags.ID
	for _, a := range algorithms {
		cmp.AddExperiment(a.Experiment())
	}
	cmp.AddAnalysis("Regret", analysis.NewRegretAnalyzerConstructor(), analysis.NewJSONComparator(flags.SavePath, "regret"))
	cmp.AddAnalysis("ArmUsage", analysis.NewArmUsageAnalyzerConstructor(), analysis.NewJSONComparator(flags.SavePath, "arm_usage"))
	cmp.AddReporter(analysis.NewSummaryReporter(flags.SavePath))
	if flags.Charts {
		cmp.AddReporter(analysis.NewChartReporter(flags.SavePath, flags.DistributionSamples))
	}
}

// PrepareComparison creates the sequential comparison. env and policies share rand.
func PrepareComparison(flags *common.Flags, env *bandit.Bandit, rand *erand.Rand, algorithms []policies.Algorithm) *core.Comparison {
	cmp := core.NewComparison(env, rand)
	configure(cmp, flags, algorithms)
	return cmp
}

// PrepareParallelComparison creates a comparison whose runs are spread over workers
func PrepareParallelComparison(flags *common.Flags, env *bandit.Bandit, algorithms []policies.Algorithm) *core.ParallelComparison {
	cmp := core.NewParallelComparison(env)
	configure(cmp.Comparison, flags, algorithms)
	return cmp
}

// Run draws a bandit from the flags' seed and compares the algorithms on it
func Run(ctx context.Context, flags *common.Flags, algorithms []policies.Algorithm, out io.Writer) (*core.Report, error) {
	rand := erand.New(erand.NewSource(flags.Seed))
	env, err := NewBandit(flags, rand)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Experiment %s, seed %d, optimal arm %d\n", flags.ID, flags.Seed, env.OptimalArm())

	if flags.Parallelism > 1 {
		return PrepareParallelComparison(flags, env, algorithms).Run(ctx, flags.RunConfig(out), flags.Parallelism)
	}
	return PrepareComparison(flags, env, rand, algorithms).Run(ctx, flags.RunConfig(out))
}
