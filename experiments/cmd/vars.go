package cmd

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/zeu5/bandits/experiments/common"
)

var (
	flags    *common.Flags = common.DefaultFlags()
	savePath string
	seed     uint64

	arms     int
	meanMin  float64
	meanMax  float64
	stdMin   float64
	stdMax   float64
	standard bool

	numRuns       int
	steps         int
	progressEvery int

	algorithms []string
	epsilons   []float64
	cs         []float64
	initQ      []float64

	parallelism         int
	charts              bool
	distributionSamples int
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&savePath, "save-path", flags.SavePath, "Path to save results")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", flags.Seed, "Random seed, 0 picks a fresh one")

	cmd.PersistentFlags().IntVar(&arms, "arms", flags.Arms, "Number of arms")
	cmd.PersistentFlags().Float64Var(&meanMin, "mean-min", flags.MeanMin, "Lower bound of the arm means")
	cmd.PersistentFlags().Float64Var(&meanMax, "mean-max", flags.MeanMax, "Upper bound of the arm means")
	cmd.PersistentFlags().Float64Var(&stdMin, "std-min", flags.StdMin, "Lower bound of the arm standard deviations")
	cmd.PersistentFlags().Float64Var(&stdMax, "std-max", flags.StdMax, "Upper bound of the arm standard deviations")
	cmd.PersistentFlags().BoolVar(&standard, "standard", flags.Standard, "Use means in [-3,3] and standard deviations in [0.99,1]")

	cmd.PersistentFlags().IntVar(&numRuns, "num-runs", flags.NumRuns, "Number of runs")
	cmd.PersistentFlags().IntVar(&steps, "steps", flags.Steps, "Number of steps per run")
	cmd.PersistentFlags().IntVar(&progressEvery, "progress-every", flags.ProgressEvery, "Print progress every n steps, 0 disables it")

	cmd.PersistentFlags().StringSliceVar(&algorithms, "algorithms", flags.Algorithms, "Algorithms to compare: random, perfect, *e_greedy*, *UCB*")
	cmd.PersistentFlags().Float64SliceVar(&epsilons, "epsilons", flags.Epsilons, "Epsilon of each e_greedy algorithm, in order")
	cmd.PersistentFlags().Float64SliceVar(&cs, "cs", flags.Cs, "Exploration constant of each UCB algorithm, in order")
	cmd.PersistentFlags().Float64SliceVar(&initQ, "init-q", flags.InitQ, "Initial value estimate, a scalar or one per arm")

	cmd.PersistentFlags().IntVar(&parallelism, "parallelism", flags.Parallelism, "Number of parallel runs")
	cmd.PersistentFlags().BoolVar(&charts, "charts", flags.Charts, "Render charts.html after the comparison")
	cmd.PersistentFlags().IntVar(&distributionSamples, "distribution-samples", flags.DistributionSamples, "Samples per arm for the reward distribution chart")
}

func UpdateFlags() {
	flags.ID = uuid.NewString()
	flags.SavePath = savePath
	flags.Seed = seed
	if flags.Seed == 0 {
		flags.Seed = uint64(time.Now().UnixNano())
	}

	flags.Arms = arms
	flags.MeanMin = meanMin
	flags.MeanMax = meanMax
	flags.StdMin = stdMin
	flags.StdMax = stdMax
	flags.Standard = standard

	flags.NumRuns = numRuns
	flags.Steps = steps
	flags.ProgressEvery = progressEvery

	flags.Algorithms = algorithms
	flags.Epsilons = epsilons
	flags.Cs = cs
	flags.InitQ = initQ

	flags.Parallelism = parallelism
	flags.Charts = charts
	flags.DistributionSamples = distributionSamples
}
