package common

import (
	"fmt"
	"io"
	"os"
	"path"
	"strconv"

	"github.com/zeu5/bandits/bandit"
	"github.com/zeu5/bandits/core"
	"github.com/zeu5/bandits/util"
)

// Environment variables that override the defaults, typically set in a .env file
const (
	EnvSeed        = "BANDITS_SEED"
	EnvSavePath    = "BANDITS_SAVE_PATH"
	EnvParallelism = "BANDITS_PARALLELISM"
)

type Flags struct {
	ID       string
	SavePath string
	// Seed of the random stream, 0 picks a fresh seed on every invocation
	Seed uint64
	BanditFlags
	RunFlags
	AlgorithmFlags
	Parallelism         int
	Charts              bool
	DistributionSamples int
}

type BanditFlags struct {
	Arms     int
	MeanMin  float64
	MeanMax  float64
	StdMin   float64
	StdMax   float64
	Standard bool
}

type RunFlags struct {
	NumRuns       int
	Steps         int
	ProgressEvery int
}

type AlgorithmFlags struct {
	Algorithms []string
	Epsilons   []float64
	Cs         []float64
	InitQ      []float64
}

func DefaultFlags() *Flags {
	config := bandit.DefaultConfig()
	return &Flags{
		SavePath: "results",
		BanditFlags: BanditFlags{
			Arms:    config.Arms,
			MeanMin: config.MeanRange[0],
			MeanMax: config.MeanRange[1],
			StdMin:  config.StdRange[0],
			StdMax:  config.StdRange[1],
		},
		RunFlags: RunFlags{
			NumRuns:       100,
			Steps:         1000,
			ProgressEvery: 100,
		},
		AlgorithmFlags: AlgorithmFlags{
			Algorithms: []string{"random", "perfect", "e_greedy", "UCB"},
			Epsilons:   []float64{0.1},
			Cs:         []float64{2},
			InitQ:      []float64{0},
		},
		Parallelism:         1,
		Charts:              true,
		DistributionSamples: 1000,
	}
}

// ApplyEnv overrides the flags with the values of the BANDITS_* environment variables
func (f *Flags) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvSeed); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %s", core.ErrInvalidConfiguration, EnvSeed, v, err)
		}
		f.Seed = seed
	}
	if v, ok := os.LookupEnv(EnvSavePath); ok && v != "" {
		f.SavePath = v
	}
	if v, ok := os.LookupEnv(EnvParallelism); ok {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %s", core.ErrInvalidConfiguration, EnvParallelism, v, err)
		}
		f.Parallelism = p
	}
	return nil
}

func (f *Flags) BanditConfig() bandit.Config {
	return bandit.Config{
		Arms:      f.Arms,
		MeanRange: [2]float64{f.MeanMin, f.MeanMax},
		StdRange:  [2]float64{f.StdMin, f.StdMax},
		Standard:  f.Standard,
	}
}

func (f *Flags) RunConfig(out io.Writer) *core.RunConfig {
	return &core.RunConfig{
		Steps:         f.Steps,
		Runs:          f.NumRuns,
		Seed:          f.Seed,
		ProgressEvery: f.ProgressEvery,
		Writer:        out,
	}
}

// Record saves the flags to config.json in the save path
func (f *Flags) Record() error {
	return util.SaveJson(path.Join(f.SavePath, "config.json"), f)
}
