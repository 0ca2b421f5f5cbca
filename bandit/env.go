package bandit

import (
	"fmt"
	"math"

	"github.com/zeu5/bandits/core"
	"github.com/zeu5/bandits/util"
	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// StandardMeanRange and StandardStdRange are used when Config.Standard is set
	StandardMeanRange = [2]float64{-3, 3}
	StandardStdRange  = [2]float64{0.99, 1}
)

// config of the n-armed bandit
type Config struct {
	Arms      int
	MeanRange [2]float64
	StdRange  [2]float64
	// Standard overrides the ranges with StandardMeanRange and StandardStdRange
	Standard bool
}

func DefaultConfig() Config {
	return Config{
		Arms:      10,
		MeanRange: [2]float64{-3, 3},
		StdRange:  [2]float64{0.5, 1.5},
	}
}

func (c Config) validate() error {
	if c.Arms < 1 {
		return fmt.Errorf("%w: bandit needs at least one arm, got %d", core.ErrInvalidConfiguration, c.Arms)
	}
	if c.MeanRange[0] > c.MeanRange[1] {
		return fmt.Errorf("%w: inverted mean range %v", core.ErrInvalidConfiguration, c.MeanRange)
	}
	if c.StdRange[0] > c.StdRange[1] {
		return fmt.Errorf("%w: inverted std range %v", core.ErrInvalidConfiguration, c.StdRange)
	}
	if c.StdRange[0] < 0 {
		return fmt.Errorf("%w: negative std range %v", core.ErrInvalidConfiguration, c.StdRange)
	}
	return nil
}

// Bandit is an n-armed bandit with gaussian rewards.
// Means and stds are fixed at construction and shared by all forks.
type Bandit struct {
	config  Config
	means   []float64
	stds    []float64
	optimal int

	dists []distuv.Normal
}

var _ core.ForkableEnvironment = &Bandit{}

// New draws the arm means and stds uniformly from the configured ranges,
// rounded to two decimals. Rewards are later sampled from the same source.
func New(config Config, src erand.Source) (*Bandit, error) {
	if config.Standard {
		config.MeanRange = StandardMeanRange
		config.StdRange = StandardStdRange
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	meanDist := distuv.Uniform{Min: config.MeanRange[0], Max: config.MeanRange[1], Src: src}
	stdDist := distuv.Uniform{Min: config.StdRange[0], Max: config.StdRange[1], Src: src}

	means := make([]float64, config.Arms)
	for i := range means {
		means[i] = round(meanDist.Rand())
	}
	stds := make([]float64, config.Arms)
	for i := range stds {
		stds[i] = round(stdDist.Rand())
	}
	return newBandit(config, means, stds, src), nil
}

// NewWithParams creates a bandit with the given arm statistics
func NewWithParams(means, stds []float64, src erand.Source) (*Bandit, error) {
	if len(means) == 0 {
		return nil, fmt.Errorf("%w: bandit needs at least one arm", core.ErrInvalidConfiguration)
	}
	if len(means) != len(stds) {
		return nil, fmt.Errorf("%w: %d means but %d stds", core.ErrInvalidConfiguration, len(means), len(stds))
	}
	for i := range means {
		if math.IsNaN(means[i]) || math.IsNaN(stds[i]) || stds[i] < 0 {
			return nil, fmt.Errorf("%w: arm %d has mean %v and std %v", core.ErrInvalidConfiguration, i, means[i], stds[i])
		}
	}
	config := Config{
		Arms:      len(means),
		MeanRange: [2]float64{floats.Min(means), floats.Max(means)},
		StdRange:  [2]float64{floats.Min(stds), floats.Max(stds)},
	}
	return newBandit(config, util.CopyFloatSlice(means), util.CopyFloatSlice(stds), src), nil
}

func newBandit(config Config, means, stds []float64, src erand.Source) *Bandit {
	b := &Bandit{
		config:  config,
		means:   means,
		stds:    stds,
		optimal: floats.MaxIdx(means),
	}
	b.setSource(src)
	return b
}

func (b *Bandit) setSource(src erand.Source) {
	b.dists = make([]distuv.Normal, len(b.means))
	for i := range b.means {
		b.dists[i] = distuv.Normal{Mu: b.means[i], Sigma: b.stds[i], Src: src}
	}
}

func (b *Bandit) Arms() int {
	return len(b.means)
}

func (b *Bandit) Config() Config {
	return b.config
}

// Sample pulls the arm and returns one draw of its reward
func (b *Bandit) Sample(arm int) (float64, error) {
	if arm < 0 || arm >= len(b.means) {
		return 0, fmt.Errorf("%w: %d, arms must be between 0 and %d", core.ErrInvalidArmIndex, arm, len(b.means)-1)
	}
	return b.dists[arm].Rand(), nil
}

// OptimalArm returns the arm with the highest mean, the lowest index among ties
func (b *Bandit) OptimalArm() int {
	return b.optimal
}

func (b *Bandit) Means() []float64 {
	return util.CopyFloatSlice(b.means)
}

func (b *Bandit) Stds() []float64 {
	return util.CopyFloatSlice(b.stds)
}

// Fork returns a bandit with the same arms that samples from src
func (b *Bandit) Fork(src erand.Source) core.Environment {
	fork := &Bandit{
		config:  b.config,
		means:   b.means,
		stds:    b.stds,
		optimal: b.optimal,
	}
	fork.setSource(src)
	return fork
}

// RewardSamples draws n rewards from every arm, used to display the reward distributions
func (b *Bandit) RewardSamples(n int) [][]float64 {
	out := make([][]float64, len(b.means))
	for arm := range b.means {
		out[arm] = make([]float64, n)
		for i := 0; i < n; i++ {
			out[arm][i] = b.dists[arm].Rand()
		}
	}
	return out
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
