package analysis

import (
	"path"

	"github.com/zeu5/bandits/core"
	"github.com/zeu5/bandits/util"
	"gonum.org/v1/gonum/stat"
)

type algorithmSummary struct {
	MeanRewards        []float64
	OptimalPercentages []float64
	// AverageReward is the mean reward over all steps and runs
	AverageReward float64
	// FinalOptimalPercentage is the optimal action percentage at the last step
	FinalOptimalPercentage float64
}

type summary struct {
	ID         string
	Steps      int
	Runs       int
	OptimalArm int
	Means      []float64
	Labels     []string
	Algorithms map[string]*algorithmSummary
}

func summarize(r *core.Report) *summary {
	out := &summary{
		ID:         r.ID,
		Steps:      r.Steps,
		Runs:       r.Runs,
		OptimalArm: r.OptimalArm,
		Means:      util.CopyFloatSlice(r.Means),
		Labels:     r.Labels,
		Algorithms: make(map[string]*algorithmSummary),
	}
	for _, label := range r.Labels {
		result := r.Results[label]
		s := &algorithmSummary{
			MeanRewards:        result.MeanRewards(),
			OptimalPercentages: result.OptimalPercentages(),
		}
		s.AverageReward = stat.Mean(s.MeanRewards, nil)
		s.FinalOptimalPercentage = s.OptimalPercentages[len(s.OptimalPercentages)-1]
		out.Algorithms[label] = s
	}
	return out
}

// SummaryReporter writes the per step mean reward and optimal action curves of every algorithm
type SummaryReporter struct {
	savePath string
}

var _ core.Reporter = &SummaryReporter{}

func NewSummaryReporter(savePath string) *SummaryReporter {
	return &SummaryReporter{
		savePath: path.Join(savePath, "summary.json"),
	}
}

func (s *SummaryReporter) Report(r *core.Report) error {
	return util.SaveJson(s.savePath, summarize(r))
}
