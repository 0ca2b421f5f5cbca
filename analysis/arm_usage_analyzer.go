package analysis

import (
	"github.com/zeu5/bandits/core"
	"github.com/zeu5/bandits/util"
)

type armUsageDataset struct {
	// Pulls[arm] is the number of times the arm was pulled over all runs
	Pulls      []int
	OptimalArm int
}

func (a *armUsageDataset) Copy() *armUsageDataset {
	return &armUsageDataset{
		Pulls:      util.CopyIntSlice(a.Pulls),
		OptimalArm: a.OptimalArm,
	}
}

// ArmUsageAnalyzer counts how often every arm was pulled
type ArmUsageAnalyzer struct {
	dataset *armUsageDataset
}

var _ core.Analyzer = &ArmUsageAnalyzer{}

func NewArmUsageAnalyzer() *ArmUsageAnalyzer {
	return &ArmUsageAnalyzer{
		dataset: &armUsageDataset{Pulls: make([]int, 0)},
	}
}

func (a *ArmUsageAnalyzer) Reset() {
	a.dataset = &armUsageDataset{Pulls: make([]int, 0)}
}

func (a *ArmUsageAnalyzer) Analyze(rCtx *core.RunContext, trace *core.Trace) {
	if len(a.dataset.Pulls) == 0 {
		a.dataset.Pulls = make([]int, rCtx.Environment.Arms())
	}
	a.dataset.OptimalArm = rCtx.Environment.OptimalArm()
	for _, action := range trace.Actions() {
		a.dataset.Pulls[action]++
	}
}

func (a *ArmUsageAnalyzer) DataSet() core.DataSet {
	return a.dataset.Copy()
}

type ArmUsageAnalyzerConstructor struct{}

var _ core.AnalyzerConstructor = &ArmUsageAnalyzerConstructor{}

func NewArmUsageAnalyzerConstructor() *ArmUsageAnalyzerConstructor {
	return &ArmUsageAnalyzerConstructor{}
}

func (a *ArmUsageAnalyzerConstructor) NewAnalyzer(_ string) core.Analyzer {
	return NewArmUsageAnalyzer()
}
