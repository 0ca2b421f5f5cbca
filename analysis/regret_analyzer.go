package analysis

import (
	"github.com/zeu5/bandits/core"
	"github.com/zeu5/bandits/util"
	"gonum.org/v1/gonum/floats"
)

type regretDataset struct {
	// MeanRegret[step] is the expected regret of the chosen arm averaged over runs
	MeanRegret []float64
	// CumulativeRegret[step] is the running sum of MeanRegret
	CumulativeRegret []float64
	Runs             int
}

func (r *regretDataset) Copy() *regretDataset {
	return &regretDataset{
		MeanRegret:       util.CopyFloatSlice(r.MeanRegret),
		CumulativeRegret: util.CopyFloatSlice(r.CumulativeRegret),
		Runs:             r.Runs,
	}
}

// RegretAnalyzer measures the gap between the optimal arm's mean
// and the mean of the arm actually pulled at every step
type RegretAnalyzer struct {
	sums []float64
	runs int
}

var _ core.Analyzer = &RegretAnalyzer{}

func NewRegretAnalyzer() *RegretAnalyzer {
	return &RegretAnalyzer{
		sums: make([]float64, 0),
	}
}

func (r *RegretAnalyzer) Reset() {
	r.sums = make([]float64, 0)
	r.runs = 0
}

func (r *RegretAnalyzer) Analyze(rCtx *core.RunContext, trace *core.Trace) {
	means := rCtx.Environment.Means()
	best := floats.Max(means)
	for len(r.sums) < trace.Len() {
		r.sums = append(r.sums, 0)
	}
	for i := 0; i < trace.Len(); i++ {
		r.sums[i] += best - means[trace.Step(i).Action]
	}
	r.runs++
}

func (r *RegretAnalyzer) DataSet() core.DataSet {
	d := &regretDataset{
		MeanRegret:       util.CopyFloatSlice(r.sums),
		CumulativeRegret: make([]float64, len(r.sums)),
		Runs:             r.runs,
	}
	if r.runs > 0 {
		floats.Scale(1/float64(r.runs), d.MeanRegret)
	}
	floats.CumSum(d.CumulativeRegret, d.MeanRegret)
	return d.Copy()
}

type RegretAnalyzerConstructor struct{}

var _ core.AnalyzerConstructor = &RegretAnalyzerConstructor{}

func NewRegretAnalyzerConstructor() *RegretAnalyzerConstructor {
	return &RegretAnalyzerConstructor{}
}

func (r *RegretAnalyzerConstructor) NewAnalyzer(_ string) core.Analyzer {
	return NewRegretAnalyzer()
}
