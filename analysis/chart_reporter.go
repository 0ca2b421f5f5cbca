package analysis

import (
	"fmt"
	"path"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/zeu5/bandits/core"
	"github.com/zeu5/bandits/util"
	"gonum.org/v1/gonum/stat"
)

// RewardSampler is implemented by environments that can show their reward distributions
type RewardSampler interface {
	RewardSamples(int) [][]float64
}

// ChartReporter renders the comparison as an html page
type ChartReporter struct {
	savePath string
	samples  int
}

var _ core.Reporter = &ChartReporter{}

// NewChartReporter writes charts.html under savePath. When samples is positive and the
// environment implements RewardSampler the reward distribution of every arm is drawn too.
func NewChartReporter(savePath string, samples int) *ChartReporter {
	return &ChartReporter{
		savePath: path.Join(savePath, "charts.html"),
		samples:  samples,
	}
}

func (c *ChartReporter) Report(r *core.Report) error {
	page := components.NewPage()

	page.AddCharts(
		lineChart(
			fmt.Sprintf("Average Reward of each Step across %d Runs", r.Runs),
			"Average Reward Value",
			r,
			func(res *core.Result) []float64 { return res.MeanRewards() },
		),
		lineChart(
			fmt.Sprintf("Percentage of Optimal Actions per Step across %d Runs", r.Runs),
			"Runs that Made Optimal Actions (%)",
			r,
			func(res *core.Result) []float64 { return res.OptimalPercentages() },
		),
	)
	if sampler, ok := r.Environment.(RewardSampler); ok && c.samples > 0 {
		page.AddCharts(distributionChart(sampler.RewardSamples(c.samples)))
	}

	f, err := util.CreateFile(c.savePath)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}

// DistributionReporter renders only the reward distributions of an environment
type DistributionReporter struct {
	savePath string
	samples  int
}

func NewDistributionReporter(savePath string, samples int) *DistributionReporter {
	return &DistributionReporter{
		savePath: path.Join(savePath, "distributions.html"),
		samples:  samples,
	}
}

func (d *DistributionReporter) Render(env RewardSampler) error {
	if d.samples < 1 {
		return fmt.Errorf("%w: need at least one sample per arm, got %d", core.ErrInvalidConfiguration, d.samples)
	}
	f, err := util.CreateFile(d.savePath)
	if err != nil {
		return err
	}
	defer f.Close()
	return distributionChart(env.RewardSamples(d.samples)).Render(f)
}

func lineChart(title, yName string, r *core.Report, series func(*core.Result) []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeInfographic,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Step"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)

	line.SetXAxis(makeRange(r.Steps))
	for _, label := range r.Labels {
		values := series(r.Results[label])
		items := make([]opts.LineData, len(values))
		for i, v := range values {
			items[i] = opts.LineData{Value: v}
		}
		line.AddSeries(label, items)
	}
	return line
}

func distributionChart(samples [][]float64) *charts.BoxPlot {
	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeInfographic,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Spread of Rewards for Actions",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Action Number"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Reward Value"}),
	)

	items := make([]opts.BoxPlotData, len(samples))
	for arm, s := range samples {
		items[arm] = opts.BoxPlotData{Value: boxValues(s)}
	}
	box.SetXAxis(makeRange(len(samples))).AddSeries("Rewards", items)
	return box
}

// boxValues returns min, lower quartile, median, upper quartile and max of s
func boxValues(s []float64) []float64 {
	if len(s) == 0 {
		return []float64{0, 0, 0, 0, 0}
	}
	sorted := util.CopyFloatSlice(s)
	sort.Float64s(sorted)
	return []float64{
		sorted[0],
		stat.Quantile(0.25, stat.Empirical, sorted, nil),
		stat.Quantile(0.5, stat.Empirical, sorted, nil),
		stat.Quantile(0.75, stat.Empirical, sorted, nil),
		sorted[len(sorted)-1],
	}
}

func makeRange(n int) []string {
	result := make([]string, n)
	for i := 0; i < n; i++ {
		result[i] = fmt.Sprintf("%d", i)
	}
	return result
}
