package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zeu5/bandits/util"
	erand "golang.org/x/exp/rand"
)

// runOutput is the trace of a single run along with the context it ran in
type runOutput struct {
	ctx   *RunContext
	trace *Trace
}

// runOnce plays one run of the experiment with a fresh policy.
// The reward of step k is observed before the decision of step k+1.
func (e *Experiment) runOnce(ctx *RunContext, progressEvery int, progress func(string)) (*Trace, error) {
	policy, err := e.Policy.NewPolicy(ctx.Environment, ctx.Rand)
	if err != nil {
		return nil, fmt.Errorf("experiment %s, run %d: %w", e.Name, ctx.Run, err)
	}
	optimal := ctx.Environment.OptimalArm()

	trace := NewTrace()
	for step := 0; step < ctx.Steps; step++ {
		action, err := policy.Decide()
		if err != nil {
			return nil, fmt.Errorf("experiment %s, run %d, step %d: %w", e.Name, ctx.Run, step, err)
		}
		reward, err := ctx.Environment.Sample(action)
		if err != nil {
			return nil, fmt.Errorf("experiment %s, run %d, step %d: %w", e.Name, ctx.Run, step, err)
		}
		trace.AddStep(&Step{
			Action:  action,
			Reward:  reward,
			Optimal: action == optimal,
		})
		if err := policy.Observe(reward); err != nil {
			return nil, fmt.Errorf("experiment %s, run %d, step %d: %w", e.Name, ctx.Run, step, err)
		}

		if progressEvery > 0 && (step+1)%progressEvery == 0 {
			progress(fmt.Sprintf("Experiment: %s, Run %d/%d, Step %d/%d", e.Name, ctx.Run+1, ctx.RunCount, step+1, ctx.Steps))
		}
	}
	return trace, nil
}

// Run executes every experiment for rConfig.Runs runs of rConfig.Steps steps,
// experiment by experiment and run by run. Any error aborts the whole comparison.
func (c *Comparison) Run(ctx context.Context, rConfig *RunConfig) (*Report, error) {
	if err := c.validate(rConfig); err != nil {
		return nil, err
	}
	rand := c.rand
	if rand == nil {
		rand = erand.New(erand.NewSource(rConfig.Seed))
	}
	writer := rConfig.writer()
	progress := func(s string) { fmt.Fprintln(writer, s) }

	outputs := make(map[string][]*runOutput)
	for _, e := range c.Experiments {
		fmt.Fprintf(writer, "Running experiment for algorithm: %s\n", e.Name)
		runs := make([]*runOutput, rConfig.Runs)
		for run := 0; run < rConfig.Runs; run++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			fmt.Fprintf(writer, "Experiment: %s, Run %d/%d\n", e.Name, run+1, rConfig.Runs)

			rCtx := &RunContext{
				Context:     ctx,
				Experiment:  e.Name,
				Run:         run,
				RunCount:    rConfig.Runs,
				Steps:       rConfig.Steps,
				Environment: c.Environment,
				Rand:        rand,
			}
			trace, err := e.runOnce(rCtx, rConfig.ProgressEvery, progress)
			if err != nil {
				fmt.Fprintf(writer, "Experiment: %s, Run %d, Error: %v\n", e.Name, run+1, err)
				return nil, err
			}
			runs[run] = &runOutput{ctx: rCtx, trace: trace}
		}
		outputs[e.Name] = runs
	}
	return c.report(rConfig, outputs)
}

// report aggregates the run outputs, runs the analyses and hands the report to the reporters.
// Runs are visited in index order regardless of the order in which they completed.
func (c *Comparison) report(rConfig *RunConfig, outputs map[string][]*runOutput) (*Report, error) {
	report := &Report{
		ID:          c.ID,
		Labels:      make([]string, 0, len(c.Experiments)),
		Steps:       rConfig.Steps,
		Runs:        rConfig.Runs,
		OptimalArm:  c.Environment.OptimalArm(),
		Means:       c.Environment.Means(),
		Results:     make(map[string]*Result),
		Datasets:    make(map[string]map[string]DataSet),
		Environment: c.Environment,
	}

	for name := range c.Analyzers {
		report.Datasets[name] = make(map[string]DataSet)
	}

	for _, e := range c.Experiments {
		report.Labels = append(report.Labels, e.Name)
		result := newResult(rConfig.Runs, rConfig.Steps)
		analyzers := make(map[string]Analyzer)
		for name, aC := range c.Analyzers {
			a := aC.NewAnalyzer(e.Name)
			a.Reset()
			analyzers[name] = a
		}
		for run, out := range outputs[e.Name] {
			result.record(run, out.trace)
			for _, a := range analyzers {
				a.Analyze(out.ctx, out.trace)
			}
		}
		report.Results[e.Name] = result
		for name, a := range analyzers {
			report.Datasets[name][e.Name] = a.DataSet()
		}
	}

	for name, cmp := range c.Comparators {
		datasets := make([]DataSet, len(report.Labels))
		for i, label := range report.Labels {
			datasets[i] = report.Datasets[name][label]
		}
		if err := cmp.Compare(report.Labels, datasets); err != nil {
			return nil, fmt.Errorf("comparing %s: %w", name, err)
		}
	}
	for _, r := range c.Reporters {
		if err := r.Report(report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// parallelWorker is a worker that runs single runs of experiments
type parallelWorker struct {
	id     int
	output *util.ParallelOutput
}

// parallelWork identifies one run of one experiment
type parallelWork struct {
	experiment *Experiment
	run        int
}

// parallelResult is the outcome of a parallelWork
type parallelResult struct {
	experimentName string
	run            int
	output         *runOutput
	err            error
}

// Worker main loop that consumes work from a channel
func (w *parallelWorker) run(ctx context.Context, c *ParallelComparison, rConfig *RunConfig, workCh <-chan *parallelWork, resultsCh chan<- *parallelResult) {
	for {
		select {
		case <-ctx.Done():
			return
		case work, more := <-workCh:
			if !more {
				return
			}
			resultsCh <- w.runWork(ctx, c, rConfig, work)
		}
	}
}

// Run a single run of an experiment on its own fork of the environment
func (w *parallelWorker) runWork(ctx context.Context, c *ParallelComparison, rConfig *RunConfig, work *parallelWork) *parallelResult {
	// seed+run+1 so that run 0 does not replay the stream of the base seed
	rand := erand.New(erand.NewSource(rConfig.Seed + uint64(work.run) + 1))
	rCtx := &RunContext{
		Context:     ctx,
		Experiment:  work.experiment.Name,
		Run:         work.run,
		RunCount:    rConfig.Runs,
		Steps:       rConfig.Steps,
		Environment: c.environment.Fork(rand),
		Rand:        rand,
	}
	w.output.Set(fmt.Sprintf("Worker %d: Experiment: %s, Run %d/%d", w.id, work.experiment.Name, work.run+1, rConfig.Runs))

	trace, err := work.experiment.runOnce(rCtx, rConfig.ProgressEvery, func(s string) {
		w.output.TrySet(fmt.Sprintf("Worker %d: %s", w.id, s))
	})
	result := &parallelResult{
		experimentName: work.experiment.Name,
		run:            work.run,
		err:            err,
	}
	if err == nil {
		result.output = &runOutput{ctx: rCtx, trace: trace}
	}
	return result
}

// Run executes all runs of all experiments over parallelism workers.
// The first error cancels the remaining work and is returned.
func (c *ParallelComparison) Run(ctx context.Context, rConfig *RunConfig, parallelism int) (*Report, error) {
	if err := c.validate(rConfig); err != nil {
		return nil, err
	}
	if parallelism < 1 {
		return nil, fmt.Errorf("%w: parallelism must be at least 1, got %d", ErrInvalidConfiguration, parallelism)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printer := util.NewTerminalPrinter(rConfig.writer(), 100*time.Millisecond)
	workers := make([]*parallelWorker, parallelism)
	for i := 0; i < parallelism; i++ {
		workers[i] = &parallelWorker{id: i, output: printer.NewOutput()}
	}
	printer.Start(ctx)
	defer printer.Stop()

	workCh := make(chan *parallelWork, parallelism)
	resultsCh := make(chan *parallelResult, parallelism)

	// Start workers
	wg := new(sync.WaitGroup)
	for _, worker := range workers {
		worker := worker
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.run(ctx, c, rConfig, workCh, resultsCh)
		}()
	}
	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	// Send work
	go func() {
		defer close(workCh)
		for _, e := range c.Experiments {
			for run := 0; run < rConfig.Runs; run++ {
				select {
				case <-ctx.Done():
					return
				case workCh <- &parallelWork{experiment: e, run: run}:
				}
			}
		}
	}()

	// Gather results
	outputs := make(map[string][]*runOutput)
	for _, e := range c.Experiments {
		outputs[e.Name] = make([]*runOutput, rConfig.Runs)
	}
	var firstErr error
	remaining := len(c.Experiments) * rConfig.Runs
	for result := range resultsCh {
		if result.err != nil {
			if firstErr == nil {
				firstErr = result.err
				cancel()
			}
			continue
		}
		outputs[result.experimentName][result.run] = result.output
		remaining--
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if remaining > 0 {
		// cancelled from the outside before every run completed
		return nil, ctx.Err()
	}
	printer.Write(fmt.Sprintf("Completed %d runs of %d experiments\n", rConfig.Runs, len(c.Experiments)))
	return c.report(rConfig, outputs)
}
