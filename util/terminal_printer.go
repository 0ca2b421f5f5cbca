package util

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

type TerminalPrinter struct {
	parallelOutputs []*ParallelOutput
	frequency       time.Duration
	doneCh          chan struct{}
	stoppedCh       chan struct{}
	stopOnce        sync.Once

	writer  *uilive.Writer
	writers []io.Writer
}

// NewTerminalPrinter creates a printer that refreshes its outputs on out
// every frequency. Outputs are rendered in place when out is a terminal.
func NewTerminalPrinter(out io.Writer, frequency time.Duration) *TerminalPrinter {
	writer := uilive.New()
	writer.Out = out
	return &TerminalPrinter{
		parallelOutputs: make([]*ParallelOutput, 0),
		frequency:       frequency,
		doneCh:          make(chan struct{}),
		stoppedCh:       make(chan struct{}),

		writer:  writer,
		writers: make([]io.Writer, 0),
	}
}

func (t *TerminalPrinter) NewOutput() *ParallelOutput {
	out := NewParallelOutput()
	t.parallelOutputs = append(t.parallelOutputs, out)
	t.writers = append(t.writers, t.writer.Newline())
	return out
}

// Start refreshes the outputs in the background until Stop is called or ctx is done.
// All outputs must be created before Start.
func (p *TerminalPrinter) Start(ctx context.Context) {
	go func() {
		defer close(p.stoppedCh)
		for {
			select {
			case <-p.doneCh:
				p.print()
				return
			case <-ctx.Done():
				p.print()
				return
			case <-time.After(p.frequency):
				p.print()
			}
		}
	}()
}

// Stop prints the outputs one last time and waits for the refresh loop to exit
func (p *TerminalPrinter) Stop() {
	p.stopOnce.Do(func() {
		close(p.doneCh)
		<-p.stoppedCh
	})
}

func (p *TerminalPrinter) Write(out string) {
	fmt.Fprintf(p.writer, "%s", out)
	p.writer.Flush()
}

func (p *TerminalPrinter) print() {
	for i, output := range p.parallelOutputs {
		s := output.Get()
		fmt.Fprint(p.writers[i], s+"\n")
	}
	p.writer.Flush()
}

// PARALLEL OUTPUT
// used to update and print experiment outputs
type ParallelOutput struct {
	mu        *sync.Mutex
	printable string
}

func NewParallelOutput() *ParallelOutput {
	return &ParallelOutput{
		mu:        new(sync.Mutex),
		printable: "",
	}
}

// Set the output string (blocking)
func (p *ParallelOutput) Set(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printable = s
}

// Try to set the output string (non-blocking)
func (p *ParallelOutput) TrySet(s string) bool {
	success := p.mu.TryLock()
	if success {
		defer p.mu.Unlock()
		p.printable = s
		// fmt.Printf("output set to: %s\n", p.printable)
		return true
	}
	return false
}

// Get the output string (blocking)
func (p *ParallelOutput) Get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printable
}
