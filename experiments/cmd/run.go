package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/zeu5/bandits/core"
	"github.com/zeu5/bandits/experiments/testbed"
	"github.com/zeu5/bandits/policies"
)

func RunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compare the algorithms given with --algorithms",
		RunE: func(cmd *cobra.Command, args []string) error {
			algorithms, err := testbed.CustomAlgorithms(flags)
			if err != nil {
				return err
			}
			return runComparison(cmd, algorithms)
		},
	}

	return cmd
}

func TestbedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "testbed",
		Short: "Compare random, perfect, greedy, e_greedy (0.01, 0.1) and UCB (c=2)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComparison(cmd, testbed.TestbedAlgorithms(flags))
		},
	}

	return cmd
}

func runComparison(cmd *cobra.Command, algorithms []policies.Algorithm) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os
	defer signal.Stop(sigCh)

	doneCh := make(chan struct{}) // channel for done signal from application

	ctx, cancel := context.WithCancel(cmd.Context())
	go func() {
		select {
		case <-sigCh:
		case <-doneCh:
		}
		cancel()
	}()
	defer close(doneCh)

	report, err := testbed.Run(ctx, flags, algorithms, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	printSummary(report)
	return nil
}

func printSummary(report *core.Report) {
	for _, label := range report.Labels {
		result := report.Results[label]
		optimal := result.OptimalPercentages()
		log.Printf("%s: final mean reward %.3f, optimal action %.1f%%", label, result.MeanRewards()[report.Steps-1], optimal[report.Steps-1])
	}
	log.Printf("Results saved to %s", flags.SavePath)
}
