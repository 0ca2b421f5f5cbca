package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/bandits/analysis"
	"github.com/zeu5/bandits/experiments/testbed"
	erand "golang.org/x/exp/rand"
)

func InspectCommand() *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the arms of the bandit drawn from the flags and seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := testbed.NewBandit(flags, erand.New(erand.NewSource(flags.Seed)))
			if err != nil {
				return err
			}
			cmd.Printf("Seed: %d\n", flags.Seed)
			env.Inspect(cmd.OutOrStdout(), !noColor)
			if !flags.Charts {
				return nil
			}
			return analysis.NewDistributionReporter(flags.SavePath, flags.DistributionSamples).Render(env)
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}
