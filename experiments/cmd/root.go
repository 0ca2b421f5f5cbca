package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func RootCommand() *cobra.Command {
	// .env values become the flag defaults
	for _, envFile := range []string{".env", "../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	if err := flags.ApplyEnv(); err != nil {
		log.Printf("Ignoring environment: %s", err)
	}

	cmd := &cobra.Command{
		Use:   "bandits",
		Short: "Compare exploration strategies on the n-armed bandit problem",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			UpdateFlags()
			return flags.Record()
		},
		SilenceUsage: true,
	}
	AddFlags(cmd)

	cmd.AddCommand(
		RunCommand(),
		TestbedCommand(),
		InspectCommand(),
	)

	return cmd
}
