// Package cli holds the facebank command tree.
package cli

import (
	"github.com/spf13/cobra"
	configx "github.com/tanpawarit/facebank-assistant/pkg/config"
)

// NewRootCommand creates the root command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:   "facebank",
		Short: "Accessible banking assistant demo",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configx.SetEnvFile(envFile)
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to an env file with FACEBANK, GROQ and UPSTASH settings (default ./.env when present)")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newChatCommand())

	return rootCmd
}
