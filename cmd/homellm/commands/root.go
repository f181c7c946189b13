// Package commands implements the homellm CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/spherical/homellm/cmd/homellm/ui"
	"github.com/spherical/homellm/internal/domain"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "homellm",
	Short: "HomeLLM - draft escalation emails for housing and environmental issues",
	Long: `HomeLLM composes escalation emails for indoor environmental and housing issues.
It parses water-quality lab results, checks them against drinking water limits,
and folds regulatory guidance for the recipient and state into the draft.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ui.InitUI(noColor)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ErrorMessage is the text printed for a failed command.
func ErrorMessage(err error) string {
	return domain.UserMessage(err)
}
