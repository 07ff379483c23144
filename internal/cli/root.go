package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Adaptive pattern learning for your schedule",
	Long:  "Cadence watches how you respond to scheduling suggestions, forms hypotheses about your preferences, tests them, and turns confirmed ones into automatic behavior. Single Go binary, local sqlite storage.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(learningsCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(hypothesesCmd)
	rootCmd.AddCommand(interactionsCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(forgetCmd)
	rootCmd.AddCommand(dismissCmd)
}
