package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// SetVersion sets the version string
func SetVersion(v string) {
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "vantage",
	Short: "Study-abroad counselling from the terminal",
	Long: `vantage - a terminal client for the study-abroad counselling platform.

Log in, build your profile, discover and shortlist universities, lock your
final choices, work through application checklists, and talk to the AI
counsellor - all without leaving the terminal.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "auth", Title: "Account Commands:"},
		&cobra.Group{ID: "profile", Title: "Profile Commands:"},
		&cobra.Group{ID: "discovery", Title: "Discovery Commands:"},
		&cobra.Group{ID: "applications", Title: "Application Commands:"},
		&cobra.Group{ID: "counsellor", Title: "Counsellor Commands:"},
		&cobra.Group{ID: "system", Title: "System Commands:"},
	)
	rootCmd.SetHelpCommandGroupID("system")
	rootCmd.SetCompletionCommandGroupID("system")
}
