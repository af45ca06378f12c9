package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"vantage/internal/tui/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Open the interactive dashboard",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := newState()
		if !st.IsAuthenticated() {
			return fmt.Errorf("not logged in; run 'vantage login' first")
		}

		p := tea.NewProgram(dashboard.NewModel(st), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
