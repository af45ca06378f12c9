package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vantage/internal/appconfig"
	"vantage/internal/authstore"
	"vantage/internal/models"
	"vantage/internal/output"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show session and journey status",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Server: %s\n", appconfig.ServerURL())

		if !authstore.IsAuthenticated() {
			fmt.Println("Not logged in.")
			return nil
		}

		st, err := requireAuth()
		if err != nil {
			return err
		}

		fmt.Println(output.StageLine(st.Stage()))
		fmt.Println()

		if !st.OnboardingCompleted() {
			output.Warning("Onboarding incomplete - run 'vantage onboard'")
		}

		unis := st.Universities()
		var shortlisted, locked int
		for _, u := range unis {
			if u.IsShortlisted {
				shortlisted++
			}
			if u.IsLocked {
				locked++
			}
		}
		var pending int
		for _, t := range st.Todos() {
			if t.Status != models.TodoDone {
				pending++
			}
		}

		fmt.Printf("Universities: %d matched, %d shortlisted, %d locked\n", len(unis), shortlisted, locked)
		fmt.Printf("Checklist:    %d open items\n", pending)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
