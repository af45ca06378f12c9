package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vantage/internal/appconfig"
	"vantage/internal/output"
)

var (
	uniSearch  string
	uniCountry string
	uniJSON    bool
)

var universitiesCmd = &cobra.Command{
	Use:     "universities",
	Aliases: []string{"uni"},
	Short:   "Discover and manage universities",
	GroupID: "discovery",
}

var uniListCmd = &cobra.Command{
	Use:   "list",
	Short: "List universities matched to your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := requireAuth()
		if err != nil {
			return err
		}

		country := uniCountry
		if country == "" {
			country = appconfig.DefaultCountry()
		}
		if uniSearch != "" || country != "" {
			if err := st.LoadUniversities(uniSearch, country); err != nil {
				output.Error("load universities: %v", err)
				return err
			}
		}

		unis := st.Universities()
		if uniJSON {
			return output.JSON(unis)
		}
		if len(unis) == 0 {
			fmt.Println("No universities found.")
			return nil
		}
		for _, u := range unis {
			fmt.Println(output.UniversityLine(u))
		}
		return nil
	},
}

var uniShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show details for one university",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid university id %q", args[0])
		}

		st, err := requireAuth()
		if err != nil {
			return err
		}

		u, ok := st.University(id)
		if !ok {
			return fmt.Errorf("university %d not found", id)
		}
		fmt.Print(output.UniversityDetail(u))

		// Detail fetch is screen-scoped, not cached globally.
		if detail, err := st.Client().GetUniversityDetails(id); err == nil && detail.Description != "" {
			fmt.Println()
			fmt.Println(output.Markdown(detail.Description))
		}
		return nil
	},
}

var uniShortlistCmd = &cobra.Command{
	Use:   "shortlist <id>",
	Short: "Toggle a university on or off your shortlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runUniversityAction("shortlist"),
}

var uniLockCmd = &cobra.Command{
	Use:   "lock <id>",
	Short: "Lock a university as a final choice",
	Long: `Lock a university as a final choice.

Locking is a stronger commitment than shortlisting: the server generates an
application checklist for the university and your journey stage advances.`,
	Args: cobra.ExactArgs(1),
	RunE: runUniversityAction("lock"),
}

var uniUnlockCmd = &cobra.Command{
	Use:   "unlock <id>",
	Short: "Release a locked university",
	Args:  cobra.ExactArgs(1),
	RunE:  runUniversityAction("unlock"),
}

// runUniversityAction wires the three optimistic mutators to the CLI.
// One-shot commands surface mutation failures directly, unlike the
// dashboard where the revert is also visible as a snap-back.
func runUniversityAction(action string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid university id %q", args[0])
		}

		st, err := requireAuth()
		if err != nil {
			return err
		}

		u, ok := st.University(id)
		if !ok {
			return fmt.Errorf("university %d not found", id)
		}

		switch action {
		case "shortlist":
			if err := st.Shortlist(id); err != nil {
				output.Error("%v", err)
				return err
			}
			if after, ok := st.University(id); ok && after.IsShortlisted {
				output.Success("Shortlisted %s", u.Name)
			} else {
				output.Success("Removed %s from shortlist", u.Name)
			}
		case "lock":
			if err := st.Lock(id); err != nil {
				output.Error("%v", err)
				return err
			}
			output.Success("Locked %s", u.Name)
			output.Info("Stage: %s", st.Stage().Label())
		case "unlock":
			if err := st.Unlock(id); err != nil {
				output.Error("%v", err)
				return err
			}
			output.Success("Unlocked %s", u.Name)
		}
		return nil
	}
}

func init() {
	uniListCmd.Flags().StringVarP(&uniSearch, "search", "s", "", "search text")
	uniListCmd.Flags().StringVarP(&uniCountry, "country", "c", "", "country filter")
	uniListCmd.Flags().BoolVar(&uniJSON, "json", false, "output as JSON")

	universitiesCmd.AddCommand(uniListCmd)
	universitiesCmd.AddCommand(uniShowCmd)
	universitiesCmd.AddCommand(uniShortlistCmd)
	universitiesCmd.AddCommand(uniLockCmd)
	universitiesCmd.AddCommand(uniUnlockCmd)
	rootCmd.AddCommand(universitiesCmd)
}
