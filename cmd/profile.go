package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"vantage/internal/api"
	"vantage/internal/output"
)

var profileJSON bool

var profileCmd = &cobra.Command{
	Use:     "profile",
	Short:   "Show your counselling profile",
	GroupID: "profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := requireAuth()
		if err != nil {
			return err
		}

		profile := st.Profile()
		if profile == nil {
			fmt.Println("Onboarding not completed. Run 'vantage onboard' to build your profile.")
			return nil
		}
		if profileJSON {
			return output.JSON(profile)
		}

		output.Title("Profile")
		fmt.Printf("  Education:     %s\n", profile.Degree)
		fmt.Printf("  GPA:           %s\n", profile.GPA)
		fmt.Printf("  Target intake: %s\n", profile.TargetIntake)
		fmt.Printf("  Countries:     %s\n", strings.Join(profile.Countries, ", "))
		fmt.Printf("  Budget:        %s\n", profile.BudgetRange)
		fmt.Printf("  Exams:         %s\n", profile.ExamStatus)
		if profile.IELTSScore != "" {
			fmt.Printf("  IELTS/TOEFL:   %s\n", profile.IELTSScore)
		}
		if profile.GREScore != "" {
			fmt.Printf("  GRE/GMAT:      %s\n", profile.GREScore)
		}
		fmt.Printf("  SOP:           %s\n", profile.SOPStatus)
		fmt.Println()
		output.Info("Stage: %s", st.Stage().Label())
		return nil
	},
}

var onboardCmd = &cobra.Command{
	Use:     "onboard",
	Short:   "Build or update your profile through the onboarding questionnaire",
	GroupID: "profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := newState()
		if !st.IsAuthenticated() {
			return fmt.Errorf("not logged in; run 'vantage login' first")
		}

		var (
			education  string
			gpa        string
			intakeYear string
			countries  string
			budget     string
			ieltsState string
			ieltsScore string
			greState   string
			greScore   string
			sopState   string
		)

		statusOptions := []huh.Option[string]{
			huh.NewOption("Not started", "Not started"),
			huh.NewOption("In progress", "In progress"),
			huh.NewOption("Completed", "Completed"),
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Current education level").
					Options(
						huh.NewOption("High school", "High School"),
						huh.NewOption("Bachelor's", "Bachelors"),
						huh.NewOption("Master's", "Masters"),
					).
					Value(&education),
				huh.NewInput().Title("GPA (e.g. 3.4)").Value(&gpa),
				huh.NewInput().Title("Target intake year").Value(&intakeYear),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Preferred countries (comma-separated)").
					Description("e.g. usa, uk, germany").
					Value(&countries),
				huh.NewInput().Title("Budget per year (USD)").Value(&budget),
			),
			huh.NewGroup(
				huh.NewSelect[string]().Title("IELTS/TOEFL status").Options(statusOptions...).Value(&ieltsState),
				huh.NewInput().Title("IELTS/TOEFL score (blank if none)").Value(&ieltsScore),
				huh.NewSelect[string]().Title("GRE/GMAT status").Options(statusOptions...).Value(&greState),
				huh.NewInput().Title("GRE/GMAT score (blank if none)").Value(&greScore),
				huh.NewSelect[string]().
					Title("Statement of purpose").
					Options(
						huh.NewOption("Not started", "not-started"),
						huh.NewOption("Draft", "draft"),
						huh.NewOption("Ready", "ready"),
					).
					Value(&sopState),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}

		rec := &api.OnboardingRecord{
			CurrentEducationLevel: education,
			PreferredCountries:    countries,
			IELTSStatus:           ieltsState,
			GREStatus:             greState,
			SOPStatus:             sopState,
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(gpa), 64); err == nil {
			rec.GPA = v
		}
		if v, err := strconv.Atoi(strings.TrimSpace(intakeYear)); err == nil {
			rec.TargetIntakeYear = v
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(budget), 64); err == nil {
			rec.BudgetPerYear = v
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(ieltsScore), 64); err == nil {
			rec.IELTSScore = &v
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(greScore), 64); err == nil {
			rec.GREScore = &v
		}

		if err := st.SaveProfile(rec); err != nil {
			output.Error("save profile: %v", err)
			return err
		}
		output.Success("Profile saved.")
		return nil
	},
}

func init() {
	profileCmd.Flags().BoolVar(&profileJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(onboardCmd)
}
