package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"vantage/internal/authstore"
	"vantage/internal/output"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Log in to the counselling platform",
	GroupID: "auth",
	RunE: func(cmd *cobra.Command, args []string) error {
		email := loginEmail
		password := loginPassword

		if email == "" || password == "" {
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().Title("Email").Value(&email),
					huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}
		}
		if email == "" || password == "" {
			return fmt.Errorf("email and password required")
		}

		st := newState()
		if err := st.Login(email, password); err != nil {
			output.Error("login: %v", err)
			return err
		}
		output.Success("Logged in as %s", email)
		return nil
	},
}

var googleLoginCmd = &cobra.Command{
	Use:     "google-login <credential>",
	Short:   "Log in with a Google identity credential",
	GroupID: "auth",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := newState()
		if err := st.GoogleLogin(args[0]); err != nil {
			output.Error("google login: %v", err)
			return err
		}
		output.Success("Logged in")
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:     "signup",
	Short:   "Create an account and log in",
	GroupID: "auth",
	RunE: func(cmd *cobra.Command, args []string) error {
		var email, fullName, password string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Full name").Value(&fullName),
				huh.NewInput().Title("Email").Value(&email),
				huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
		if email == "" || fullName == "" || password == "" {
			return fmt.Errorf("all fields required")
		}

		st := newState()
		if err := st.Signup(email, fullName, password); err != nil {
			output.Error("signup: %v", err)
			return err
		}
		output.Success("Account created; logged in as %s", email)
		output.Info("Run 'vantage onboard' to build your profile.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Log out and clear all local session state",
	GroupID: "auth",
	RunE: func(cmd *cobra.Command, args []string) error {
		newState().Logout()
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the authenticated account",
	GroupID: "auth",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !authstore.IsAuthenticated() {
			fmt.Println("Not logged in.")
			return nil
		}
		st := newState()
		user, err := st.Client().Me()
		if err != nil {
			output.Error("identity check: %v", err)
			return err
		}
		fmt.Printf("Email: %s\n", user.Email)
		fmt.Printf("Name:  %s\n", user.FullName)
		return nil
	},
}

var accountDeleteCmd = &cobra.Command{
	Use:     "account-delete",
	Short:   "Permanently delete your account",
	GroupID: "auth",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := requireAuth()
		if err != nil {
			return err
		}

		fmt.Print("This permanently deletes your account and data. Type 'delete' to confirm: ")
		reader := bufio.NewReader(os.Stdin)
		confirm, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}
		if strings.TrimSpace(confirm) != "delete" {
			fmt.Println("Aborted.")
			return nil
		}

		if err := st.DeleteAccount(); err != nil {
			output.Error("delete account: %v", err)
			return err
		}
		output.Success("Account deleted.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(googleLoginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(accountDeleteCmd)
}
