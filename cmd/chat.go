package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vantage/internal/output"
)

var chatCmd = &cobra.Command{
	Use:     "chat <message>...",
	Short:   "Ask the AI counsellor a question",
	GroupID: "counsellor",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := requireAuth()
		if err != nil {
			return err
		}

		reply, err := st.SendChat(strings.Join(args, " "))
		if err != nil {
			output.Error("%v", err)
			return err
		}
		fmt.Println(output.Markdown(reply.Content))
		return nil
	},
}

var sopCmd = &cobra.Command{
	Use:     "sop <university-id>",
	Short:   "Generate a statement-of-purpose draft for a university",
	GroupID: "counsellor",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid university id %q", args[0])
		}

		st, err := requireAuth()
		if err != nil {
			return err
		}

		resp, err := st.Client().GenerateSOP(id)
		if err != nil {
			output.Error("generate sop: %v", err)
			return err
		}
		fmt.Println(output.Markdown(resp.SOPContent))
		return nil
	},
}

var strategyCmd = &cobra.Command{
	Use:     "strategy <university-id>",
	Short:   "Generate an application strategy for a university",
	GroupID: "counsellor",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid university id %q", args[0])
		}

		st, err := requireAuth()
		if err != nil {
			return err
		}

		resp, err := st.Client().GenerateStrategy(id)
		if err != nil {
			output.Error("generate strategy: %v", err)
			return err
		}
		for _, point := range resp.StrategyPoints {
			fmt.Println(output.Markdown("- " + point))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sopCmd)
	rootCmd.AddCommand(strategyCmd)
}
