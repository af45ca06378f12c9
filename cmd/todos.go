package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vantage/internal/output"
)

var (
	todoJSON bool
	todoDesc string
)

var todosCmd = &cobra.Command{
	Use:     "todos",
	Aliases: []string{"todo"},
	Short:   "Manage your application checklist",
	GroupID: "applications",
}

var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List checklist items",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := requireAuth()
		if err != nil {
			return err
		}

		todos := st.Todos()
		if todoJSON {
			return output.JSON(todos)
		}
		if len(todos) == 0 {
			fmt.Println("Checklist is empty. Locking a university generates one.")
			return nil
		}
		for _, t := range todos {
			fmt.Println(output.TodoLine(t))
		}
		return nil
	},
}

var todoAddCmd = &cobra.Command{
	Use:   "add <title>...",
	Short: "Add a checklist item",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := requireAuth()
		if err != nil {
			return err
		}

		title := strings.Join(args, " ")
		if err := st.AddTodo(title, todoDesc); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Added: %s", title)
		return nil
	},
}

var todoToggleCmd = &cobra.Command{
	Use:     "toggle <id>",
	Aliases: []string{"done"},
	Short:   "Toggle a checklist item between pending and done",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid todo id %q", args[0])
		}

		st, err := requireAuth()
		if err != nil {
			return err
		}

		if err := st.ToggleTodo(id); err != nil {
			output.Error("%v", err)
			return err
		}
		for _, t := range st.Todos() {
			if t.ID == id {
				fmt.Println(output.TodoLine(t))
				return nil
			}
		}
		return fmt.Errorf("todo %d not found", id)
	},
}

func init() {
	todoListCmd.Flags().BoolVar(&todoJSON, "json", false, "output as JSON")
	todoAddCmd.Flags().StringVarP(&todoDesc, "desc", "d", "", "item description")

	todosCmd.AddCommand(todoListCmd)
	todosCmd.AddCommand(todoAddCmd)
	todosCmd.AddCommand(todoToggleCmd)
	rootCmd.AddCommand(todosCmd)
}
