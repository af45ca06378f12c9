package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vantage/internal/output"
)

var docsJSON bool

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Application document checklists for locked universities",
	GroupID: "applications",
}

var docsListCmd = &cobra.Command{
	Use:   "list <university-id>",
	Short: "List required documents for a locked university",
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

		// Documents are screen-scoped: fetched fresh, never cached in the
		// global state.
		docs, err := st.Client().ListDocuments(id)
		if err != nil {
			output.Error("list documents: %v", err)
			return err
		}
		if docsJSON {
			return output.JSON(docs)
		}
		if len(docs) == 0 {
			fmt.Println("No documents. Is the university locked?")
			return nil
		}
		for _, d := range docs {
			box := "[ ]"
			if d.IsCompleted {
				box = "[x]"
			}
			fmt.Printf("%s %s  #%d\n", box, d.Name, d.ID)
		}
		return nil
	},
}

var docsCheckCmd = &cobra.Command{
	Use:   "check <document-id>",
	Short: "Mark a document complete",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentUpdate(true),
}

var docsUncheckCmd = &cobra.Command{
	Use:   "uncheck <document-id>",
	Short: "Mark a document incomplete",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentUpdate(false),
}

func runDocumentUpdate(completed bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid document id %q", args[0])
		}

		st, err := requireAuth()
		if err != nil {
			return err
		}

		doc, err := st.Client().UpdateDocument(id, completed)
		if err != nil {
			output.Error("update document: %v", err)
			return err
		}
		if doc.IsCompleted {
			output.Success("Done: %s", doc.Name)
		} else {
			output.Info("Reopened: %s", doc.Name)
		}
		return nil
	}
}

func init() {
	docsListCmd.Flags().BoolVar(&docsJSON, "json", false, "output as JSON")

	documentsCmd.AddCommand(docsListCmd)
	documentsCmd.AddCommand(docsCheckCmd)
	documentsCmd.AddCommand(docsUncheckCmd)
	rootCmd.AddCommand(documentsCmd)
}
