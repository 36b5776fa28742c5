// Create command for the formdef CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldwright/formdef/pkg/types"
)

var (
	createTitle       string
	createDescription string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new form",
	RunE: func(cmd *cobra.Command, args []string) error {
		if createTitle == "" {
			fmt.Fprintln(os.Stderr, "create: --title is required")
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "create:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		table, err := backend.GetTable(types.TableForms)
		if err != nil {
			fmt.Fprintln(os.Stderr, "get table:", err)
			os.Exit(exitSysError)
		}

		frm := &types.Form{
			Title:       createTitle,
			Description: createDescription,
		}

		formID, err := table.Set("", frm)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create form: %s\n", err)
			os.Exit(exitUserError)
		}

		if flagJSON {
			result, err := table.Get(formID)
			if err != nil {
				fmt.Fprintln(os.Stderr, "get created form:", err)
				os.Exit(exitSysError)
			}
			printJSON(result)
		} else {
			fmt.Printf("Created form: %s\n", formID)
		}

		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createTitle, "title", "", "form title (required)")
	createCmd.Flags().StringVar(&createDescription, "description", "", "form description")

	createCmd.MarkFlagRequired("title")
}
