// List command for the formdef CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldwright/formdef/pkg/types"
)

var listArchived bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List forms",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "list:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		table, err := backend.GetTable(types.TableForms)
		if err != nil {
			fmt.Fprintln(os.Stderr, "get table:", err)
			os.Exit(exitSysError)
		}

		filter := map[string]any{}
		if !listArchived {
			filter["archived"] = false
		}
		results, err := table.Fetch(filter)
		if err != nil {
			fmt.Fprintln(os.Stderr, "fetch forms:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			printJSON(results)
			return nil
		}

		if len(results) == 0 {
			fmt.Println("No forms")
			return nil
		}
		for _, r := range results {
			frm := r.(*types.Form)
			live := 0
			for _, f := range frm.Fields {
				if !f.Archived {
					live++
				}
			}
			marker := ""
			if frm.Archived {
				marker = " (archived)"
			}
			fmt.Printf("%s  %s%s  [%d fields]\n", frm.FormID, frm.Title, marker, live)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listArchived, "all", false, "include archived forms")
}
