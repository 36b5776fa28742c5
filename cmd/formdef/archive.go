// Archive command for the formdef CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive <form-id>",
	Short: "Archive a form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "archive:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		frm := getForm(backend, args[0])
		frm.SetArchived()
		saveForm(backend, frm)

		if flagJSON {
			printJSON(frm)
		} else {
			fmt.Printf("Archived form: %s\n", frm.FormID)
		}
		return nil
	},
}
