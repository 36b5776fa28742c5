// Show command for the formdef CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldwright/formdef/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show <form-id>",
	Short: "Display a form with its fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "show:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		frm := getForm(backend, args[0])

		if flagJSON {
			printJSON(frm)
			return nil
		}

		fmt.Printf("ID:          %s\n", frm.FormID)
		fmt.Printf("Title:       %s\n", frm.Title)
		if frm.Description != "" {
			fmt.Printf("Description: %s\n", frm.Description)
		}
		fmt.Printf("Archived:    %v\n", frm.Archived)

		fields := frm.GetFields(false)
		if len(fields) == 0 {
			fmt.Println("\nNo fields")
			return nil
		}
		fmt.Println("\nFields:")
		for _, f := range fields {
			label := f.Label
			if label == "" {
				label = f.Name
			}
			fmt.Printf("  %s  %s (%s)\n", f.FieldID, label, f.Type)
			if c := f.Condition; c != nil {
				fmt.Printf("    visible when %s %s\n", c.LinkedFieldID, describeCondition(c))
			}
		}
		return nil
	},
}

// describeCondition renders a field condition in a short human-readable form.
func describeCondition(c *types.Condition) string {
	switch {
	case c.MatchValueStr != nil:
		return fmt.Sprintf("= %q", *c.MatchValueStr)
	case c.MatchValueInt != nil:
		return fmt.Sprintf("= %d", *c.MatchValueInt)
	case c.MatchValueBool != nil:
		return fmt.Sprintf("= %v", *c.MatchValueBool)
	case c.HasValue != nil && *c.HasValue:
		return "has a value"
	case c.HasValue != nil:
		return "has no value"
	default:
		return "(empty condition)"
	}
}
