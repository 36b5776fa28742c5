// Field commands for the formdef CLI: add a field to a form, remove one.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldwright/formdef/pkg/types"
)

var (
	fieldAddForm        string
	fieldAddName        string
	fieldAddLabel       string
	fieldAddDescription string
	fieldAddType        string

	fieldRemoveForm string
)

var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Manage the fields of a form",
}

var fieldAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a field to a form",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !types.IsValidFieldType(fieldAddType) {
			fmt.Fprintf(os.Stderr, "invalid field type %q (valid: %s, %s, %s, %s)\n",
				fieldAddType, types.FieldTypeText, types.FieldTypeBoolean,
				types.FieldTypeSelect, types.FieldTypeFile)
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "field add:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		frm := getForm(backend, fieldAddForm)

		f := &types.Field{
			Name:        fieldAddName,
			Label:       fieldAddLabel,
			Description: fieldAddDescription,
			Type:        fieldAddType,
		}
		if err := frm.AddField(f); err != nil {
			fmt.Fprintf(os.Stderr, "add field: %s\n", err)
			os.Exit(exitUserError)
		}

		saveForm(backend, frm)

		if flagJSON {
			printJSON(f)
		} else {
			fmt.Printf("Added field %q to form %s: %s\n", f.Name, frm.FormID, f.FieldID)
		}
		return nil
	},
}

var fieldRemoveCmd = &cobra.Command{
	Use:   "remove <field-id>",
	Short: "Remove a field from a form",
	Long: `Remove archives the field within its form. Any other field whose
visibility condition links to the removed field has that condition cleared.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fieldID := args[0]

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "field remove:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		frm := getForm(backend, fieldRemoveForm)

		target := frm.FieldByID(fieldID)
		if target == nil {
			fmt.Fprintf(os.Stderr, "field %q not found in form %s\n", fieldID, frm.FormID)
			os.Exit(exitUserError)
		}
		if err := frm.RemoveField(target); err != nil {
			fmt.Fprintf(os.Stderr, "remove field: %s\n", err)
			os.Exit(exitUserError)
		}

		saveForm(backend, frm)

		if flagJSON {
			printJSON(frm)
		} else {
			fmt.Printf("Removed field %s from form %s\n", fieldID, frm.FormID)
		}
		return nil
	},
}

func init() {
	fieldAddCmd.Flags().StringVar(&fieldAddForm, "form", "", "form ID (required)")
	fieldAddCmd.Flags().StringVar(&fieldAddName, "name", "", "field name (required)")
	fieldAddCmd.Flags().StringVar(&fieldAddLabel, "label", "", "display label")
	fieldAddCmd.Flags().StringVar(&fieldAddDescription, "description", "", "field description")
	fieldAddCmd.Flags().StringVar(&fieldAddType, "type", "", "field type (text, boolean, select, file)")
	fieldAddCmd.MarkFlagRequired("form")
	fieldAddCmd.MarkFlagRequired("name")
	fieldAddCmd.MarkFlagRequired("type")

	fieldRemoveCmd.Flags().StringVar(&fieldRemoveForm, "form", "", "form ID (required)")
	fieldRemoveCmd.MarkFlagRequired("form")

	fieldCmd.AddCommand(fieldAddCmd)
	fieldCmd.AddCommand(fieldRemoveCmd)
}
