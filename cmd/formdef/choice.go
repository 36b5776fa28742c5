// Choice command for the formdef CLI: add a choice to a select field.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldwright/formdef/pkg/types"
)

var (
	choiceAddField string
	choiceAddLabel string
)

var choiceCmd = &cobra.Command{
	Use:   "choice",
	Short: "Manage the choices of a select field",
}

var choiceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a choice to a select field",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "choice add:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		fieldsTable, err := backend.GetTable(types.TableFields)
		if err != nil {
			fmt.Fprintln(os.Stderr, "get table:", err)
			os.Exit(exitSysError)
		}

		entity, err := fieldsTable.Get(choiceAddField)
		if err != nil {
			if isEntityNotFound(err) {
				fmt.Fprintf(os.Stderr, "field %q not found\n", choiceAddField)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "get field:", err)
			os.Exit(exitSysError)
		}
		f := entity.(*types.Field)
		if f.Type != types.FieldTypeSelect {
			fmt.Fprintf(os.Stderr, "field %q is %s, not %s\n", choiceAddField, f.Type, types.FieldTypeSelect)
			os.Exit(exitUserError)
		}

		propsTable, err := backend.GetTable(types.TableProperties)
		if err != nil {
			fmt.Fprintln(os.Stderr, "get table:", err)
			os.Exit(exitSysError)
		}

		// A select field without a properties record gets one on first use.
		if f.PropertiesID == "" {
			propsID, err := propsTable.Set("", &types.SelectFieldProperties{})
			if err != nil {
				fmt.Fprintln(os.Stderr, "create properties:", err)
				os.Exit(exitSysError)
			}
			f.PropertiesID = propsID
			if _, err := fieldsTable.Set(f.FieldID, f); err != nil {
				fmt.Fprintln(os.Stderr, "save field:", err)
				os.Exit(exitSysError)
			}
		}

		choice := &types.SelectFieldChoice{
			PropertiesID: f.PropertiesID,
			Label:        choiceAddLabel,
		}
		choiceID, err := propsTable.Set("", choice)
		if err != nil {
			fmt.Fprintf(os.Stderr, "add choice: %s\n", err)
			os.Exit(exitUserError)
		}

		if flagJSON {
			printJSON(choice)
		} else {
			fmt.Printf("Added choice %q to field %s: %s\n", choiceAddLabel, f.FieldID, choiceID)
		}
		return nil
	},
}

func init() {
	choiceAddCmd.Flags().StringVar(&choiceAddField, "field", "", "field ID (required)")
	choiceAddCmd.Flags().StringVar(&choiceAddLabel, "label", "", "choice label (required)")
	choiceAddCmd.MarkFlagRequired("field")
	choiceAddCmd.MarkFlagRequired("label")

	choiceCmd.AddCommand(choiceAddCmd)
}
