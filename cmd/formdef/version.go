// Version command for the formdef CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldwright/formdef/pkg/formdef"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the formdef version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("formdef", formdef.Version)
	},
}
