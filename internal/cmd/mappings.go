package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citykit/mcrbatch/internal/routing"
)

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Inspect location mapping files",
}

var mappingsValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check that a mappings file parses and has unique cell IDs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mappings, err := routing.LoadMappings(args[0])
		if err != nil {
			return err
		}
		if err := routing.ValidateMappings(mappings); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d mappings, all cell IDs unique\n", args[0], len(mappings))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mappingsCmd)
	mappingsCmd.AddCommand(mappingsValidateCmd)
}
