package cmd

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/mashup-cli/mashup/mashup"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

// schemaCmd prints the JSON schema of the report written by --json.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the run report",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.ExpandedStruct = true

		schema := reflector.Reflect(&mashup.Report{})
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}
