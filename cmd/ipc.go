package cmd

import (
	"encoding/json"
	"os"

	"github.com/glint-player/glint/ipc"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(ipcCmd)
	ipcCmd.AddCommand(ipcSchemaCmd)

	ipcSchemaCmd.Flags().BoolP("response", "r", false, "Describe responses instead of requests")
	ipcSchemaCmd.SetOut(os.Stdout)
}

var ipcCmd = &cobra.Command{
	Use:   "ipc",
	Short: "UI transport utilities",
}

var ipcSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of transport messages",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.DoNotReference = true

		var schema *jsonschema.Schema
		if lo.Must(cmd.Flags().GetBool("response")) {
			schema = reflector.Reflect(&ipc.Response{})
		} else {
			schema = reflector.Reflect(&ipc.Request{})
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}
