package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/glint-player/glint/property"
	"github.com/glint-player/glint/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(propsCmd)
	propsCmd.Flags().StringP("kind", "k", "", "Only list properties of this kind (float, bool, string)")
	propsCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	lo.Must0(propsCmd.RegisterFlagCompletionFunc("kind", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{property.KindFloat.String(), property.KindBool.String(), property.KindString.String()}, cobra.ShellCompDirectiveNoFileComp
	}))

	propsCmd.SetOut(os.Stdout)
}

var propsCmd = &cobra.Command{
	Use:   "props [query]",
	Short: "List the engine properties the UI may observe or set",
	Args:  cobra.MaximumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return property.Search(toComplete, 0), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		var kind property.Kind
		if raw := lo.Must(cmd.Flags().GetString("kind")); raw != "" {
			k, ok := property.ParseKind(raw)
			if !ok {
				handleErr(fmt.Errorf("unknown kind %s", style.Fg(style.Red)(raw)))
			}
			kind = k
		}

		var query string
		if len(args) > 0 {
			query = args[0]
		}

		names := property.Search(query, kind)

		if lo.Must(cmd.Flags().GetBool("json")) {
			out := lo.Map(names, func(name string, _ int) map[string]string {
				k, _ := property.Lookup(name)
				return map[string]string{"name": name, "kind": k.String()}
			})
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(out))
			return
		}

		kindStyle := map[property.Kind]func(string) string{
			property.KindFloat:  style.Fg(style.Blue),
			property.KindBool:   style.Fg(style.Green),
			property.KindString: style.Fg(style.Yellow),
		}

		for _, name := range names {
			k, _ := property.Lookup(name)
			cmd.Printf("%s %s\n", style.Fg(style.Mauve)(name), kindStyle[k](k.String()))
		}
	},
}
