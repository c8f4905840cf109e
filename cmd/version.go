package cmd

import (
	"os"
	"runtime"
	"strings"
	"text/template"

	"github.com/glint-player/glint/constant"
	"github.com/glint-player/glint/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Only print the version number")
}

var versionTemplate = lo.Must(template.New("version").Funcs(map[string]any{
	"faint":  style.Faint,
	"bold":   style.Bold,
	"accent": style.Fg(style.Mauve),
}).Parse(`{{ accent "▇▇▇" }} {{ accent .App }}

  {{ faint "Version" }}     {{ bold .Version }}
  {{ faint "Revision" }}    {{ bold .Revision }}
  {{ faint "Built at" }}    {{ bold .BuiltAt }}
  {{ faint "Built by" }}    {{ bold .BuiltBy }}
  {{ faint "Platform" }}    {{ bold .OS }}/{{ bold .Arch }}
`))

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), struct {
			App, Version, Revision, BuiltAt, BuiltBy, OS, Arch string
		}{
			App:      constant.App,
			Version:  constant.Version,
			Revision: constant.Revision,
			BuiltAt:  strings.TrimSpace(constant.BuiltAt),
			BuiltBy:  constant.BuiltBy,
			OS:       runtime.GOOS,
			Arch:     runtime.GOARCH,
		}))
	},
}
