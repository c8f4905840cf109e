// Package cmd implements the glint command line.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/glint-player/glint/constant"
	"github.com/glint-player/glint/icon"
	"github.com/glint-player/glint/key"
	"github.com/glint-player/glint/log"
	"github.com/glint-player/glint/style"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Icon variant (emoji, plain, nerd)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.Flags().Bool("no-ipc", false, "Do not serve the UI websocket transport")
	rootCmd.Flags().StringP("listen", "l", "", "Address of the UI websocket transport")
	lo.Must0(viper.BindPFlag(key.IPCListen, rootCmd.Flags().Lookup("listen")))

	rootCmd.Flags().BoolP("tui", "t", false, "Show the terminal playback panel")
	lo.Must0(viper.BindPFlag(key.TUIEnable, rootCmd.Flags().Lookup("tui")))

	rootCmd.Flags().Int("width", 0, "Initial window width")
	rootCmd.Flags().Int("height", 0, "Initial window height")
	lo.Must0(viper.BindPFlag(key.WindowWidth, rootCmd.Flags().Lookup("width")))
	lo.Must0(viper.BindPFlag(key.WindowHeight, rootCmd.Flags().Lookup("height")))
}

var rootCmd = &cobra.Command{
	Use:   constant.App + " [media]",
	Short: "A composited media player shell around mpv",
	Long: style.Title(constant.App) + "\n\n" +
		style.New().Italic(true).Foreground(style.Mauve).Render("Plays media through mpv and composites a UI overlay on top of every frame."),
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		options := runOptions{
			ipc: viper.GetBool(key.IPCEnable) && !lo.Must(cmd.Flags().GetBool("no-ipc")),
		}
		if len(args) > 0 {
			options.media = args[0]
		}

		handleErr(run(cmd.Context(), options))
	},
}

// Execute runs the command tree.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
