package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/glint-player/glint/constant"
	"github.com/glint-player/glint/icon"
	"github.com/glint-player/glint/key"
	"github.com/glint-player/glint/style"
	"github.com/glint-player/glint/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that mpv is installed and recent enough",
	Run: func(cmd *cobra.Command, args []string) {
		v := CheckDependencies()
		cmd.Printf("%s mpv %s\n", style.Fg(style.Green)(icon.Get(icon.Success)), v)
	},
}

// CheckDependencies exits with a hint when the configured mpv binary is missing or too old.
// It returns the detected mpv release.
func CheckDependencies() string {
	binary := viper.GetString(key.PlayerBinary)

	v, err := version.Engine(binary)
	if err != nil {
		printDependencyError(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", binary), installHint())
		os.Exit(1)
	}

	if !version.Supported(v) {
		printDependencyError(
			fmt.Sprintf("%s needs mpv %s or newer, found %s.", constant.App, version.MinEngine, v),
			installHint(),
		)
		os.Exit(1)
	}

	return v
}

func installHint() string {
	switch runtime.GOOS {
	case constant.Darwin:
		return "brew install mpv"
	case constant.Linux:
		return "sudo apt install mpv"
	case constant.Windows:
		return "scoop install mpv"
	default:
		return ""
	}
}

func printDependencyError(message, install string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.ErrorColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(icon.Get(icon.Fail) + " Missing dependency")
	body := style.New().Foreground(style.Text).Render(message)

	suggestion := ""
	if install != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(install))
	}

	fmt.Println(box.Render(lipgloss.JoinVertical(lipgloss.Left, title, "\n", body, suggestion)))
}
