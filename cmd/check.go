package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/reelroom/reelroom/constant"
	"github.com/reelroom/reelroom/icon"
	"github.com/reelroom/reelroom/key"
	"github.com/reelroom/reelroom/media/mpv"
	"github.com/reelroom/reelroom/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the media player backend is installed",
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()
		fmt.Printf("%s %s found\n", icon.Get(icon.Success), viper.GetString(key.PlayerBinary))
	},
}

// CheckDependencies exits when the configured mpv binary is missing.
func CheckDependencies() {
	binary := viper.GetString(key.PlayerBinary)
	if !mpv.Available(binary) {
		fmt.Println(missingDependency(binary, runtime.GOOS))
		os.Exit(1)
	}
}

func installHint(goos string) string {
	switch goos {
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

func missingDependency(dep, goos string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The media player '%s' was not found in your PATH.", dep))

	suggestion := ""
	if hint := installHint(goos); hint != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(hint))
	}

	return box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	)
}
