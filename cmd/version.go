package cmd

import (
	"encoding/json"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/reelroom/reelroom/color"
	"github.com/reelroom/reelroom/constant"
	"github.com/reelroom/reelroom/key"
	"github.com/reelroom/reelroom/media/mpv"
	"github.com/reelroom/reelroom/style"
	"github.com/reelroom/reelroom/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// buildInfo is the build metadata plus the playback backend it would drive.
type buildInfo struct {
	Version     string `json:"version"`
	Revision    string `json:"revision"`
	BuiltAt     string `json:"built_at"`
	BuiltBy     string `json:"built_by"`
	Platform    string `json:"platform"`
	Player      string `json:"player"`
	PlayerFound bool   `json:"player_found"`
	Config      string `json:"config"`
}

func currentBuild() buildInfo {
	binary := viper.GetString(key.PlayerBinary)
	return buildInfo{
		Version:     constant.Version,
		Revision:    constant.Revision,
		BuiltAt:     strings.TrimSpace(constant.BuiltAt),
		BuiltBy:     constant.BuiltBy,
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
		Player:      binary,
		PlayerFound: mpv.Available(binary),
		Config:      lo.CoalesceOrEmpty(viper.ConfigFileUsed(), configFile()),
	}
}

func (b buildInfo) render() string {
	player := b.Player + " " + lo.Ternary(
		b.PlayerFound,
		style.Fg(color.Green)("(found)"),
		style.Fg(color.Red)("(missing, run check)"),
	)

	rows := []lo.Tuple2[string, string]{
		{A: "Version", B: style.Bold(b.Version)},
		{A: "Revision", B: b.Revision},
		{A: "Built", B: b.BuiltAt + style.Faint(" by ") + b.BuiltBy},
		{A: "Platform", B: b.Platform},
		{A: "Player", B: player},
		{A: "Config", B: b.Config},
	}

	labels := lo.Map(rows, func(r lo.Tuple2[string, string], _ int) string { return style.Faint(r.A) })
	values := lo.Map(rows, func(r lo.Tuple2[string, string], _ int) string { return r.B })

	header := style.Fg(color.Purple)("▇▇▇ " + constant.App)
	table := lipgloss.JoinHorizontal(lipgloss.Top,
		style.New().PaddingLeft(2).PaddingRight(3).Render(strings.Join(labels, "\n")),
		strings.Join(values, "\n"),
	)
	return header + "\n\n" + table + "\n"
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print only the version")
	versionCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	versionCmd.MarkFlagsMutuallyExclusive("short", "json")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version, build metadata and player backend",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		build := currentBuild()
		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(build))
			return
		}

		cmd.Print(build.render())
		version.Notify(cmd.Context(), cmd.OutOrStdout())
	},
}
