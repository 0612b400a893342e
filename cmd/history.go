package cmd

import (
	"encoding/json"
	"sort"

	"github.com/reelroom/reelroom/color"
	"github.com/reelroom/reelroom/history"
	"github.com/reelroom/reelroom/icon"
	"github.com/reelroom/reelroom/style"
	"github.com/reelroom/reelroom/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show where playback of each asset stopped",
	Run: func(cmd *cobra.Command, args []string) {
		saved, err := history.Get()
		handleErr(err)

		entries := lo.Values(saved)
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(entries))
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("Nothing played yet"))
			return
		}

		for _, e := range entries {
			position := util.FormatTimestamp(e.Position)
			if e.Duration > 0 {
				position += " / " + util.FormatTimestamp(e.Duration)
			}
			if e.Finished() {
				position = style.Fg(color.Green)("finished")
			}

			cmd.Printf("%s %s %s\n",
				style.Fg(color.Purple)(e.Title),
				style.Faint(e.AssetID),
				style.Fg(color.Yellow)(position),
			)
		}
	},
}

func init() {
	historyCmd.AddCommand(historyForgetCmd)
}

var historyForgetCmd = &cobra.Command{
	Use:   "forget <asset-id>...",
	Short: "Drop the saved position of assets",
	Args:  cobra.MinimumNArgs(1),
	ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		saved, err := history.Get()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return lo.Keys(saved), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		for _, id := range args {
			handleErr(history.Remove(id))
		}
		cmd.Printf("%s forgot %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), util.Quantify(len(args), "position", "positions"))
	},
}
