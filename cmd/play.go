package cmd

import (
	"context"
	"strings"

	"github.com/reelroom/reelroom/config"
	"github.com/reelroom/reelroom/constant"
	"github.com/reelroom/reelroom/library"
	"github.com/reelroom/reelroom/log"
	"github.com/reelroom/reelroom/query"
	"github.com/reelroom/reelroom/tui"
	"github.com/reelroom/reelroom/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringP("title", "t", "", "Title shown for a media URL that is not in the library")
}

var playCmd = &cobra.Command{
	Use:   "play <id|title|url>",
	Short: "Open the player for a library asset or a media URL",
	Long: `Open the player for a library asset or a media URL.

The argument is matched against asset ids first, then fuzzily against
titles. URLs and absolute paths are played directly.`,
	Example:           examples("play spring_launch_teaser-1a2b3c", "play \"holiday cut\"", "play https://cdn.example.com/teaser.mp4"),
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionAssetIDs,
	Run: func(cmd *cobra.Command, args []string) {
		store := library.NewStore(config.LibraryDir())
		asset, err := resolvePlayable(cmd.Context(), store, args[0], lo.Must(cmd.Flags().GetString("title")))
		handleErr(err)

		if err := query.Remember(args[0], 1); err != nil {
			log.Warn(err)
		}

		playAsset(cmd.Context(), store, asset)
	},
}

func playAsset(ctx context.Context, store library.Service, asset *library.Asset) {
	CheckDependencies()

	handleErr(tui.Run(ctx, &tui.Options{
		Library: store,
		Asset:   mo.Some(asset),
	}))
}

// resolvePlayable turns the play argument into an asset. Media references
// become ad-hoc assets whose id is stable across runs, so their resume
// position survives.
func resolvePlayable(ctx context.Context, svc library.Service, ref, title string) (*library.Asset, error) {
	if !library.IsMediaRef(ref) {
		return library.Resolve(ctx, svc, ref)
	}

	stem := util.FileStem(ref)
	id := strings.ToLower(util.SanitizeFilename(stem))
	if id == "" {
		id = "media"
	}

	return &library.Asset{
		ID:        id,
		Title:     lo.Ternary(title != "", title, stem),
		SourceURL: ref,
	}, nil
}

func completionAssetIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	assets, err := library.NewStore(config.LibraryDir()).List(cmd.Context(), library.Filter{})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	completions := lo.Map(assets, func(a *library.Asset, _ int) string {
		return a.ID + "\t" + a.Title
	})
	if toComplete != "" {
		completions = append(completions, query.SuggestMany(toComplete)...)
	}

	return completions, cobra.ShellCompDirectiveNoFileComp
}

func examples(lines ...string) string {
	prefix := "  " + constant.App + " "
	return prefix + strings.Join(lines, "\n"+prefix)
}
