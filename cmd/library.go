package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/invopop/jsonschema"
	"github.com/reelroom/reelroom/color"
	"github.com/reelroom/reelroom/config"
	"github.com/reelroom/reelroom/history"
	"github.com/reelroom/reelroom/icon"
	"github.com/reelroom/reelroom/library"
	"github.com/reelroom/reelroom/log"
	"github.com/reelroom/reelroom/network"
	"github.com/reelroom/reelroom/open"
	"github.com/reelroom/reelroom/style"
	"github.com/reelroom/reelroom/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func newStore() *library.Store {
	return library.NewStore(config.LibraryDir())
}

func completionStages(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return lo.Map(library.Stages(), func(s library.Stage, _ int) string {
		return s.String()
	}), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(libraryCmd)
}

var libraryCmd = &cobra.Command{
	Use:     "library",
	Aliases: []string{"lib"},
	Short:   "Manage the asset catalog",
}

func init() {
	libraryCmd.AddCommand(libraryListCmd)
	libraryListCmd.Flags().StringP("stage", "s", "", "Only list assets in this stage")
	libraryListCmd.Flags().StringP("creator", "c", "", "Only list assets by this creator")
	libraryListCmd.Flags().StringP("query", "q", "", "Fuzzy match titles")
	libraryListCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	_ = libraryListCmd.RegisterFlagCompletionFunc("stage", completionStages)
}

var libraryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List assets, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		filter := library.Filter{
			Creator: lo.Must(cmd.Flags().GetString("creator")),
			Query:   lo.Must(cmd.Flags().GetString("query")),
		}

		if name := lo.Must(cmd.Flags().GetString("stage")); name != "" {
			stage, err := library.ParseStage(name)
			handleErr(err)
			filter.Stage = mo.Some(stage)
		}

		assets, err := newStore().List(cmd.Context(), filter)
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(assets))
			return
		}

		if len(assets) == 0 {
			cmd.Println(style.Faint("No assets"))
			return
		}

		for _, a := range assets {
			cmd.Printf("%s %s %s\n",
				style.Fg(color.Purple)(a.Title),
				style.Faint(a.ID),
				style.Fg(color.Yellow)(a.Stage.String()),
			)
		}
	},
}

func init() {
	libraryCmd.AddCommand(libraryAddCmd)
	libraryAddCmd.Flags().StringP("title", "t", "", "Asset title")
	libraryAddCmd.Flags().StringP("source", "u", "", "Media URL or path")
	libraryAddCmd.Flags().StringP("poster", "p", "", "Poster image URL")
	libraryAddCmd.Flags().StringP("stage", "s", library.Draft.String(), "Workflow stage")
	libraryAddCmd.Flags().StringP("creator", "c", "", "Creator or agency")
	libraryAddCmd.Flags().StringSlice("tag", nil, "Tags")
	libraryAddCmd.Flags().Bool("no-probe", false, "Do not check that a remote source answers")
	_ = libraryAddCmd.RegisterFlagCompletionFunc("stage", completionStages)
}

var libraryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an asset, prompting for anything not given as a flag",
	Run: func(cmd *cobra.Command, args []string) {
		asset := &library.Asset{
			Title:     lo.Must(cmd.Flags().GetString("title")),
			SourceURL: lo.Must(cmd.Flags().GetString("source")),
			PosterURL: lo.Must(cmd.Flags().GetString("poster")),
			Creator:   lo.Must(cmd.Flags().GetString("creator")),
			Tags:      lo.Must(cmd.Flags().GetStringSlice("tag")),
		}

		stage, err := library.ParseStage(lo.Must(cmd.Flags().GetString("stage")))
		handleErr(err)
		asset.Stage = stage

		handleErr(promptMissing(asset))

		if library.Probeable(asset.SourceURL) {
			if info, err := library.ProbeFile(asset.SourceURL); err != nil {
				cmd.PrintErrf("%s could not read %s: %v\n", icon.Get(icon.Fail), asset.SourceURL, err)
			} else {
				asset.Media = info
			}
		}

		if !lo.Must(cmd.Flags().GetBool("no-probe")) {
			if err := probeSource(cmd.Context(), asset.SourceURL); err != nil {
				cmd.PrintErrf("%s source did not answer: %v\n", icon.Get(icon.Fail), err)
			}
		}

		handleErr(newStore().Create(cmd.Context(), asset))
		cmd.Printf("%s added %s as %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(asset.Title),
			style.Fg(color.Yellow)(asset.ID),
		)
	},
}

// promptMissing asks for the title and source when the flags left them empty.
func promptMissing(asset *library.Asset) error {
	if asset.SourceURL == "" {
		if err := survey.AskOne(&survey.Input{
			Message: "Media URL or path",
		}, &asset.SourceURL, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	if asset.Title == "" {
		if err := survey.AskOne(&survey.Input{
			Message: "Title",
			Default: util.FileStem(asset.SourceURL),
		}, &asset.Title, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	return nil
}

func probeSource(ctx context.Context, src string) error {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return nil
	}
	return network.Probe(ctx, src)
}

func init() {
	libraryCmd.AddCommand(libraryStageCmd)
}

var libraryStageCmd = &cobra.Command{
	Use:   "stage <id|title> <stage>",
	Short: "Move an asset to another workflow stage",
	Args:  cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 1 {
			return completionStages(cmd, args, toComplete)
		}
		return completionAssetIDs(cmd, args, toComplete)
	},
	Run: func(cmd *cobra.Command, args []string) {
		store := newStore()

		asset, err := library.Resolve(cmd.Context(), store, args[0])
		handleErr(err)

		stage, err := library.ParseStage(args[1])
		handleErr(err)

		asset.Stage = stage
		handleErr(store.Update(cmd.Context(), asset))
		cmd.Printf("%s %s is now %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(asset.Title),
			style.Fg(color.Yellow)(stage.String()),
		)
	},
}

func init() {
	libraryCmd.AddCommand(libraryRemoveCmd)
	libraryRemoveCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

var libraryRemoveCmd = &cobra.Command{
	Use:               "remove <id|title>",
	Aliases:           []string{"rm"},
	Short:             "Remove an asset from the catalog",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionAssetIDs,
	Run: func(cmd *cobra.Command, args []string) {
		store := newStore()

		asset, err := library.Resolve(cmd.Context(), store, args[0])
		handleErr(err)

		if !lo.Must(cmd.Flags().GetBool("yes")) {
			var confirmed bool
			handleErr(survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf("Remove %s (%s)?", asset.Title, asset.ID),
			}, &confirmed))

			if !confirmed {
				return
			}
		}

		handleErr(store.Delete(cmd.Context(), asset.ID))
		if err := history.Remove(asset.ID); err != nil {
			log.Warnf("forget position of %s: %v", asset.ID, err)
		}
		cmd.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), asset.Title)
	},
}

func init() {
	libraryCmd.AddCommand(librarySchemaCmd)
}

var librarySchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of catalog entries",
	Run: func(cmd *cobra.Command, args []string) {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(assetSchema()))
	},
}

func assetSchema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		return "library." + t.Name()
	}
	return reflector.Reflect([]*library.Asset{})
}

var errNoAssets = errors.New("the library is empty")

func init() {
	libraryCmd.AddCommand(libraryPickCmd)
}

var libraryPickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose an asset from a list and open its player",
	Run: func(cmd *cobra.Command, args []string) {
		store := newStore()

		assets, err := store.List(cmd.Context(), library.Filter{})
		handleErr(err)
		if len(assets) == 0 {
			handleErr(errNoAssets)
		}

		var index int
		handleErr(survey.AskOne(&survey.Select{
			Message: "Asset",
			Options: lo.Map(assets, func(a *library.Asset, _ int) string {
				return fmt.Sprintf("%s (%s)", a.Title, a.Stage)
			}),
		}, &index))

		playAsset(cmd.Context(), store, assets[index])
	},
}

func init() {
	libraryCmd.AddCommand(libraryOpenCmd)
	libraryOpenCmd.Flags().Bool("poster", false, "Open the poster image instead of the media")
	libraryOpenCmd.Flags().StringP("with", "w", "", "Application to open it with")
}

var libraryOpenCmd = &cobra.Command{
	Use:               "open <id|title>",
	Short:             "Open an asset's media or poster with the system handler",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionAssetIDs,
	Run: func(cmd *cobra.Command, args []string) {
		asset, err := library.Resolve(cmd.Context(), newStore(), args[0])
		handleErr(err)

		target := asset.SourceURL
		if lo.Must(cmd.Flags().GetBool("poster")) {
			if asset.PosterURL == "" {
				handleErr(fmt.Errorf("%s has no poster", asset.Title))
			}
			target = asset.PosterURL
		}

		handleErr(open.StartWith(target, lo.Must(cmd.Flags().GetString("with"))))
	},
}
