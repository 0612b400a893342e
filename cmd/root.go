// Package cmd implements the reelroom command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/reelroom/reelroom/color"
	"github.com/reelroom/reelroom/config"
	"github.com/reelroom/reelroom/constant"
	"github.com/reelroom/reelroom/icon"
	"github.com/reelroom/reelroom/key"
	"github.com/reelroom/reelroom/library"
	"github.com/reelroom/reelroom/log"
	"github.com/reelroom/reelroom/style"
	"github.com/reelroom/reelroom/tui"
	"github.com/reelroom/reelroom/version"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().String("library", "", "Directory of the asset catalog")
	lo.Must0(viper.BindPFlag(key.LibraryPath, rootCmd.PersistentFlags().Lookup("library")))

	rootCmd.PersistentFlags().Bool("reduced-motion", false, "Never play previews on hover")
	lo.Must0(viper.BindPFlag(key.GridReducedMotion, rootCmd.PersistentFlags().Lookup("reduced-motion")))

	rootCmd.Flags().BoolP("previews", "P", false, "Open a preview window for the hovered card")
	lo.Must0(viper.BindPFlag(key.GridPreviews, rootCmd.Flags().Lookup("previews")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify(cmd.Context(), cmd.OutOrStdout())
	})
}

// rootCmd opens the library grid.
var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Review and play a creative team's video assets from the terminal",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Review and play a creative team's video assets from the terminal"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.SetContext(cmd.Context())
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		store := library.NewStore(config.LibraryDir())
		handleErr(tui.Run(cmd.Context(), &tui.Options{Library: store}))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
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

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
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
