package cmd

import (
	"os"

	"github.com/reelroom/reelroom/color"
	"github.com/reelroom/reelroom/config"
	"github.com/reelroom/reelroom/grid"
	"github.com/reelroom/reelroom/style"
	"github.com/reelroom/reelroom/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only show variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only show variables that are unset")
	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

// envVars lists every variable the app reads: one per setting, the config
// path override and the reduced-motion signals.
func envVars() []string {
	vars := lo.Map(config.EnvExposed, func(k string, _ int) string {
		field := config.Default[k]
		return field.Env()
	})
	vars = append(vars, where.EnvConfigPath)
	vars = append(vars, grid.MotionEnv...)
	slices.Sort(vars)
	return lo.Uniq(vars)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the environment variables reelroom reads",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		for _, env := range envVars() {
			value, present := os.LookupEnv(env)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(env), "=")
			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
