package version

import (
	"context"
	"fmt"
	"io"

	"github.com/reelroom/reelroom/color"
	"github.com/reelroom/reelroom/constant"
	"github.com/reelroom/reelroom/icon"
	"github.com/reelroom/reelroom/key"
	"github.com/reelroom/reelroom/style"
	"github.com/reelroom/reelroom/util"
	"github.com/spf13/viper"
)

// Notify writes an alert to w if a newer release is available.
func Notify(ctx context.Context, w io.Writer) {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	latest, err := Latest(ctx)
	erase()
	if err != nil {
		return
	}

	if !Upgrade(latest, constant.Version) {
		return
	}

	fmt.Fprintf(w, `
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint(fmt.Sprintf("https://github.com/%s/releases/tag/v%s", constant.Repository, latest)),
	)
}
