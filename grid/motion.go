package grid

import (
	"os"

	"github.com/reelroom/reelroom/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// MotionEnv lists the environment variables that signal a reduced-motion
// preference when set to any non-empty value.
var MotionEnv = []string{"REDUCE_MOTION", "NO_MOTION"}

// DetectReducedMotion reports the user's reduced-motion preference from
// config or the environment.
func DetectReducedMotion() bool {
	if viper.GetBool(key.GridReducedMotion) {
		return true
	}

	return lo.SomeBy(MotionEnv, func(name string) bool {
		v, ok := os.LookupEnv(name)
		return ok && v != "" && v != "0" && v != "false"
	})
}
