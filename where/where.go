// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/reelroom/reelroom/constant"
	"github.com/reelroom/reelroom/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath overrides the default configuration directory.
const EnvConfigPath = "REELROOM_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the configuration directory, honoring REELROOM_CONFIG_PATH.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok && custom != "" {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache resolves the persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs resolves the directory log files are written to.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Library resolves the default directory of the local asset catalog.
func Library() string {
	return ensureDir(filepath.Join(Config(), "library"))
}

// Temp resolves the directory for volatile artifacts such as mpv IPC sockets.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.App))
}

// History resolves the file storing resume positions.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Queries is the file that ranks references passed to play.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}
