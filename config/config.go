// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/reelroom/reelroom/constant"
	"github.com/reelroom/reelroom/filesystem"
	"github.com/reelroom/reelroom/key"
	"github.com/reelroom/reelroom/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
func Setup() error {
	viper.SetConfigName(constant.App)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.App)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return Validate()
}

// Validate rejects values the player cannot work with.
func Validate() error {
	if ms := viper.GetInt(key.PlayerControlsHideDelay); ms <= 0 {
		return fmt.Errorf("%s must be positive, got %d", key.PlayerControlsHideDelay, ms)
	}

	if step := viper.GetFloat64(key.PlayerVolumeStep); step <= 0 || step > 1 {
		return fmt.Errorf("%s must be in (0, 1], got %v", key.PlayerVolumeStep, step)
	}

	if step := viper.GetFloat64(key.PlayerSeekStep); step <= 0 {
		return fmt.Errorf("%s must be positive, got %v", key.PlayerSeekStep, step)
	}

	if v := viper.GetFloat64(key.PlayerDefaultVolume); v < 0 || v > 1 {
		return fmt.Errorf("%s must be in [0, 1], got %v", key.PlayerDefaultVolume, v)
	}

	return nil
}

// ControlsHideDelay returns the configured auto-hide delay of the player controls.
func ControlsHideDelay() time.Duration {
	return time.Duration(viper.GetInt(key.PlayerControlsHideDelay)) * time.Millisecond
}

// LibraryDir returns the configured catalog directory, falling back to the
// default location.
func LibraryDir() string {
	if dir := viper.GetString(key.LibraryPath); dir != "" {
		return dir
	}
	return where.Library()
}
