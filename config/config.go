// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/glint-player/glint/constant"
	"github.com/glint-player/glint/filesystem"
	"github.com/glint-player/glint/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer normalizes configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup registers defaults and env bindings, then reads glint.toml from where.Config() if present.
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
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	return nil
}

// Path returns the location of the configuration file, whether or not it exists yet.
func Path() string {
	return filepath.Join(where.Config(), constant.App+".toml")
}

// Write persists the current settings to Path.
func Write() error {
	return viper.WriteConfigAs(Path())
}
