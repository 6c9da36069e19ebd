/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Defaults are registered before any file or environment is read.
var Defaults = map[string]any{
	"log.level":       "info",
	"log.format":      "json",
	"backend.address": "http://localhost:8080",
	"store.backend":   "file",
	"store.path":      defaultStorePath(),
	"buffer.cap":      1000,
}

// InitConfig initializes the configuration using Viper.
// It reads from the specified config file or defaults to
// flowconsole.{yaml,json,toml} in the user config directory or
// /etc/flowconsole/.
// Environment variables with the prefix FLOWCONSOLE_ can override config values.
func InitConfig(cfgFile string) error {
	for key, value := range Defaults {
		viper.SetDefault(key, value)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("flowconsole")
		if dir, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(filepath.Join(dir, "flowconsole"))
		}
		viper.AddConfigPath("/etc/flowconsole/")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("FLOWCONSOLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFile != "" {
				return fmt.Errorf("config file not found: %w", err)
			}
		} else {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

func defaultStorePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "flowconsole")
}
