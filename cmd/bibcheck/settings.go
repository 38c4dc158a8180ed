// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bibcheck/internal/config"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// settingFlags maps command flags onto config keys. Only flags a command
// defines are bound.
var settingFlags = map[string]string{
	"dialect":   "dialect",
	"jobs":      "jobs",
	"disable":   "disabled",
	"format":    "format",
	"cache":     "cache.enabled",
	"data-dir":  "store.data_dir",
	"log-level": "log.level",
}

// loadSettings resolves the settings for one project: defaults, the global
// config file, the manifest at manifest (if any), the environment and the
// flags of cmd.
func loadSettings(cmd *cobra.Command, manifest string) (types.CheckConfig, error) {
	v := viper.New()
	config.SetDefaults(v)

	if f := viper.ConfigFileUsed(); f != "" {
		v.SetConfigFile(f)
		if err := v.ReadInConfig(); err != nil {
			return types.CheckConfig{}, fmt.Errorf("reading config %s: %w", f, err)
		}
	}
	if manifest != "" {
		if err := config.MergeManifest(v, manifest); err != nil {
			return types.CheckConfig{}, err
		}
	}

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range settingFlags {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return types.CheckConfig{}, fmt.Errorf("binding --%s: %w", name, err)
			}
		}
	}
	return config.Load(v)
}

// manifestFor returns the manifest governing files in dir, or "".
func manifestFor(dir string) (string, error) {
	path, ok, err := config.FindManifest(dir)
	if err != nil || !ok {
		return "", err
	}
	return path, nil
}
