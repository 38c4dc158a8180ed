// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bibcheck CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bibcheck/internal/config"
	"github.com/pdiddy/bibcheck/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// errProblemsFound makes the process exit non-zero without printing an
// error; the report already said what is wrong.
var errProblemsFound = errors.New("problems found")

// rootCmd is the base command for the bibcheck CLI.
var rootCmd = &cobra.Command{
	Use:   "bibcheck",
	Short: "Integrity checks for BibTeX and BibLaTeX bibliographies",
	Long: `bibcheck inspects bibliography files for malformed values, inconsistent
citation keys and duplicate identifiers. It understands the BibTeX and
BibLaTeX dialects, JabRef metadata comments and journal abbreviation lists.

Settings come from ./bibcheck.yaml or ~/.config/bibcheck/bibcheck.yaml, the
nearest .bibcheck.toml above each bibliography, BIBCHECK_* environment
variables and flags, in increasing order of precedence.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(os.Stderr, viper.GetString("log.level"), viper.GetString("log.format"))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bibcheck.yaml or ~/.config/bibcheck/bibcheck.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bibcheck")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bibcheck"))
		}
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error: reading config %s: %v\n", cfgFile, err)
		os.Exit(1)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errProblemsFound) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
