// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads check settings from viper, the per-project
// .bibcheck.toml manifest and the environment, and validates them.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pdiddy/bibcheck/pkg/types"
)

// ManifestName is the per-project settings file searched for upward from
// the bibliography's directory.
const ManifestName = ".bibcheck.toml"

// EnvPrefix prefixes environment overrides, e.g. BIBCHECK_JOBS.
const EnvPrefix = "BIBCHECK"

// DefaultKeyPattern is the citation-key pattern used when neither the
// bibliography nor the settings declare one.
const DefaultKeyPattern = "[auth][year]"

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = validate.RegisterValidation("keypattern", validateKeyPattern)
}

// validateKeyPattern accepts patterns whose square brackets are balanced
// and not nested.
func validateKeyPattern(fl validator.FieldLevel) bool {
	depth := 0
	for _, r := range fl.Field().String() {
		switch r {
		case '[':
			depth++
			if depth > 1 {
				return false
			}
		case ']':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("key_pattern", DefaultKeyPattern)
	v.SetDefault("format", "text")
	v.SetDefault("jobs", 0)
	v.SetDefault("allow_integer_edition", false)
	v.SetDefault("strict_bibtex_names", false)
	v.SetDefault("use_stored_abbreviations", true)
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.user_agent", "bibcheck")
	v.SetDefault("http.max_retries", 5)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// Load decodes v into a CheckConfig and validates it.
func Load(v *viper.Viper) (types.CheckConfig, error) {
	var cfg types.CheckConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return types.CheckConfig{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return types.CheckConfig{}, err
	}
	return cfg, nil
}

// Validate checks cfg against its validate tags. The error lists every
// failing setting by its config key.
func Validate(cfg *types.CheckConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := strings.TrimPrefix(fe.Namespace(), "CheckConfig.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s=%s (got %v)", key, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s (got %v)", key, fe.Tag(), fe.Value()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// FindManifest walks up from startDir looking for ManifestName.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolving start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("checking %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// pathKeys are settings holding file paths; relative values in a manifest
// are resolved against the manifest's directory.
var pathKeys = map[string]bool{
	"abbreviation_lists": true,
	"file_directories":   true,
	"predatory_list":     true,
	"dir":                true,
	"data_dir":           true,
}

// MergeManifest reads the TOML manifest at path into v. Manifest values
// take precedence over config files and defaults; flags and environment
// variables still win.
func MergeManifest(v *viper.Viper, path string) error {
	var m map[string]any
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return fmt.Errorf("%s: parsing TOML: %w", path, err)
	}
	resolvePaths(m, filepath.Dir(path))
	if err := v.MergeConfigMap(m); err != nil {
		return fmt.Errorf("%s: merging settings: %w", path, err)
	}
	return nil
}

func resolvePaths(m map[string]any, base string) {
	for k, val := range m {
		switch x := val.(type) {
		case map[string]any:
			resolvePaths(x, base)
		case string:
			if pathKeys[k] {
				m[k] = resolve(x, base)
			}
		case []any:
			if !pathKeys[k] {
				continue
			}
			for i, e := range x {
				if s, ok := e.(string); ok {
					x[i] = resolve(s, base)
				}
			}
		}
	}
}

func resolve(p, base string) string {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "~") {
		return p
	}
	return filepath.Join(base, p)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
