// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/bibcheck/internal/cache"
	"github.com/pdiddy/bibcheck/internal/config"
	"github.com/pdiddy/bibcheck/internal/integrity"
	"github.com/pdiddy/bibcheck/internal/journals"
	"github.com/pdiddy/bibcheck/internal/logging"
	"github.com/pdiddy/bibcheck/internal/store"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// dataStamps identifies the external data a run was checked against, so
// that cached results are dropped when a list changes.
type dataStamps struct {
	Abbreviations string
	Predatory     string
}

// buildPrefs turns cfg into engine preferences, loading the abbreviation
// and predatory lists it names. A list that cannot be read is logged and
// left out; the checks depending on it are skipped.
func buildPrefs(ctx context.Context, cfg types.CheckConfig) (integrity.Preferences, dataStamps, error) {
	log := logging.FromContext(ctx)
	prefs := integrity.Preferences{
		AllowIntegerEdition: cfg.AllowIntegerEdition,
		CitationKeyPattern:  cfg.KeyPattern,
		KeyPatterns:         cfg.KeyPatterns,
		StrictBibtexNames:   cfg.StrictBibtexNames,
		Jobs:                cfg.Jobs,
		Disabled:            cfg.Disabled,
		Files:               integrity.OSLocator{},
		Logger:              log,
	}
	for _, d := range cfg.FileDirectories {
		prefs.FileDirectories = append(prefs.FileDirectories, config.ExpandHome(d))
	}

	var stamps dataStamps
	repo, err := loadAbbreviations(ctx, cfg)
	if err != nil {
		return prefs, stamps, err
	}
	if repo.Len() > 0 {
		prefs.Abbreviations = repo
		stamps.Abbreviations, err = digest(repo.All())
		if err != nil {
			return prefs, stamps, err
		}
		log.Debug("abbreviations loaded", "journals", repo.Len())
	}

	path, err := predatoryPath(cfg)
	if err != nil {
		return prefs, stamps, err
	}
	if _, statErr := os.Stat(path); statErr == nil || cfg.PredatoryList != "" {
		list, err := journals.LoadPredatoryFile(path)
		if err != nil {
			log.Warn("predatory list unavailable", "path", path, "error", err)
		} else {
			prefs.PredatoryJournals = list
			stamps.Predatory = fileStamp(path)
			log.Debug("predatory list loaded", "path", path, "names", list.Len())
		}
	}
	return prefs, stamps, nil
}

// loadAbbreviations merges the configured lists with the abbreviations
// imported into the store. The store is only read when it already exists.
func loadAbbreviations(ctx context.Context, cfg types.CheckConfig) (*journals.Repository, error) {
	log := logging.FromContext(ctx)
	repo := journals.NewRepository()

	dataDir := config.ExpandHome(cfg.Store.DataDir)
	if cfg.UseStoredAbbreviations && store.Exists(dataDir) {
		s, err := store.Open(dataDir)
		if err != nil {
			return nil, err
		}
		list, err := s.Abbreviations(ctx)
		s.Close()
		if err != nil {
			return nil, err
		}
		for _, a := range list {
			repo.Add(a)
		}
	}

	for _, p := range cfg.AbbreviationLists {
		path := config.ExpandHome(p)
		list, err := journals.LoadFile(path)
		if err != nil {
			log.Warn("abbreviation list unavailable", "path", path, "error", err)
			continue
		}
		for _, a := range list {
			repo.Add(a)
		}
	}
	return repo, nil
}

// predatoryPath returns the configured predatory list, or the file written
// by "predatory update" inside the data directory.
func predatoryPath(cfg types.CheckConfig) (string, error) {
	if cfg.PredatoryList != "" {
		return config.ExpandHome(cfg.PredatoryList), nil
	}
	dir := config.ExpandHome(cfg.Store.DataDir)
	if dir == "" {
		d, err := store.DefaultDataDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	return filepath.Join(dir, "predatory.txt"), nil
}

func digest(v any) (string, error) {
	b, err := cache.Fingerprint(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func fileStamp(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return path
	}
	return fmt.Sprintf("%s:%d:%d", path, info.Size(), info.ModTime().UnixNano())
}

// cacheSettings is the part of cfg that influences check results.
func cacheSettings(cfg types.CheckConfig, stamps dataStamps) any {
	return struct {
		Version             string
		AllowIntegerEdition bool
		StrictBibtexNames   bool
		KeyPattern          string
		KeyPatterns         map[string]string
		FileDirectories     []string
		Data                dataStamps
	}{
		Version:             version,
		AllowIntegerEdition: cfg.AllowIntegerEdition,
		StrictBibtexNames:   cfg.StrictBibtexNames,
		KeyPattern:          strings.TrimSpace(cfg.KeyPattern),
		KeyPatterns:         cfg.KeyPatterns,
		FileDirectories:     cfg.FileDirectories,
		Data:                stamps,
	}
}
