// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner checks bibliography files end to end: it reads and parses
// each file, runs the integrity engine for the file's dialect, consults the
// result cache and optionally records the run in the store.
package runner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pdiddy/bibcheck/internal/bibtex"
	"github.com/pdiddy/bibcheck/internal/cache"
	"github.com/pdiddy/bibcheck/internal/integrity"
	"github.com/pdiddy/bibcheck/internal/logging"
	"github.com/pdiddy/bibcheck/internal/report"
	"github.com/pdiddy/bibcheck/internal/store"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// Options configures a Runner.
type Options struct {
	// Dialect forces the dialect of every file. Empty keeps the dialect the
	// file declares.
	Dialect string

	Prefs integrity.Preferences

	// Cache is consulted before checking. Nil disables caching.
	Cache *cache.Cache

	// Store records every run when set.
	Store *store.Store

	// Settings is folded into the cache key together with the engine's
	// active checkers. Anything that changes results belongs here.
	Settings any
}

// Runner checks files. Engines are built lazily, one per dialect.
type Runner struct {
	opts Options

	mu      sync.Mutex
	engines map[types.Dialect]*integrity.Engine
}

// New returns a Runner for opts.
func New(opts Options) *Runner {
	return &Runner{opts: opts, engines: make(map[types.Dialect]*integrity.Engine)}
}

// Engine returns the engine for dialect d.
func (r *Runner) Engine(d types.Dialect) *integrity.Engine {
	r.mu.Lock()
	defer r.mu.Unlock()
	en, ok := r.engines[d]
	if !ok {
		en = integrity.NewEngine(r.opts.Prefs, d)
		r.engines[d] = en
	}
	return en
}

// CheckFiles checks each path in order. A file that cannot be read stops
// the run.
func (r *Runner) CheckFiles(ctx context.Context, paths []string) ([]report.FileResult, error) {
	results := make([]report.FileResult, 0, len(paths))
	for _, p := range paths {
		res, err := r.CheckFile(ctx, p)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// CheckFile reads, parses and checks one file. Syntax errors are logged and
// the entries that did parse are still checked.
func (r *Runner) CheckFile(ctx context.Context, path string) (report.FileResult, error) {
	log := logging.WithFields(ctx, "file", path)
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return report.FileResult{}, fmt.Errorf("reading %s: %w", path, err)
	}
	c, err := bibtex.Parse(data, path)
	if err != nil {
		log.Warn("bibliography has syntax errors", "error", err)
	}
	if r.opts.Dialect != "" {
		d, err := types.ParseDialect(r.opts.Dialect)
		if err != nil {
			return report.FileResult{}, err
		}
		c.Dialect = d
	}
	en := r.Engine(c.Dialect)

	key, err := r.cacheKey(en, path, data)
	if err != nil {
		return report.FileResult{}, err
	}
	if r.opts.Cache != nil {
		p, ok, err := r.opts.Cache.Get(key)
		if err != nil {
			log.Warn("ignoring unreadable cache entry", "error", err)
		}
		if ok && p.Entries == len(c.Entries) {
			log.Debug("cache hit", "key", key.String())
			res := report.NewFileResult(c, p.Messages)
			res.Cached = true
			return res, nil
		}
	}

	msgs, err := en.Check(ctx, c)
	if err != nil {
		return report.FileResult{}, err
	}
	log.Info("checked", "entries", len(c.Entries), "messages", len(msgs), "dialect", c.Dialect.String())

	if r.opts.Cache != nil {
		p := &cache.Payload{Source: path, Entries: len(c.Entries), Messages: msgs, CheckedAt: time.Now()}
		if err := r.opts.Cache.Put(key, p); err != nil {
			log.Warn("could not write cache entry", "error", err)
		}
	}
	if r.opts.Store != nil {
		sum := sha256.Sum256(data)
		id, err := r.opts.Store.SaveRun(ctx, store.Run{
			Source:      absPath(path),
			ContentHash: hex.EncodeToString(sum[:]),
			Dialect:     c.Dialect,
			Entries:     len(c.Entries),
			StartedAt:   start,
			Duration:    time.Since(start),
		}, msgs)
		if err != nil {
			return report.FileResult{}, fmt.Errorf("saving run for %s: %w", path, err)
		}
		log.Debug("run saved", "run", id)
	}
	return report.NewFileResult(c, msgs), nil
}

// cacheKey binds the file content to everything that influences the result.
// The absolute path is part of it because relative file links resolve
// against the bib file's directory.
func (r *Runner) cacheKey(en *integrity.Engine, path string, data []byte) (cache.Key, error) {
	if r.opts.Cache == nil {
		return cache.Key{}, nil
	}
	fp, err := cache.Fingerprint(struct {
		Source   string
		Dialect  string
		Checkers []string
		Settings any
	}{absPath(path), en.Dialect().String(), en.Checkers(), r.opts.Settings})
	if err != nil {
		return cache.Key{}, err
	}
	return cache.NewKey(data, fp), nil
}

func absPath(p string) string {
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return p
}
