// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/bibcheck/internal/cache"
	"github.com/pdiddy/bibcheck/internal/config"
	"github.com/pdiddy/bibcheck/internal/logging"
	"github.com/pdiddy/bibcheck/internal/report"
	"github.com/pdiddy/bibcheck/internal/runner"
	"github.com/pdiddy/bibcheck/internal/store"
	"github.com/pdiddy/bibcheck/pkg/types"
)

var checkCmd = &cobra.Command{
	Use:   "check [files|dirs|globs...]",
	Short: "Check bibliography files for integrity problems",
	Long: `Check parses each bibliography and runs every applicable integrity check
on it. Directories are searched for *.bib files and arguments such as
"papers/**/*.bib" are expanded. Without arguments every *.bib file below
the current directory is checked.

The exit status is 1 when any problem is reported.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("dialect", "", "force the dialect: bibtex or biblatex (default: as declared by each file)")
	checkCmd.Flags().Int("jobs", 0, "entries checked in parallel (default: one per CPU)")
	checkCmd.Flags().StringSlice("disable", nil, "checker ids to skip (see 'bibcheck checkers')")
	checkCmd.Flags().StringP("format", "f", "text", "report format: text, json, yaml or csv")
	checkCmd.Flags().Bool("cache", false, "reuse results for unchanged files")
	checkCmd.Flags().Bool("save", false, "record the run in the history database")
	checkCmd.Flags().String("data-dir", "", "history database directory (default: ~/.local/share/bibcheck)")
	checkCmd.Flags().Bool("watch", false, "re-check files whenever they change")
	checkCmd.Flags().Bool("no-color", false, "disable colored output")

	rootCmd.AddCommand(checkCmd)
}

// project is a set of files governed by the same manifest.
type project struct {
	manifest string
	files    []string
	cfg      types.CheckConfig
	run      *runner.Runner
	store    *store.Store
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}
	files, err := runner.ExpandInputs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no bibliography files found in %v", args)
	}

	ctx := logging.WithLogger(cmd.Context(), slog.Default())
	projects, err := openProjects(ctx, cmd, files)
	if err != nil {
		return err
	}
	defer func() {
		for _, p := range projects {
			if p.store != nil {
				p.store.Close()
			}
		}
	}()

	noColor, _ := cmd.Flags().GetBool("no-color")
	colored := !noColor && !color.NoColor
	format := projects[0].cfg.Format

	var results []report.FileResult
	for _, p := range projects {
		res, err := p.run.CheckFiles(ctx, p.files)
		if err != nil {
			return err
		}
		results = append(results, res...)
	}
	if err := report.Write(os.Stdout, format, results, colored); err != nil {
		return err
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return watchProjects(ctx, projects, format, colored)
	}
	if report.Count(results) > 0 {
		return errProblemsFound
	}
	return nil
}

// openProjects groups files by manifest and prepares a runner for each
// group, keeping the order in which files were named.
func openProjects(ctx context.Context, cmd *cobra.Command, files []string) ([]*project, error) {
	save, _ := cmd.Flags().GetBool("save")
	byManifest := make(map[string]*project)
	var out []*project

	for _, f := range files {
		m, err := manifestFor(filepath.Dir(f))
		if err != nil {
			return nil, err
		}
		p, ok := byManifest[m]
		if !ok {
			p = &project{manifest: m}
			byManifest[m] = p
			out = append(out, p)
		}
		p.files = append(p.files, f)
	}

	for _, p := range out {
		if p.manifest != "" {
			logging.FromContext(ctx).Debug("using manifest", "path", p.manifest, "files", len(p.files))
		}
		cfg, err := loadSettings(cmd, p.manifest)
		if err != nil {
			return nil, err
		}
		prefs, stamps, err := buildPrefs(ctx, cfg)
		if err != nil {
			return nil, err
		}

		opts := runner.Options{Dialect: cfg.Dialect, Prefs: prefs, Settings: cacheSettings(cfg, stamps)}
		if cfg.Cache.Enabled {
			c, err := cache.Open(config.ExpandHome(cfg.Cache.Dir))
			if err != nil {
				return nil, err
			}
			opts.Cache = c
		}
		if save {
			s, err := store.Open(config.ExpandHome(cfg.Store.DataDir))
			if err != nil {
				return nil, err
			}
			p.store = s
			opts.Store = s
		}
		p.cfg = cfg
		p.run = runner.New(opts)
	}
	return out, nil
}

// watchProjects re-checks changed files until interrupted.
func watchProjects(ctx context.Context, projects []*project, format string, colored bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	owner := make(map[string]*project)
	var files []string
	for _, p := range projects {
		for _, f := range p.files {
			owner[f] = p
			files = append(files, f)
		}
	}

	fmt.Fprintf(os.Stderr, "Watching %d file(s). Press Ctrl-C to stop.\n", len(files))
	return runner.Watch(ctx, files, runner.DefaultDebounce, func(ctx context.Context, changed []string) {
		var results []report.FileResult
		for _, f := range changed {
			res, err := owner[f].run.CheckFile(ctx, f)
			if err != nil {
				logging.FromContext(ctx).Error("check failed", "file", f, "error", err)
				continue
			}
			results = append(results, res)
		}
		if err := report.Write(os.Stdout, format, results, colored); err != nil {
			logging.FromContext(ctx).Error("writing report", "error", err)
		}
	})
}
