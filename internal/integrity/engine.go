// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package integrity

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/bibcheck/pkg/types"
)

// Engine runs the checker set for one dialect over whole collections. An
// Engine is safe for concurrent use; it never modifies the collections it
// checks.
type Engine struct {
	prefs   Preferences
	dialect types.Dialect
	log     *slog.Logger

	values      []rule
	entries     []EntryChecker
	collections []CollectionChecker
}

// NewEngine assembles the checkers that apply to dialect under prefs.
// Checkers whose external data is missing are left out and logged.
func NewEngine(prefs Preferences, dialect types.Dialect) *Engine {
	en := &Engine{prefs: prefs, dialect: dialect, log: prefs.logger()}

	for _, r := range valueRules(prefs, dialect) {
		if !prefs.disabled(r.checker.ID()) {
			en.values = append(en.values, r)
		}
	}
	for _, c := range entryCheckers(prefs, dialect) {
		if !prefs.disabled(c.ID()) {
			en.entries = append(en.entries, c)
		}
	}
	for _, c := range collectionCheckers() {
		if !prefs.disabled(c.ID()) {
			en.collections = append(en.collections, c)
		}
	}

	if prefs.Abbreviations == nil {
		en.log.Info("no abbreviation list loaded, skipping journal checks")
	}
	if prefs.PredatoryJournals == nil {
		en.log.Info("no predatory journal list loaded, skipping predatory check")
	}
	if prefs.Files == nil {
		en.log.Info("no file locator configured, skipping file link check")
	}
	return en
}

// Dialect returns the dialect the engine checks against.
func (en *Engine) Dialect() types.Dialect { return en.dialect }

// Checkers returns the ids of the active checkers, sorted and without
// duplicates.
func (en *Engine) Checkers() []string {
	var ids []string
	for _, r := range en.values {
		ids = append(ids, r.checker.ID())
	}
	for _, c := range en.entries {
		ids = append(ids, c.ID())
	}
	for _, c := range en.collections {
		ids = append(ids, c.ID())
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Check runs every applicable checker over c and returns the messages
// sorted by entry position, field, checker and text. Collection-scope
// messages come last. Check only fails when ctx is cancelled.
func (en *Engine) Check(ctx context.Context, c *types.Collection) ([]types.Message, error) {
	start := time.Now()
	scope := &Scope{Collection: c, Keys: c.KeyIndex()}
	rules := en.rulesFor(c)

	jobs := en.prefs.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([][]types.Message, len(c.Entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(c.Entries))))
	for i, e := range c.Entries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = en.checkEntry(i, e, scope, rules)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []types.Message
	for _, r := range results {
		out = append(out, r...)
	}
	for _, cc := range en.collections {
		out = append(out, en.runCollection(cc, c)...)
	}
	sortMessages(out)

	en.log.Debug("integrity check finished",
		"entries", len(c.Entries),
		"messages", len(out),
		"dialect", en.dialect.String(),
		"elapsed", time.Since(start))
	return out, nil
}

// CheckEntry runs the value and entry checkers for the entry at index idx
// of c. Collection checkers are not run.
func (en *Engine) CheckEntry(c *types.Collection, idx int) []types.Message {
	scope := &Scope{Collection: c, Keys: c.KeyIndex()}
	rules := en.rulesFor(c)
	out := en.checkEntry(idx, c.Entries[idx], scope, rules)
	sortMessages(out)
	return out
}

// rulesFor adds the collection-bound rules to the static table.
func (en *Engine) rulesFor(c *types.Collection) []rule {
	if en.prefs.Files == nil || en.prefs.disabled(IDFile) {
		return en.values
	}
	return append(slices.Clip(en.values), fileRule(en.prefs.Files, en.fileDirectories(c)))
}

func (en *Engine) checkEntry(idx int, e *types.Entry, s *Scope, rules []rule) []types.Message {
	var out []types.Message
	check := func(f types.Field, value string) {
		props := f.Properties()
		for _, r := range rules {
			if !r.applies(f, props) {
				continue
			}
			if text, bad := en.runValue(r.checker, f, value); bad {
				out = append(out, types.NewMessage(e, idx, f.Name, r.checker.ID(), text))
			}
		}
	}

	if e.Key != "" {
		check(types.FieldKey, e.Key)
	}
	for _, fv := range e.Fields {
		if strings.TrimSpace(fv.Value) == "" {
			continue
		}
		check(fv.Field, fv.Value)
	}
	for _, ec := range en.entries {
		for _, f := range en.runEntry(ec, e, s) {
			out = append(out, types.NewMessage(e, idx, f.Field, ec.ID(), f.Text))
		}
	}
	return out
}

// runValue shields the run from a panicking checker. The panic becomes a
// single message on the offending field.
func (en *Engine) runValue(vc ValueChecker, f types.Field, value string) (text string, bad bool) {
	defer func() {
		if r := recover(); r != nil {
			en.log.Error("checker panicked", "checker", vc.ID(), "field", f.Name, "panic", r)
			text, bad = fmt.Sprintf(internalErrorFmt, vc.ID()), true
		}
	}()
	return vc.CheckValue(value)
}

func (en *Engine) runEntry(ec EntryChecker, e *types.Entry, s *Scope) (findings []Finding) {
	defer func() {
		if r := recover(); r != nil {
			en.log.Error("checker panicked", "checker", ec.ID(), "entry", e.Key, "panic", r)
			findings = []Finding{{Text: fmt.Sprintf(internalErrorFmt, ec.ID())}}
		}
	}()
	return ec.Check(e, s)
}

func (en *Engine) runCollection(cc CollectionChecker, c *types.Collection) (msgs []types.Message) {
	defer func() {
		if r := recover(); r != nil {
			en.log.Error("checker panicked", "checker", cc.ID(), "panic", r)
			msgs = []types.Message{{
				EntryIndex: types.CollectionScope,
				Checker:    cc.ID(),
				Text:       fmt.Sprintf(internalErrorFmt, cc.ID()),
			}}
		}
	}()
	return cc.Check(c)
}

// fileDirectories lists where relative file links are looked up: the
// directories the collection declares, the directory of the bib file, then
// the preferred directories.
func (en *Engine) fileDirectories(c *types.Collection) []string {
	base := "."
	if c.Meta.Source != "" {
		base = filepath.Dir(c.Meta.Source)
	}
	var dirs []string
	for _, d := range c.Meta.FileDirectories {
		if !filepath.IsAbs(d) {
			d = filepath.Join(base, d)
		}
		dirs = append(dirs, d)
	}
	dirs = append(dirs, base)
	return append(dirs, en.prefs.FileDirectories...)
}

func sortMessages(msgs []types.Message) {
	position := func(m types.Message) int {
		if m.IsCollectionScope() {
			return math.MaxInt
		}
		return m.EntryIndex
	}
	slices.SortStableFunc(msgs, func(a, b types.Message) int {
		return cmp.Or(
			cmp.Compare(position(a), position(b)),
			cmp.Compare(a.Field, b.Field),
			cmp.Compare(a.Checker, b.Checker),
			cmp.Compare(a.Text, b.Text),
		)
	})
}
