// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bibcheck/internal/cache"
	"github.com/pdiddy/bibcheck/internal/integrity"
	"github.com/pdiddy/bibcheck/internal/store"
	"github.com/pdiddy/bibcheck/pkg/types"
)

const badYear = `@article{Knuth1968,
  author  = {Knuth, Donald},
  title   = {Fundamental algorithms},
  journal = {Computing},
  year    = {19x8},
}
`

func quiet() integrity.Preferences {
	return integrity.Preferences{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func checkers(msgs []types.Message) []string {
	var ids []string
	for _, m := range msgs {
		ids = append(ids, m.Checker)
	}
	return ids
}

func TestCheckFile_ReportsMessages(t *testing.T) {
	path := writeFile(t, t.TempDir(), "refs.bib", badYear)

	res, err := New(Options{Prefs: quiet()}).CheckFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, res.Source)
	assert.Equal(t, 1, res.Entries)
	assert.Equal(t, types.BibTeX, res.Dialect)
	assert.False(t, res.Cached)
	assert.Contains(t, checkers(res.Messages), integrity.IDYear)
	assert.Equal(t, []int{1}, res.Lines)
}

func TestCheckFile_DialectOverride(t *testing.T) {
	path := writeFile(t, t.TempDir(), "refs.bib", badYear)

	r := New(Options{Dialect: "biblatex", Prefs: quiet()})
	res, err := r.CheckFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, types.BibLaTeX, res.Dialect)
	assert.Same(t, r.Engine(types.BibLaTeX), r.Engine(types.BibLaTeX))

	_, err = New(Options{Dialect: "apa", Prefs: quiet()}).CheckFile(context.Background(), path)
	assert.Error(t, err)
}

func TestCheckFile_SyntaxErrorsStillCheck(t *testing.T) {
	path := writeFile(t, t.TempDir(), "refs.bib", "@article{bad, title {x}}\n"+badYear)
	res, err := New(Options{Prefs: quiet()}).CheckFile(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, checkers(res.Messages), integrity.IDYear)
}

func TestCheckFile_MissingFile(t *testing.T) {
	_, err := New(Options{Prefs: quiet()}).CheckFile(context.Background(), filepath.Join(t.TempDir(), "nope.bib"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.bib")
}

func TestCheckFile_Cache(t *testing.T) {
	path := writeFile(t, t.TempDir(), "refs.bib", badYear)
	c, err := cache.Open(t.TempDir())
	require.NoError(t, err)

	r := New(Options{Prefs: quiet(), Cache: c, Settings: "a"})
	first, err := r.CheckFile(context.Background(), path)
	require.NoError(t, err)
	require.False(t, first.Cached)

	second, err := r.CheckFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Messages, second.Messages)
	assert.Equal(t, first.Lines, second.Lines)

	// Different settings must not reuse the result.
	other, err := New(Options{Prefs: quiet(), Cache: c, Settings: "b"}).CheckFile(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, other.Cached)

	// Nor may edited content.
	writeFile(t, filepath.Dir(path), "refs.bib", badYear+"\n@book{b, title = {B}, year = {2001}}\n")
	edited, err := r.CheckFile(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, edited.Cached)
	assert.Equal(t, 2, edited.Entries)
}

func TestCheckFile_SavesRun(t *testing.T) {
	path := writeFile(t, t.TempDir(), "refs.bib", badYear)
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	res, err := New(Options{Prefs: quiet(), Store: s}).CheckFile(context.Background(), path)
	require.NoError(t, err)

	runs, err := s.Runs(context.Background(), store.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, path, runs[0].Source)
	assert.Equal(t, 1, runs[0].Entries)
	assert.Equal(t, len(res.Messages), runs[0].Messages)
	assert.Len(t, runs[0].ContentHash, 64)

	msgs, err := s.RunMessages(context.Background(), runs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, res.Messages, msgs)
}

func TestCheckFiles_StopsOnUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.bib", badYear)

	results, err := New(Options{Prefs: quiet()}).CheckFiles(context.Background(), []string{good, filepath.Join(dir, "missing.bib")})
	require.Error(t, err)
	assert.Len(t, results, 1)
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.bib", "")
	b := writeFile(t, dir, "sub/deep/b.bib", "")
	writeFile(t, dir, "notes.txt", "")

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{"plain file", []string{a}, []string{a}, false},
		{"directory", []string{dir}, []string{a, b}, false},
		{"double star", []string{filepath.Join(dir, "**", "*.bib")}, []string{a, b}, false},
		{"deduplicated", []string{a, filepath.Join(dir, "*.bib")}, []string{a}, false},
		{"no match", []string{filepath.Join(dir, "*.ris")}, nil, true},
		{"missing", []string{filepath.Join(dir, "gone.bib")}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandInputs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "refs.bib", badYear)
	other := writeFile(t, dir, "other.bib", "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{path}, 20*time.Millisecond, func(_ context.Context, changed []string) {
			calls <- changed
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(badYear+"\n"), 0o644))

	select {
	case changed := <-calls:
		assert.Equal(t, []string{path}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
