// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdiddy/bibcheck/internal/journals"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleMessages() []types.Message {
	return []types.Message{
		{EntryID: "e1", EntryIndex: 0, CitationKey: "Knuth1968", Field: "year", Checker: "year", Text: "should contain a four digit number"},
		{EntryID: "e2", EntryIndex: 1, CitationKey: "Lamport94", Field: "title", Checker: "braces", Text: "unexpected closing curly bracket"},
		{EntryIndex: types.CollectionScope, Checker: "duplicate-doi", Text: "DOI used twice"},
	}
}

// --- tests ---

func TestOpenCreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, err := os.Stat(filepath.Join(dir, dbFile)); err != nil {
		t.Errorf("database file not created: %v", err)
	}
	if s.Path() != filepath.Join(dir, dbFile) {
		t.Errorf("Path() = %q", s.Path())
	}
	if !Exists(dir) {
		t.Error("Exists() = false after Open")
	}
	if Exists(t.TempDir()) {
		t.Error("Exists() = true for an empty directory")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		s, err := Open(dir)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		s.Close()
	}
}

func TestSaveRunAndReadBack(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 10, 0, 0, 500, time.UTC)
	id, err := s.SaveRun(ctx, Run{
		Source:      "refs.bib",
		ContentHash: "abc",
		Dialect:     types.BibLaTeX,
		Entries:     2,
		StartedAt:   started,
		Duration:    1500 * time.Millisecond,
	}, sampleMessages())
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("expected generated run id")
	}

	run, err := s.GetRun(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if run.Source != "refs.bib" || run.Dialect != types.BibLaTeX || run.Entries != 2 || run.Messages != 3 {
		t.Errorf("unexpected run: %+v", run)
	}
	if !run.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", run.StartedAt, started)
	}
	if run.Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v", run.Duration)
	}

	msgs, err := s.RunMessages(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	want := sampleMessages()
	if len(msgs) != len(want) {
		t.Fatalf("len(msgs) = %d, want %d", len(msgs), len(want))
	}
	for i := range want {
		if msgs[i] != want[i] {
			t.Errorf("msgs[%d] = %+v, want %+v", i, msgs[i], want[i])
		}
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.GetRun(context.Background(), "missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("err = %v, want ErrRunNotFound", err)
	}
	if _, err := s.RunMessages(context.Background(), "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("RunMessages err = %v, want ErrRunNotFound", err)
	}
}

func TestRunsOrderAndFilter(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, src := range []string{"a.bib", "b.bib", "a.bib"} {
		run := Run{Source: src, StartedAt: base.Add(time.Duration(i) * time.Hour)}
		if _, err := s.SaveRun(ctx, run, nil); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.Runs(ctx, RunFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].StartedAt.After(all[i-1].StartedAt) {
			t.Errorf("runs not newest first at %d", i)
		}
	}

	onlyA, err := s.Runs(ctx, RunFilter{Source: "a.bib", Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(onlyA) != 1 || onlyA[0].Source != "a.bib" || !onlyA[0].StartedAt.Equal(base.Add(2*time.Hour)) {
		t.Errorf("unexpected filtered runs: %+v", onlyA)
	}
}

func TestPruneRunsCascades(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	oldID, err := s.SaveRun(ctx, Run{Source: "a.bib", StartedAt: old}, sampleMessages())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveRun(ctx, Run{Source: "a.bib", StartedAt: recent}, sampleMessages()[:1]); err != nil {
		t.Fatal(err)
	}

	n, err := s.PruneRuns(ctx, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("pruned %d runs, want 1", n)
	}
	if _, err := s.GetRun(ctx, oldID); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("old run still present: %v", err)
	}

	var left int
	if err := s.db.QueryRow(`SELECT count(*) FROM messages`).Scan(&left); err != nil {
		t.Fatal(err)
	}
	if left != 1 {
		t.Errorf("messages left = %d, want 1", left)
	}
}

func TestCheckerCounts(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	for range 2 {
		if _, err := s.SaveRun(ctx, Run{Source: "a.bib", StartedAt: time.Now()}, sampleMessages()[:2]); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.SaveRun(ctx, Run{Source: "a.bib", StartedAt: time.Now()}, sampleMessages()[:1]); err != nil {
		t.Fatal(err)
	}

	counts, err := s.CheckerCounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []CheckerCount{{Checker: "year", Count: 3}, {Checker: "braces", Count: 2}}
	if len(counts) != len(want) {
		t.Fatalf("counts = %+v, want %+v", counts, want)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("counts[%d] = %+v, want %+v", i, counts[i], want[i])
		}
	}
}

func TestImportAndSearchJournals(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	n, err := s.ImportAbbreviations(ctx, []journals.Abbreviation{
		{Name: "IEEE Software", Abbreviation: "IEEE Softw."},
		{Name: "Journal of Software Engineering", Abbreviation: "J. Softw. Eng."},
		{Name: "", Abbreviation: "skipped"},
		{Name: "Physical Review Letters", Abbreviation: "Phys. Rev. Lett.", ShortestUnique: "PRL"},
	}, "test.csv")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("imported %d, want 3", n)
	}

	// Re-import replaces the abbreviation.
	if _, err := s.ImportAbbreviations(ctx, []journals.Abbreviation{
		{Name: "IEEE Software", Abbreviation: "IEEE SW"},
	}, "second.csv"); err != nil {
		t.Fatal(err)
	}
	count, err := s.CountJournals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("CountJournals = %d, want 3", count)
	}

	all, err := s.Abbreviations(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if all[0].Name != "IEEE Software" || all[0].Abbreviation != "IEEE SW" {
		t.Errorf("first abbreviation = %+v", all[0])
	}
	if all[2].ShortestUnique != "PRL" {
		t.Errorf("ShortestUnique = %q, want PRL", all[2].ShortestUnique)
	}

	hits, err := s.SearchJournals(ctx, "softw", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Errorf("search hits = %+v, want 2", hits)
	}

	hits, err = s.SearchJournals(ctx, "ieee sw", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Name != "IEEE Software" {
		t.Errorf("exact abbreviation search = %+v", hits)
	}

	hits, err = s.SearchJournals(ctx, "100%", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("literal percent matched %+v", hits)
	}
}

func TestAbbreviationsFeedRepository(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if _, err := s.ImportAbbreviations(ctx, []journals.Abbreviation{
		{Name: "IEEE Software", Abbreviation: "IEEE SW"},
	}, "x"); err != nil {
		t.Fatal(err)
	}
	list, err := s.Abbreviations(ctx)
	if err != nil {
		t.Fatal(err)
	}
	repo := journals.NewRepository(list...)
	if !repo.IsAbbreviatedName("IEEE SW") {
		t.Error("stored abbreviation not recognised by repository")
	}
}
