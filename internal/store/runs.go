// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/bibcheck/pkg/types"
)

// timeLayout is fixed-width so stored timestamps sort chronologically as
// text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// Run summarises one saved check of one file.
type Run struct {
	ID          string        `json:"id" yaml:"id"`
	Source      string        `json:"source" yaml:"source"`
	ContentHash string        `json:"content_hash,omitempty" yaml:"content_hash,omitempty"`
	Dialect     types.Dialect `json:"dialect" yaml:"dialect"`
	Entries     int           `json:"entries" yaml:"entries"`
	Messages    int           `json:"messages" yaml:"messages"`
	StartedAt   time.Time     `json:"started_at" yaml:"started_at"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}

// RunFilter selects runs for Runs.
type RunFilter struct {
	// Source restricts results to one file path.
	Source string

	// Limit caps the number of runs returned. Zero means 20.
	Limit int
}

// SaveRun records run and its messages. A new ID is assigned when run.ID
// is empty; the stored ID is returned.
func (s *Store) SaveRun(ctx context.Context, run Run, msgs []types.Message) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	run.Messages = len(msgs)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, source, content_hash, dialect, entries, message_count, started_at, duration_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.Source, run.ContentHash, run.Dialect.String(), run.Entries, run.Messages,
			run.StartedAt.UTC().Format(timeLayout), run.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("inserting run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO messages (run_id, seq, entry_id, entry_index, citation_key, field, checker, text)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for i, m := range msgs {
			if _, err := stmt.ExecContext(ctx,
				run.ID, i, m.EntryID, m.EntryIndex, m.CitationKey, m.Field, m.Checker, m.Text,
			); err != nil {
				return fmt.Errorf("inserting message %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// Runs lists saved runs, newest first.
func (s *Store) Runs(ctx context.Context, f RunFilter) ([]Run, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, source, content_hash, dialect, entries, message_count, started_at, duration_ms FROM runs`
	var args []any
	if f.Source != "" {
		query += ` WHERE source = ?`
		args = append(args, f.Source)
	}
	query += ` ORDER BY started_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given id.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, content_hash, dialect, entries, message_count, started_at, duration_ms
		 FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r          Run
		hash       sql.NullString
		dialect    string
		startedAt  string
		durationMS int64
	)
	if err := sc.Scan(&r.ID, &r.Source, &hash, &dialect, &r.Entries, &r.Messages, &startedAt, &durationMS); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	r.ContentHash = hash.String
	d, err := types.ParseDialect(dialect)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: %w", r.ID, err)
	}
	r.Dialect = d
	t, err := time.Parse(timeLayout, startedAt)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: parsing start time: %w", r.ID, err)
	}
	r.StartedAt = t
	r.Duration = time.Duration(durationMS) * time.Millisecond
	return r, nil
}

// RunMessages returns the messages of a run in their original order.
func (s *Store) RunMessages(ctx context.Context, runID string) ([]types.Message, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT entry_id, entry_index, citation_key, field, checker, text
		 FROM messages WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var msgs []types.Message
	for rows.Next() {
		var (
			m                   types.Message
			entryID, key, field sql.NullString
		)
		if err := rows.Scan(&entryID, &m.EntryIndex, &key, &field, &m.Checker, &m.Text); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.EntryID, m.CitationKey, m.Field = entryID.String, key.String, field.String
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// CheckerCount is the number of messages a checker produced across runs.
type CheckerCount struct {
	Checker string `json:"checker" yaml:"checker"`
	Count   int    `json:"count" yaml:"count"`
}

// CheckerCounts aggregates messages by checker over all saved runs, most
// frequent first.
func (s *Store) CheckerCounts(ctx context.Context) ([]CheckerCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT checker, count(*) AS n FROM messages GROUP BY checker ORDER BY n DESC, checker`)
	if err != nil {
		return nil, fmt.Errorf("querying checker counts: %w", err)
	}
	defer rows.Close()

	var out []CheckerCount
	for rows.Next() {
		var c CheckerCount
		if err := rows.Scan(&c.Checker, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning checker count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// PruneRuns deletes runs that started before cutoff, along with their
// messages, and returns the number of runs removed.
func (s *Store) PruneRuns(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE started_at < ?`, cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	return res.RowsAffected()
}
