// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/bibcheck/internal/journals"
)

// ImportAbbreviations upserts list under the given source label and
// returns the number of rows written. Records missing a name or an
// abbreviation are skipped.
func (s *Store) ImportAbbreviations(ctx context.Context, list []journals.Abbreviation, source string) (int, error) {
	n := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO journals (name, abbreviation, shortest_unique, source)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET
				abbreviation=excluded.abbreviation,
				shortest_unique=excluded.shortest_unique,
				source=excluded.source`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for _, a := range list {
			name, abbr := strings.TrimSpace(a.Name), strings.TrimSpace(a.Abbreviation)
			if name == "" || abbr == "" {
				continue
			}
			if _, err := stmt.ExecContext(ctx, name, abbr, strings.TrimSpace(a.ShortestUnique), source); err != nil {
				return fmt.Errorf("inserting journal %q: %w", name, err)
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Abbreviations returns every stored abbreviation ordered by name.
func (s *Store) Abbreviations(ctx context.Context) ([]journals.Abbreviation, error) {
	return s.queryJournals(ctx,
		`SELECT name, abbreviation, shortest_unique FROM journals ORDER BY name`)
}

// SearchJournals returns journals whose name or abbreviation contains q,
// case-insensitively. Exact matches sort first.
func (s *Store) SearchJournals(ctx context.Context, q string, limit int) ([]journals.Abbreviation, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	return s.queryJournals(ctx,
		`SELECT name, abbreviation, shortest_unique FROM journals
		 WHERE lower(name) LIKE ? ESCAPE '\' OR lower(abbreviation) LIKE ? ESCAPE '\'
		 ORDER BY (lower(name) = ? OR lower(abbreviation) = ?) DESC, name
		 LIMIT ?`,
		pattern, pattern, strings.ToLower(q), strings.ToLower(q), limit)
}

// CountJournals returns the number of stored abbreviations.
func (s *Store) CountJournals(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM journals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting journals: %w", err)
	}
	return n, nil
}

func (s *Store) queryJournals(ctx context.Context, query string, args ...any) ([]journals.Abbreviation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying journals: %w", err)
	}
	defer rows.Close()

	var out []journals.Abbreviation
	for rows.Next() {
		var (
			a        journals.Abbreviation
			shortest sql.NullString
		)
		if err := rows.Scan(&a.Name, &a.Abbreviation, &shortest); err != nil {
			return nil, fmt.Errorf("scanning journal: %w", err)
		}
		a.ShortestUnique = shortest.String
		out = append(out, a)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
