// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journals

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/bibcheck/internal/httputil"
	"github.com/pdiddy/bibcheck/internal/textnorm"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// PredatoryList is a denylist of journal and publisher names. Names are
// compared after folding (diacritics, case, punctuation). The list is
// read-only once built.
type PredatoryList struct {
	names map[string]struct{}
}

// NewPredatoryList builds a list from names.
func NewPredatoryList(names ...string) *PredatoryList {
	p := &PredatoryList{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if k := textnorm.Fold(n); k != "" {
			p.names[k] = struct{}{}
		}
	}
	return p
}

// Len returns the number of distinct folded names.
func (p *PredatoryList) Len() int {
	return len(p.names)
}

// Match returns the listed name that value matches: either value equals a
// listed name, or a listed name of at least two words appears in value as
// whole words.
func (p *PredatoryList) Match(value string) (string, bool) {
	v := textnorm.Fold(value)
	if v == "" {
		return "", false
	}
	if _, ok := p.names[v]; ok {
		return v, true
	}
	padded := " " + v + " "
	var hits []string
	for n := range p.names {
		if strings.Contains(n, " ") && strings.Contains(padded, " "+n+" ") {
			hits = append(hits, n)
		}
	}
	if len(hits) == 0 {
		return "", false
	}
	// Longest match wins; ties break alphabetically for stable output.
	sort.Slice(hits, func(i, j int) bool {
		if len(hits[i]) != len(hits[j]) {
			return len(hits[i]) > len(hits[j])
		}
		return hits[i] < hits[j]
	})
	return hits[0], true
}

// Contains reports whether value matches the list.
func (p *PredatoryList) Contains(value string) bool {
	_, ok := p.Match(value)
	return ok
}

// FetchPredatory downloads a plain-text list from url and writes it to
// path atomically. It returns the number of names written.
func FetchPredatory(ctx context.Context, client *http.Client, cfg types.HTTPConfig, url, path string) (int, error) {
	body, err := httputil.Fetch(ctx, client, cfg, url)
	if err != nil {
		return 0, err
	}
	names, err := ParsePredatory(bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, fmt.Errorf("predatory list from %s is empty", url)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating list directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strings.Join(names, "\n")+"\n"), 0o644); err != nil {
		return 0, fmt.Errorf("writing predatory list: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("replacing predatory list: %w", err)
	}
	return len(names), nil
}
