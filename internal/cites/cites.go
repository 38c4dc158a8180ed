// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cites finds citation keys used in LaTeX and Markdown manuscripts
// and matches them against a collection.
package cites

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/bibcheck/pkg/types"
)

// latexCite matches \cite-family commands with optional [..] arguments:
// \cite{a,b}, \citep[p.~4]{a}, \parencite*{a}, \autocites{a}{b}.
var latexCite = regexp.MustCompile(`\\[A-Za-z]*cite[A-Za-z]*\*?(?:\s*\[[^\]]*\])*\s*((?:\{[^{}]*\}\s*)+)`)

var latexGroup = regexp.MustCompile(`\{([^{}]*)\}`)

// pandocCite matches @key references in Markdown: [@a; @b, p. 4] or @a.
var pandocCite = regexp.MustCompile(`(?:^|[\s\[;-])@([A-Za-z0-9_](?:[A-Za-z0-9_:.#$%&+?<>~/-]*[A-Za-z0-9_])?)`)

// Use is one occurrence of a citation key in a manuscript.
type Use struct {
	Key  string `json:"key" yaml:"key"`
	File string `json:"file" yaml:"file"`
	Line int    `json:"line" yaml:"line"`
}

// Report pairs manuscript citations with a collection.
type Report struct {
	// Missing are uses whose key is not in the collection.
	Missing []Use `json:"missing" yaml:"missing"`

	// Uncited are collection keys no manuscript uses, sorted.
	Uncited []string `json:"uncited" yaml:"uncited"`
}

// Extract returns the citation keys in text, in order of appearance.
// Markdown syntax is used for .md files, LaTeX for everything else.
func Extract(text, name string) []string {
	var keys []string
	for _, u := range scan([]byte(text), name) {
		keys = append(keys, u.Key)
	}
	return keys
}

// Check scans files and compares the keys they cite with c.
func Check(c *types.Collection, files []string) (*Report, error) {
	known := c.KeyIndex()
	cited := make(map[string]bool)
	r := &Report{}

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", filepath.Base(f), err)
		}
		for _, u := range scan(data, f) {
			cited[u.Key] = true
			if _, ok := known[u.Key]; !ok {
				r.Missing = append(r.Missing, u)
			}
		}
	}

	for key := range known {
		if !cited[key] {
			r.Uncited = append(r.Uncited, key)
		}
	}
	sort.Strings(r.Uncited)
	return r, nil
}

func scan(data []byte, name string) []Use {
	markdown := isMarkdown(name)
	var uses []Use
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		var keys []string
		if markdown {
			keys = markdownKeys(text)
		} else {
			keys = latexKeys(stripTeXComment(text))
		}
		for _, k := range keys {
			uses = append(uses, Use{Key: k, File: name, Line: line})
		}
	}
	return uses
}

func isMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown", ".qmd", ".rmd":
		return true
	}
	return false
}

func latexKeys(text string) []string {
	var keys []string
	for _, m := range latexCite.FindAllStringSubmatch(text, -1) {
		for _, g := range latexGroup.FindAllStringSubmatch(m[1], -1) {
			for _, k := range strings.Split(g[1], ",") {
				if k = strings.TrimSpace(k); k != "" {
					keys = append(keys, k)
				}
			}
		}
	}
	return keys
}

func markdownKeys(text string) []string {
	var keys []string
	for _, m := range pandocCite.FindAllStringSubmatch(text, -1) {
		keys = append(keys, m[1])
	}
	return keys
}

// stripTeXComment drops text after an unescaped %.
func stripTeXComment(s string) string {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '%':
			return s[:i]
		}
	}
	return s
}
