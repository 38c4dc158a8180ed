// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journals

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// ParseCSV reads abbreviation rows "full;abbr[;shortest]" or
// "full,abbr[,shortest]". The separator is taken from the first line.
// Rows with fewer than two columns are skipped.
func ParseCSV(data []byte) ([]Abbreviation, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = detectSeparator(data)
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing abbreviation csv: %w", err)
	}

	var out []Abbreviation
	for _, rec := range records {
		if len(rec) < 2 {
			continue
		}
		a := Abbreviation{Name: strings.TrimSpace(rec[0]), Abbreviation: strings.TrimSpace(rec[1])}
		if len(rec) > 2 {
			a.ShortestUnique = strings.TrimSpace(rec[2])
		}
		if a.Name == "" || a.Abbreviation == "" {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func detectSeparator(data []byte) rune {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.ContainsRune(line, ';') {
		return ';'
	}
	return ','
}

// abbreviationFile is the YAML layout: a top-level "journals" list.
type abbreviationFile struct {
	Journals []Abbreviation `yaml:"journals"`
}

// ParseYAML reads a YAML abbreviation list.
func ParseYAML(data []byte) ([]Abbreviation, error) {
	var f abbreviationFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing abbreviation yaml: %w", err)
	}
	return f.Journals, nil
}

// LoadFile reads an abbreviation list, choosing the format by extension
// (.yaml/.yml, anything else is CSV).
func LoadFile(path string) ([]Abbreviation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading abbreviation list %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseCSV(data)
	}
}

// ParsePredatory reads one name per line. Blank lines and lines starting
// with "#" are ignored.
func ParsePredatory(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading predatory list: %w", err)
	}
	return names, nil
}

// predatoryFile is the YAML layout of a predatory list.
type predatoryFile struct {
	Journals   []string `yaml:"journals"`
	Publishers []string `yaml:"publishers"`
}

// ParsePredatoryYAML reads a YAML list with "journals" and "publishers".
func ParsePredatoryYAML(data []byte) ([]string, error) {
	var f predatoryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing predatory yaml: %w", err)
	}
	return append(f.Journals, f.Publishers...), nil
}

// LoadPredatoryFile reads a predatory list from disk, choosing the format
// by extension.
func LoadPredatoryFile(path string) (*PredatoryList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading predatory list %s: %w", path, err)
	}
	var names []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		names, err = ParsePredatoryYAML(data)
	default:
		names, err = ParsePredatory(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}
	return NewPredatoryList(names...), nil
}
