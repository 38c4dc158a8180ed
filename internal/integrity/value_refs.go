// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package integrity

import (
	"fmt"
	"path/filepath"
	"strings"
)

// predatoryChecker matches venue names against a denylist.
type predatoryChecker struct {
	list PredatoryLookup
}

func (predatoryChecker) ID() string { return IDPredatory }

func (c predatoryChecker) CheckValue(v string) (string, bool) {
	if c.list == nil || strings.TrimSpace(v) == "" {
		return "", false
	}
	if name, ok := c.list.Match(v); ok {
		return fmt.Sprintf("Predatory journal %s found", name), true
	}
	return "", false
}

// fileChecker requires every local link in a file list to resolve. Relative
// paths are tried against dirs in order.
type fileChecker struct {
	files FileLocator
	dirs  []string
}

func (fileChecker) ID() string { return IDFile }

func (c fileChecker) CheckValue(v string) (string, bool) {
	if c.files == nil {
		return "", false
	}
	for _, link := range ParseFileList(v) {
		if link.Path == "" || strings.Contains(link.Path, "://") {
			continue
		}
		if !c.resolves(link.Path) {
			return "link should refer to a correct file path", true
		}
	}
	return "", false
}

func (c fileChecker) resolves(path string) bool {
	if filepath.IsAbs(path) {
		return c.files.Exists(path)
	}
	for _, dir := range c.dirs {
		if c.files.Exists(filepath.Join(dir, path)) {
			return true
		}
	}
	return false
}

// FileLink is one element of a file field, "description:path:type".
type FileLink struct {
	Description string
	Path        string
	Type        string
}

// ParseFileList splits a file field into links. Links are separated by ';'
// and parts by ':'; both may be escaped with a backslash. A link with a
// single part is a bare path.
func ParseFileList(v string) []FileLink {
	var links []FileLink
	for _, raw := range splitEscaped(v, ';') {
		parts := splitEscaped(raw, ':')
		for i := range parts {
			parts[i] = unescapeFileField(parts[i])
		}
		var l FileLink
		switch len(parts) {
		case 0:
			continue
		case 1:
			l.Path = parts[0]
		case 2:
			l.Description, l.Path = parts[0], parts[1]
		default:
			l.Description, l.Path, l.Type = parts[0], parts[1], strings.Join(parts[2:], ":")
		}
		if strings.TrimSpace(l.Description+l.Path+l.Type) == "" {
			continue
		}
		links = append(links, l)
	}
	return links
}

// splitEscaped splits s at sep bytes not preceded by an odd backslash run.
// Escapes are kept in the output.
func splitEscaped(s string, sep byte) []string {
	var (
		out   []string
		start int
	)
	for i := 0; i < len(s); i++ {
		if s[i] == sep && !escaped(s, i) {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func unescapeFileField(s string) string {
	return strings.NewReplacer(`\:`, ":", `\;`, ";", `\\`, `\`).Replace(s)
}
