// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibtex

import (
	"strings"

	"github.com/pdiddy/bibcheck/pkg/types"
)

const (
	metaPrefix      = "jabref-meta:"
	entryTypePrefix = "jabref-entrytype:"
)

// Metadata keys understood inside @comment{jabref-meta: ...} blocks.
const (
	metaDatabaseType      = "databaseType"
	metaKeyPatternDefault = "keypatterndefault"
	metaKeyPatternPrefix  = "keypattern_"
	metaFileDirectory     = "fileDirectory"
)

// comment interprets a @comment body. Bodies that carry no metadata are
// ignored.
func (p *parser) comment(body string) {
	body = strings.TrimSpace(body)
	switch {
	case strings.HasPrefix(body, metaPrefix):
		p.meta(strings.TrimPrefix(body, metaPrefix))
	case strings.HasPrefix(body, entryTypePrefix):
		name, _, _ := strings.Cut(strings.TrimPrefix(body, entryTypePrefix), ":")
		if name = strings.TrimSpace(name); name != "" {
			p.c.Meta.CustomTypes = append(p.c.Meta.CustomTypes, strings.ToLower(name))
		}
	}
}

// meta applies one "key:value;value;" metadata item.
func (p *parser) meta(item string) {
	key, rest, ok := strings.Cut(strings.TrimSpace(item), ":")
	if !ok {
		return
	}
	values := metaValues(rest)
	first := ""
	if len(values) > 0 {
		first = values[0]
	}

	m := &p.c.Meta
	switch {
	case key == metaDatabaseType:
		if d, err := types.ParseDialect(first); err == nil && first != "" {
			p.c.Dialect = d
			m.DialectDeclared = true
		}
	case key == metaKeyPatternDefault:
		m.KeyPattern = first
	case strings.HasPrefix(key, metaKeyPatternPrefix):
		if m.TypeKeyPatterns == nil {
			m.TypeKeyPatterns = make(map[string]string)
		}
		t := strings.ToLower(strings.TrimPrefix(key, metaKeyPatternPrefix))
		m.TypeKeyPatterns[t] = first
	case key == metaFileDirectory || strings.HasPrefix(key, metaFileDirectory+"-"):
		for _, v := range values {
			if v != "" {
				m.FileDirectories = append(m.FileDirectories, v)
			}
		}
	}
}

// metaValues splits s on unescaped ';' and unescapes each part. A trailing
// empty part is dropped.
func metaValues(s string) []string {
	var out []string
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\' && i+1 < len(s):
			i++
			cur.WriteByte(s[i])
		case c == ';':
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}
