// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibtex reads .bib files into collections. Field values are kept
// as written: the outer delimiters are removed, the inner text is
// untouched, and @string references stay as #name# markers.
package bibtex

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/bibcheck/pkg/types"
)

// idNamespace scopes entry IDs so that the same source and position always
// yield the same ID.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/pdiddy/bibcheck/entry"))

// SyntaxError describes malformed input at a source line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// ParseFile reads and parses the .bib file at path. See Parse.
func ParseFile(path string) (*types.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses data read from source. A malformed entry is skipped and
// parsing resumes at the next '@'; the returned collection holds every entry
// that parsed, and the error joins one *SyntaxError per skipped item.
func Parse(data []byte, source string) (*types.Collection, error) {
	p := &parser{
		src:  strings.TrimPrefix(string(data), "\ufeff"),
		line: 1,
		c:    &types.Collection{Meta: types.Metadata{Source: source}},
	}
	p.parse()
	if len(p.errs) > 0 {
		return p.c, fmt.Errorf("parsing %s: %w", source, errors.Join(p.errs...))
	}
	return p.c, nil
}

// EntryID derives the stable ID of the entry at index in source.
func EntryID(source string, index int) string {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%s#%d", source, index))).String()
}

type parser struct {
	src  string
	pos  int
	line int
	c    *types.Collection
	errs []error
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) advance() byte {
	b := p.src[p.pos]
	p.pos++
	if b == '\n' {
		p.line++
	}
	return b
}

func (p *parser) skipSpace() {
	for !p.eof() && isSpace(p.peek()) {
		p.advance()
	}
}

func (p *parser) fail(line int, format string, args ...any) error {
	return &SyntaxError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// skipTo advances to the next '@' at or after the current position.
func (p *parser) skipTo() {
	for !p.eof() && p.peek() != '@' {
		p.advance()
	}
}

func (p *parser) parse() {
	for {
		p.skipTo()
		if p.eof() {
			return
		}
		start := p.line
		p.advance() // '@'
		if err := p.item(start); err != nil {
			p.errs = append(p.errs, err)
		}
	}
}

// item parses one @-construct. On error the position is left where the
// failure was detected; parse resumes from there.
func (p *parser) item(line int) error {
	p.skipSpace()
	kind := strings.ToLower(p.ident())
	if kind == "" {
		return p.fail(line, "expected entry type after '@'")
	}
	p.skipSpace()

	if kind == "comment" && p.peek() != '{' && p.peek() != '(' {
		for !p.eof() && p.peek() != '\n' {
			p.advance()
		}
		return nil
	}

	open := p.peek()
	if open != '{' && open != '(' {
		return p.fail(p.line, "expected '{' or '(' after @%s", kind)
	}
	p.advance()
	closer := byte('}')
	if open == '(' {
		closer = ')'
	}

	switch kind {
	case "comment":
		body, ok := p.balanced(open, closer)
		if !ok {
			return p.fail(line, "unterminated @comment")
		}
		p.comment(body)
		return nil
	case "preamble":
		v, err := p.value(closer)
		if err != nil {
			return err
		}
		p.c.Meta.Preamble += v
		return p.close(closer, "@preamble")
	case "string":
		return p.stringDef(closer)
	default:
		return p.entry(kind, line, closer)
	}
}

func (p *parser) close(closer byte, what string) error {
	p.skipSpace()
	if p.peek() != closer {
		return p.fail(p.line, "expected %q to close %s", closer, what)
	}
	p.advance()
	return nil
}

func (p *parser) stringDef(closer byte) error {
	p.skipSpace()
	name := strings.ToLower(p.ident())
	if name == "" {
		return p.fail(p.line, "expected @string name")
	}
	p.skipSpace()
	if p.peek() != '=' {
		return p.fail(p.line, "expected '=' after @string name %s", name)
	}
	p.advance()
	v, err := p.value(closer)
	if err != nil {
		return err
	}
	if p.c.Meta.Strings == nil {
		p.c.Meta.Strings = make(map[string]string)
	}
	p.c.Meta.Strings[name] = v
	return p.close(closer, "@string")
}

func (p *parser) entry(kind string, line int, closer byte) error {
	p.skipSpace()
	key := p.key(closer)
	e := types.NewEntry(kind, key)
	e.Line = line

	p.skipSpace()
	if p.peek() == ',' {
		p.advance()
	}
	for {
		p.skipSpace()
		if p.eof() {
			return p.fail(line, "unterminated entry %s", key)
		}
		if p.peek() == closer {
			p.advance()
			break
		}
		fieldLine := p.line
		name := p.ident()
		if name == "" {
			return p.fail(fieldLine, "expected field name in entry %s", key)
		}
		p.skipSpace()
		if p.peek() != '=' {
			return p.fail(fieldLine, "expected '=' after field %s in entry %s", name, key)
		}
		p.advance()
		v, err := p.value(closer)
		if err != nil {
			return err
		}
		e.Set(name, v)
		p.skipSpace()
		if p.peek() == ',' {
			p.advance()
		}
	}

	e.ID = EntryID(p.c.Meta.Source, len(p.c.Entries))
	p.c.Entries = append(p.c.Entries, e)
	return nil
}

// key reads the citation key, which runs to the first comma, whitespace or
// closing delimiter. Keyless entries yield "".
func (p *parser) key(closer byte) string {
	start := p.pos
	for !p.eof() {
		b := p.peek()
		if b == ',' || b == closer || isSpace(b) {
			break
		}
		p.advance()
	}
	return p.src[start:p.pos]
}

// value reads a '#'-concatenation of braced, quoted, numeric and macro
// parts. Macro references become #name#.
func (p *parser) value(closer byte) (string, error) {
	var b strings.Builder
	for {
		p.skipSpace()
		line := p.line
		switch c := p.peek(); {
		case c == '{':
			p.advance()
			s, ok := p.balanced('{', '}')
			if !ok {
				return "", p.fail(line, "unterminated braced value")
			}
			b.WriteString(s)
		case c == '"':
			p.advance()
			s, ok := p.quoted()
			if !ok {
				return "", p.fail(line, "unterminated quoted value")
			}
			b.WriteString(s)
		case isDigit(c):
			start := p.pos
			for !p.eof() && isDigit(p.peek()) {
				p.advance()
			}
			b.WriteString(p.src[start:p.pos])
		case c == 0 || c == closer || c == ',':
			return "", p.fail(line, "missing value")
		default:
			name := p.ident()
			if name == "" {
				return "", p.fail(line, "unexpected character %q in value", c)
			}
			b.WriteString("#" + strings.ToLower(name) + "#")
		}

		p.skipSpace()
		if p.peek() != '#' {
			return b.String(), nil
		}
		p.advance()
	}
}

// balanced returns the text up to the brace that closes an already consumed
// opener and consumes that closer.
func (p *parser) balanced(open, closer byte) (string, bool) {
	start := p.pos
	depth := 1
	for !p.eof() {
		switch p.advance() {
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return p.src[start : p.pos-1], true
			}
		}
	}
	return "", false
}

// quoted returns the text up to the closing '"' at brace depth zero.
func (p *parser) quoted() (string, bool) {
	start := p.pos
	depth := 0
	for !p.eof() {
		switch p.advance() {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '"':
			if depth == 0 {
				return p.src[start : p.pos-1], true
			}
		}
	}
	return "", false
}

// ident reads a BibTeX identifier: entry types, field names and macro
// names.
func (p *parser) ident() string {
	start := p.pos
	for !p.eof() && isIdentByte(p.peek()) {
		p.advance()
	}
	return p.src[start:p.pos]
}

func isIdentByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', isDigit(b):
		return true
	case b >= 0x80:
		return true
	}
	return strings.IndexByte("_-:.+/'!$&*<>?[]^`|", b) >= 0
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}
