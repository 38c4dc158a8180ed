// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keypattern generates citation keys from bracketed patterns such
// as "[auth][year]" or "[auth:lower]-[shorttitle:abbr]".
package keypattern

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/bibcheck/internal/authors"
	"github.com/pdiddy/bibcheck/internal/textnorm"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// DefaultUnwanted lists characters removed from generated keys in addition
// to the characters that are never legal in a key.
const DefaultUnwanted = "`ʹ:!;?^+"

// illegalKeyChars can never appear in a citation key.
const illegalKeyChars = "{}(),\\\"#~^'%`"

// Generator expands a pattern against entries.
type Generator struct {
	source  string
	pattern []token

	// Unwanted characters are stripped from the final key.
	Unwanted string

	// Resolve looks up a crossref parent so that missing fields can be
	// inherited. Nil disables inheritance.
	Resolve func(key string) *types.Entry
}

type token struct {
	literal   string
	marker    string
	modifiers []string
}

// New parses pattern. Unclosed brackets are kept as literal text.
func New(pattern string) *Generator {
	return &Generator{source: pattern, pattern: parse(pattern), Unwanted: DefaultUnwanted}
}

// Pattern returns the pattern g was built from.
func (g *Generator) Pattern() string { return g.source }

// ForCollection returns a generator for entries of entryType in c, or nil
// when no pattern applies. The pattern is chosen by PatternFor. Crossref
// parents are resolved through keys; a nil index is built from c.
func ForCollection(c *types.Collection, keys map[string][]*types.Entry, entryType string, perType map[string]string, fallback string) *Generator {
	p := PatternFor(c, entryType, perType, fallback)
	if strings.TrimSpace(p) == "" {
		return nil
	}
	if keys == nil {
		keys = c.KeyIndex()
	}
	g := New(p)
	g.Resolve = ResolverFor(keys)
	return g
}

// PatternFor picks the pattern for entries of entryType: the collection's
// own declaration first, then the per-type and default settings.
func PatternFor(c *types.Collection, entryType string, perType map[string]string, fallback string) string {
	if p := c.KeyPatternFor(entryType); strings.TrimSpace(p) != "" {
		return p
	}
	if p := perType[strings.ToLower(entryType)]; strings.TrimSpace(p) != "" {
		return p
	}
	return fallback
}

// ResolverFor returns a crossref resolver over a key index.
func ResolverFor(keys map[string][]*types.Entry) func(string) *types.Entry {
	return func(key string) *types.Entry {
		if es := keys[key]; len(es) > 0 {
			return es[0]
		}
		return nil
	}
}

// Generate returns the key pattern expands to for e. The result may be empty
// when every marker is empty.
func (g *Generator) Generate(e *types.Entry) string {
	var b strings.Builder
	for _, t := range g.pattern {
		if t.marker == "" {
			b.WriteString(t.literal)
			continue
		}
		b.WriteString(g.expand(e, t))
	}
	return CleanKey(b.String(), g.Unwanted)
}

// Unique returns base, or base with the first suffix a, b, ..., z, aa, ...
// that no other entry in keys uses. A key already owned by e itself counts
// as free. keys is typically types.Collection.KeyIndex.
func Unique(base string, e *types.Entry, keys map[string][]*types.Entry) string {
	if base == "" {
		return ""
	}
	free := func(k string) bool {
		for _, other := range keys[k] {
			if other != e {
				return false
			}
		}
		return true
	}
	if free(base) {
		return base
	}
	for n := 0; ; n++ {
		k := base + suffix(n)
		if free(k) {
			return k
		}
	}
}

// suffix maps 0 → "a", 25 → "z", 26 → "aa".
func suffix(n int) string {
	var s []byte
	for n >= 0 {
		s = append([]byte{byte('a' + n%26)}, s...)
		n = n/26 - 1
	}
	return string(s)
}

// IsLegalKey reports whether key is free of whitespace and of characters
// that can never appear in a citation key.
func IsLegalKey(key string) bool {
	return strings.IndexFunc(key, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(illegalKeyChars, r)
	}) < 0
}

// CleanKey removes whitespace, LaTeX markup, diacritics, illegal key
// characters and the unwanted set from key.
func CleanKey(key, unwanted string) string {
	key = textnorm.ASCII(key)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || strings.ContainsRune(illegalKeyChars, r) || strings.ContainsRune(unwanted, r) {
			return -1
		}
		return r
	}, key)
}

func parse(pattern string) []token {
	var tokens []token
	for len(pattern) > 0 {
		open := strings.IndexByte(pattern, '[')
		if open < 0 {
			tokens = append(tokens, token{literal: pattern})
			break
		}
		closing := closingBracket(pattern, open)
		if closing < 0 {
			tokens = append(tokens, token{literal: pattern})
			break
		}
		if open > 0 {
			tokens = append(tokens, token{literal: pattern[:open]})
		}
		parts := splitModifiers(pattern[open+1 : closing])
		tokens = append(tokens, token{marker: parts[0], modifiers: parts[1:]})
		pattern = pattern[closing+1:]
	}
	return tokens
}

// closingBracket finds the "]" matching the "[" at open, skipping brackets
// inside a parenthesised fallback.
func closingBracket(s string, open int) int {
	paren := 0
	for i := open + 1; i < len(s); i++ {
		switch s[i] {
		case '(':
			paren++
		case ')':
			if paren > 0 {
				paren--
			}
		case ']':
			if paren == 0 {
				return i
			}
		}
	}
	return -1
}

// splitModifiers splits "auth:lower:(x:y)" on colons outside parentheses.
func splitModifiers(s string) []string {
	var parts []string
	paren, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			paren++
		case ')':
			if paren > 0 {
				paren--
			}
		case ':':
			if paren == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func (g *Generator) expand(e *types.Entry, t token) string {
	v := g.marker(e, t.marker)
	for _, m := range t.modifiers {
		v = applyModifier(v, m)
	}
	return v
}

// field returns name's value from e, falling back to its crossref parent.
func (g *Generator) field(e *types.Entry, name string) string {
	if v := e.Value(name); strings.TrimSpace(v) != "" {
		return v
	}
	if g.Resolve == nil {
		return ""
	}
	ref := strings.TrimSpace(e.FirstOf("crossref", "xref"))
	if ref == "" {
		return ""
	}
	if parent := g.Resolve(ref); parent != nil && parent != e {
		return parent.Value(name)
	}
	return ""
}

func (g *Generator) marker(e *types.Entry, m string) string {
	switch m {
	case "auth", "authors", "authEtAl", "auth.etal", "authshort", "authorIni",
		"authForeIni", "authFirstFull", "authorLast", "authorLastForeIni":
		return authorMarker(g.people(e, "author", "editor"), m)
	case "edtr", "editors", "edtrEtAl", "edtr.edtr.ea", "editorLast":
		return authorMarker(g.people(e, "editor"), editorAlias(m))
	case "year":
		return g.year(e)
	case "shortyear":
		y := g.year(e)
		if len(y) > 2 {
			return y[len(y)-2:]
		}
		return y
	case "title":
		return titleWords(g.field(e, "title"))
	case "shorttitle":
		return strings.Join(firstN(significantWords(g.field(e, "title")), 3), " ")
	case "veryshorttitle":
		return strings.Join(firstN(significantWords(g.field(e, "title")), 1), " ")
	case "shorttitleINI":
		return initials(firstN(words(g.field(e, "title")), 3))
	case "camel":
		return camel(g.field(e, "title"))
	case "firstpage", "lastpage":
		return page(g.field(e, "pages"), m == "lastpage")
	case "keywords":
		return strings.Join(keywords(g.field(e, "keywords")), " ")
	case "entrytype":
		return e.Type
	}

	switch {
	case strings.HasPrefix(m, "authIni"):
		if n, ok := number(m[len("authIni"):]); ok {
			return authIni(g.people(e, "author", "editor"), n)
		}
	case strings.HasPrefix(m, "authors"):
		if n, ok := number(m[len("authors"):]); ok {
			return authorsN(g.people(e, "author", "editor"), n)
		}
	case strings.HasPrefix(m, "auth"):
		if v, ok := authNM(g.people(e, "author", "editor"), m[len("auth"):]); ok {
			return v
		}
	case strings.HasPrefix(m, "keyword"):
		if n, ok := number(m[len("keyword"):]); ok {
			kw := keywords(g.field(e, "keywords"))
			if n >= 1 && n <= len(kw) {
				return kw[n-1]
			}
			return ""
		}
	}
	return textnorm.StripLatex(g.field(e, strings.ToLower(m)))
}

func editorAlias(m string) string {
	switch m {
	case "edtr":
		return "auth"
	case "editors":
		return "authors"
	case "edtrEtAl", "edtr.edtr.ea":
		return "authEtAl"
	default:
		return "authorLast"
	}
}

// people returns the parsed list of the first non-empty field among names,
// with names converted to plain ASCII.
func (g *Generator) people(e *types.Entry, names ...string) authors.List {
	for _, n := range names {
		v := g.field(e, n)
		if strings.TrimSpace(v) == "" {
			continue
		}
		list := authors.Parse(v)
		for i := range list {
			list[i].Last = plainName(list[i].Last)
			list[i].Von = plainName(list[i].Von)
			list[i].First = plainName(list[i].First)
		}
		return list
	}
	return nil
}

func plainName(s string) string {
	return strings.TrimSpace(textnorm.ASCII(s))
}

func lastName(a authors.Author) string {
	return strings.ReplaceAll(a.Last, " ", "")
}

func authorMarker(list authors.List, m string) string {
	named := list.Named()
	if len(named) == 0 {
		return ""
	}
	first := named[0]
	switch m {
	case "auth":
		return lastName(first)
	case "authors":
		var b strings.Builder
		for _, a := range named {
			b.WriteString(lastName(a))
		}
		if list.HasOthers() {
			b.WriteString("EtAl")
		}
		return b.String()
	case "authEtAl":
		switch {
		case len(named) == 1 && !list.HasOthers():
			return lastName(first)
		case len(named) == 2 && !list.HasOthers():
			return lastName(first) + "And" + lastName(named[1])
		default:
			return lastName(first) + "EtAl"
		}
	case "auth.etal":
		switch {
		case len(named) == 1 && !list.HasOthers():
			return lastName(first)
		case len(named) == 2 && !list.HasOthers():
			return lastName(first) + "." + lastName(named[1])
		default:
			return lastName(first) + ".etal"
		}
	case "authshort":
		if len(named) == 1 {
			return lastName(first)
		}
		var b strings.Builder
		for _, a := range firstN(named, 3) {
			b.WriteString(prefix(lastName(a), 1))
		}
		if len(named) > 3 || list.HasOthers() {
			b.WriteString("+")
		}
		return b.String()
	case "authorIni":
		s := prefix(lastName(first), 5)
		for _, a := range named[1:] {
			s += prefix(lastName(a), 1)
		}
		return s
	case "authForeIni":
		return prefix(first.First, 1)
	case "authFirstFull":
		return strings.ReplaceAll(first.LastOnly(), " ", "")
	case "authorLast":
		return lastName(named[len(named)-1])
	case "authorLastForeIni":
		return prefix(named[len(named)-1].First, 1)
	}
	return ""
}

// authorsN lists the first n last names, adding "EtAl" when there are more.
func authorsN(list authors.List, n int) string {
	named := list.Named()
	if n <= 0 || len(named) == 0 {
		return ""
	}
	var b strings.Builder
	for _, a := range firstN(named, n) {
		b.WriteString(lastName(a))
	}
	if len(named) > n || list.HasOthers() {
		b.WriteString("EtAl")
	}
	return b.String()
}

// authNM handles "[authN]" and "[authN_M]": the first N characters of the
// first (or M-th) author's last name.
func authNM(list authors.List, rest string) (string, bool) {
	nPart, mPart, hasM := strings.Cut(rest, "_")
	n, ok := number(nPart)
	if !ok {
		return "", false
	}
	idx := 1
	if hasM {
		if idx, ok = number(mPart); !ok || idx < 1 {
			return "", false
		}
	}
	named := list.Named()
	if idx > len(named) {
		return "", true
	}
	return prefix(lastName(named[idx-1]), n), true
}

// authIni builds at most n characters from the beginnings of the last
// names. The first author receives the share left over by the division.
func authIni(list authors.List, n int) string {
	named := list.Named()
	if n <= 0 || len(named) == 0 {
		return ""
	}
	k := min(len(named), n)
	per := n / k
	var b strings.Builder
	for i, a := range named[:k] {
		take := per
		if i == 0 {
			take = n - per*(k-1)
		}
		b.WriteString(prefix(lastName(a), take))
	}
	return b.String()
}

func (g *Generator) year(e *types.Entry) string {
	if y := strings.TrimSpace(g.field(e, "year")); y != "" {
		return textnorm.StripLatex(y)
	}
	date := g.field(e, "date")
	for i := 0; i+4 <= len(date); i++ {
		if isDigits(date[i : i+4]) {
			return date[i : i+4]
		}
	}
	return ""
}

// page extracts the first or last page number of a pages value.
func page(pages string, last bool) string {
	fields := strings.FieldsFunc(pages, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return ""
	}
	if last {
		return fields[len(fields)-1]
	}
	return fields[0]
}

func keywords(value string) []string {
	var out []string
	for _, k := range strings.Split(textnorm.StripLatex(value), ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func number(s string) (int, bool) {
	if s == "" || !isDigits(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

func firstN[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
