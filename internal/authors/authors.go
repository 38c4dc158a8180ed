// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package authors parses BibTeX person-name lists ("Last, First and ...",
// "First von Last and ...") and renders them back in either canonical
// shape.
package authors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Author is one parsed person or corporate name.
type Author struct {
	First string
	Von   string
	Last  string
	Jr    string

	// Corporate is set for names written entirely inside braces.
	Corporate bool
}

// others is the BibTeX marker for an elided tail of an author list.
const others = "others"

// IsOthers reports whether a is the "and others" marker.
func (a Author) IsOthers() bool {
	return a.Last == others && a.First == "" && a.Von == "" && a.Jr == ""
}

// LastOnly returns the von part and last name.
func (a Author) LastOnly() string {
	if a.Von == "" {
		return a.Last
	}
	return a.Von + " " + a.Last
}

// LastFirst renders "von Last, Jr, First".
func (a Author) LastFirst() string {
	s := a.LastOnly()
	if a.Jr != "" {
		s += ", " + a.Jr
	}
	if a.First != "" {
		s += ", " + a.First
	}
	return s
}

// FirstLast renders "First von Last, Jr".
func (a Author) FirstLast() string {
	var parts []string
	if a.First != "" {
		parts = append(parts, a.First)
	}
	if a.Von != "" {
		parts = append(parts, a.Von)
	}
	parts = append(parts, a.Last)
	s := strings.Join(parts, " ")
	if a.Jr != "" {
		s += ", " + a.Jr
	}
	return s
}

// Initials returns the first letter of every first-name token, e.g. "DE"
// for "Donald E.".
func (a Author) Initials() string {
	var b strings.Builder
	for _, tok := range splitTokens(a.First) {
		for _, part := range strings.Split(tok, "-") {
			if r := firstLetter(part); r != 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// List is an ordered author list.
type List []Author

// Parse splits value on top-level "and" separators and parses each name.
// Blank input yields an empty list.
func Parse(value string) List {
	var list List
	for _, raw := range SplitNames(value) {
		list = append(list, parseName(raw))
	}
	return list
}

// AsLastFirst renders the list as "Last, First and Last, First".
func (l List) AsLastFirst() string {
	names := make([]string, len(l))
	for i, a := range l {
		names[i] = a.LastFirst()
	}
	return strings.Join(names, " and ")
}

// AsFirstLast renders the list as "First Last and First Last".
func (l List) AsFirstLast() string {
	names := make([]string, len(l))
	for i, a := range l {
		names[i] = a.FirstLast()
	}
	return strings.Join(names, " and ")
}

// HasOthers reports whether the list ends with the "others" marker.
func (l List) HasOthers() bool {
	return len(l) > 0 && l[len(l)-1].IsOthers()
}

// Named returns the list without the trailing "others" marker.
func (l List) Named() List {
	if l.HasOthers() {
		return l[:len(l)-1]
	}
	return l
}

// SplitNames splits value at "and" tokens outside braces. Surrounding
// whitespace of every name is trimmed; empty names are dropped.
func SplitNames(value string) []string {
	var (
		names []string
		depth int
		start int
	)
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case 'a', 'A':
			if depth != 0 || i+3 > len(value) || !strings.EqualFold(value[i:i+3], "and") {
				continue
			}
			if i == 0 || !isSpace(value[i-1]) {
				continue
			}
			if i+3 < len(value) && !isSpace(value[i+3]) {
				continue
			}
			if n := strings.TrimSpace(value[start:i]); n != "" {
				names = append(names, n)
			}
			start = i + 3
			i += 2
		}
	}
	if n := strings.TrimSpace(value[start:]); n != "" {
		names = append(names, n)
	}
	return names
}

// CommaCount returns the number of commas outside braces in name.
func CommaCount(name string) int {
	depth, n := 0, 0
	for _, r := range name {
		switch r {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				n++
			}
		}
	}
	return n
}

func parseName(raw string) Author {
	if isWrappedInBraces(raw) {
		return Author{Last: raw, Corporate: true}
	}
	if strings.EqualFold(raw, others) {
		return Author{Last: others}
	}

	parts := splitTopLevel(raw, ',')
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch len(parts) {
	case 1:
		return parseFirstVonLast(splitTokens(parts[0]))
	case 2:
		von, last := splitVonLast(splitTokens(parts[0]))
		return Author{First: joinTokens(parts[1]), Von: von, Last: last}
	default:
		von, last := splitVonLast(splitTokens(parts[0]))
		return Author{
			First: joinTokens(strings.Join(parts[2:], ", ")),
			Von:   von,
			Last:  last,
			Jr:    joinTokens(parts[1]),
		}
	}
}

// parseFirstVonLast handles "First von Last". The von part runs from the
// first to the last lower-case token that is not the final token.
func parseFirstVonLast(tokens []string) Author {
	if len(tokens) == 0 {
		return Author{}
	}
	if len(tokens) == 1 {
		return Author{Last: tokens[0]}
	}

	vonStart, vonEnd := -1, -1
	for i := 0; i < len(tokens)-1; i++ {
		if isLowerToken(tokens[i]) {
			if vonStart < 0 {
				vonStart = i
			}
			vonEnd = i
		}
	}
	if vonStart < 0 {
		return Author{
			First: strings.Join(tokens[:len(tokens)-1], " "),
			Last:  tokens[len(tokens)-1],
		}
	}
	return Author{
		First: strings.Join(tokens[:vonStart], " "),
		Von:   strings.Join(tokens[vonStart:vonEnd+1], " "),
		Last:  strings.Join(tokens[vonEnd+1:], " "),
	}
}

// splitVonLast splits "von Last" where von is the longest prefix ending in
// a lower-case token, never consuming the final token.
func splitVonLast(tokens []string) (string, string) {
	if len(tokens) == 0 {
		return "", ""
	}
	vonEnd := -1
	for i := 0; i < len(tokens)-1; i++ {
		if isLowerToken(tokens[i]) {
			vonEnd = i
		}
	}
	return strings.Join(tokens[:vonEnd+1], " "), strings.Join(tokens[vonEnd+1:], " ")
}

func joinTokens(s string) string {
	return strings.Join(splitTokens(s), " ")
}

// splitTokens splits on whitespace outside braces.
func splitTokens(s string) []string {
	var (
		tokens []string
		cur    strings.Builder
		depth  int
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '{':
			depth++
			cur.WriteRune(r)
		case r == '}':
			if depth > 0 {
				depth--
			}
			cur.WriteRune(r)
		case unicode.IsSpace(r) && depth == 0:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func splitTopLevel(s string, sep rune) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + utf8.RuneLen(r)
			}
		}
	}
	return append(parts, s[start:])
}

// isLowerToken reports whether the first letter of tok at brace depth zero
// is lower case. Tokens starting with a brace group count as upper case.
func isLowerToken(tok string) bool {
	for _, r := range tok {
		if r == '{' {
			return false
		}
		if unicode.IsLetter(r) {
			return unicode.IsLower(r)
		}
	}
	return false
}

func isWrappedInBraces(s string) bool {
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}

func firstLetter(s string) rune {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return unicode.ToUpper(r)
		}
	}
	return 0
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
