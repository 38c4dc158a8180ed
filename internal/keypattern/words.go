// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keypattern

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/bibcheck/internal/textnorm"
)

// functionWords stay lower case in title case and are skipped by the
// short-title markers.
var functionWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "but": true, "or": true,
	"nor": true, "for": true, "so": true, "yet": true, "as": true, "at": true,
	"by": true, "in": true, "of": true, "off": true, "on": true, "per": true,
	"to": true, "up": true, "via": true, "with": true, "from": true, "into": true,
	"onto": true, "over": true, "than": true, "upon": true, "vs": true, "en": true,
	"de": true, "la": true, "le": true, "les": true, "der": true, "die": true,
	"das": true, "und": true, "von": true, "zu": true, "im": true, "am": true,
}

func isFunctionWord(w string) bool {
	return functionWords[strings.ToLower(w)]
}

func words(title string) []string {
	return strings.Fields(textnorm.StripLatex(title))
}

// significantWords drops function words.
func significantWords(title string) []string {
	var out []string
	for _, w := range words(title) {
		if !isFunctionWord(w) {
			out = append(out, w)
		}
	}
	return out
}

// titleWords upper-cases the first letter of the first word and of every
// word that is not a function word. Other letters are left alone.
func titleWords(title string) string {
	ws := words(title)
	for i, w := range ws {
		if i == 0 || !isFunctionWord(w) {
			ws[i] = upperFirst(w)
		}
	}
	return strings.Join(ws, " ")
}

// camel upper-cases the first letter of every word and drops punctuation.
func camel(title string) string {
	var b strings.Builder
	for _, w := range words(title) {
		w = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, w)
		b.WriteString(upperFirst(w))
	}
	return b.String()
}

func initials(ws []string) string {
	var b strings.Builder
	for _, w := range ws {
		for _, r := range w {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
				break
			}
		}
	}
	return b.String()
}

func upperFirst(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if size == 0 {
		return w
	}
	return string(unicode.ToUpper(r)) + w[size:]
}

func applyModifier(v, m string) string {
	switch {
	case m == "lower":
		return cases.Lower(language.Und).String(v)
	case m == "upper":
		return cases.Upper(language.Und).String(v)
	case m == "capitalize":
		return cases.Title(language.Und).String(v)
	case m == "titlecase" || m == "title_case":
		return titleCase(v)
	case m == "sentencecase" || m == "sentence_case":
		return sentenceCase(v)
	case m == "abbr":
		return initials(strings.Fields(v))
	case strings.HasPrefix(m, "truncate"):
		if n, err := strconv.Atoi(m[len("truncate"):]); err == nil && n >= 0 {
			return strings.TrimSpace(prefix(v, n))
		}
	case len(m) >= 2 && m[0] == '(' && m[len(m)-1] == ')':
		if v == "" {
			return m[1 : len(m)-1]
		}
	}
	return v
}

func titleCase(v string) string {
	title := cases.Title(language.Und)
	ws := strings.Fields(v)
	for i, w := range ws {
		if i > 0 && isFunctionWord(w) {
			ws[i] = strings.ToLower(w)
			continue
		}
		ws[i] = title.String(w)
	}
	return strings.Join(ws, " ")
}

func sentenceCase(v string) string {
	ws := strings.Fields(v)
	for i, w := range ws {
		if i == 0 {
			ws[i] = cases.Title(language.Und).String(w)
			continue
		}
		ws[i] = strings.ToLower(w)
	}
	return strings.Join(ws, " ")
}
