// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package integrity

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/bibcheck/internal/authors"
	"github.com/pdiddy/bibcheck/internal/keypattern"
	"github.com/pdiddy/bibcheck/pkg/types"
)

var innermostGroup = regexp.MustCompile(`\{[^{}]*\}`)

// titleCaseChecker flags capitals that BibTeX styles would lower-case.
// Protected text in braces is ignored; each subtitle may start with a
// capital.
type titleCaseChecker struct{}

func (titleCaseChecker) ID() string { return IDTitleCase }

func (titleCaseChecker) CheckValue(v string) (string, bool) {
	if t := strings.TrimSpace(v); strings.HasPrefix(t, "[") {
		if end := strings.Index(t, "]"); end >= 0 && strings.TrimSpace(t[end+1:]) != "" {
			return "translated title must follow the main title", true
		}
	}

	stripped := v
	for innermostGroup.MatchString(stripped) {
		stripped = innermostGroup.ReplaceAllString(stripped, "")
	}
	subtitles := strings.FieldsFunc(stripped, func(r rune) bool {
		return strings.ContainsRune(".!?;:[", r)
	})
	for _, sub := range subtitles {
		sub = strings.TrimSpace(sub)
		if sub == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(sub)
		for _, r := range sub[size:] {
			if unicode.IsUpper(r) || unicode.IsTitle(r) {
				return "capital letters are not masked using curly brackets {}", true
			}
		}
	}
	return "", false
}

// personNamesChecker accepts a name list only when it is written exactly in
// one of the two canonical shapes, "Last, First and ..." or
// "First Last and ...".
type personNamesChecker struct {
	dialect types.Dialect
	strict  bool
}

func (personNamesChecker) ID() string { return IDPersonNames }

func (c personNamesChecker) CheckValue(v string) (string, bool) {
	if strings.TrimSpace(v) == "" {
		return "", false
	}
	lower := strings.ToLower(strings.TrimSpace(v))
	switch {
	case strings.HasPrefix(lower, "and ") || strings.HasPrefix(lower, ","):
		return "should start with a name", true
	case strings.HasSuffix(lower, " and") || strings.HasSuffix(lower, ","):
		return "should end with a name", true
	}

	list := authors.Parse(v)
	plain := removeBraces(v)
	if removeBraces(list.AsLastFirst()) != plain && removeBraces(list.AsFirstLast()) != plain {
		return c.formatError(), true
	}
	if c.strict && c.dialect == types.BibTeX && firstLastCount(v) > 1 {
		return c.formatError(), true
	}
	return "", false
}

func (c personNamesChecker) formatError() string {
	return fmt.Sprintf("Names are not in the standard %s format.", dialectName(c.dialect))
}

// firstLastCount counts names written "First Last", i.e. without a comma
// and with a first name.
func firstLastCount(v string) int {
	n := 0
	for _, name := range authors.SplitNames(v) {
		if authors.CommaCount(name) > 0 {
			continue
		}
		if a := authors.Parse(name); len(a) == 1 && !a[0].Corporate && a[0].First != "" {
			n++
		}
	}
	return n
}

func removeBraces(s string) string {
	return strings.NewReplacer("{", "", "}", "").Replace(s)
}

func dialectName(d types.Dialect) string {
	if d == types.BibLaTeX {
		return "BibLaTeX"
	}
	return "BibTeX"
}

// capitalStartChecker requires note and howpublished to start with
// anything but a lower-case ASCII letter. BibTeX only.
type capitalStartChecker struct {
	id string
}

func (c capitalStartChecker) ID() string { return c.id }

func (capitalStartChecker) CheckValue(v string) (string, bool) {
	t := strings.TrimSpace(v)
	if t != "" && t[0] >= 'a' && t[0] <= 'z' {
		return "should have the first letter capitalized", true
	}
	return "", false
}

type booktitleChecker struct{}

func (booktitleChecker) ID() string { return IDBooktitle }

func (booktitleChecker) CheckValue(v string) (string, bool) {
	if strings.HasSuffix(strings.ToLower(strings.TrimSpace(v)), "conference on") {
		return "booktitle ends with 'conference on'", true
	}
	return "", false
}

type citationKeyChecker struct{}

func (citationKeyChecker) ID() string { return IDCitationKey }

func (citationKeyChecker) CheckValue(v string) (string, bool) {
	if strings.TrimSpace(v) == "" {
		return "empty citation key", true
	}
	if !keypattern.IsLegalKey(v) {
		return "Invalid citation key", true
	}
	return "", false
}
