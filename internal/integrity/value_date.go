// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package integrity

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/bibcheck/pkg/types"
)

var (
	bibtexPages   = regexp.MustCompile(`^(?:[A-Za-z]?\d*(?:\+|-{2}[A-Za-z]?\d*)?,)*[A-Za-z]?\d*(?:\+|-{2}[A-Za-z]?\d*)?$`)
	biblatexPages = regexp.MustCompile(`^(?:[A-Za-z]?\d*(?:\+|(?:-{1,2}|–)[A-Za-z]?\d*)?,)*[A-Za-z]?\d*(?:\+|(?:-{1,2}|–)[A-Za-z]?\d*)?$`)
)

// pagesChecker accepts comma-separated page tokens: "N", "N--M" and "N+".
// BibLaTeX also accepts a single dash or an en dash as range separator.
type pagesChecker struct {
	dialect types.Dialect
}

func (pagesChecker) ID() string { return IDPages }

func (c pagesChecker) CheckValue(v string) (string, bool) {
	re := bibtexPages
	if c.dialect == types.BibLaTeX {
		re = biblatexPages
	}
	if v == "" || !re.MatchString(v) {
		return "should contain a valid page number range", true
	}
	return "", false
}

var (
	yearQualifier = regexp.MustCompile(`(?i)^(?:around|circa|ca\.?|c\.?)\s+`)
	fourDigits    = regexp.MustCompile(`^\d{4}$`)
)

// yearPunctuation may surround a year.
const yearPunctuation = "(){},.;!?<>%&$"

// yearChecker strips surrounding punctuation and an "around"/"circa"
// qualifier, then requires exactly four digits.
type yearChecker struct{}

func (yearChecker) ID() string { return IDYear }

func (yearChecker) CheckValue(v string) (string, bool) {
	y := strings.Trim(strings.TrimSpace(v), yearPunctuation)
	y = yearQualifier.ReplaceAllString(y, "")
	y = strings.Trim(strings.TrimSpace(y), yearPunctuation)
	if !fourDigits.MatchString(y) {
		return "should contain a four digit number", true
	}
	return "", false
}

var monthNames = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7, "aug": 8,
	"sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
}

var (
	isoDate      = regexp.MustCompile(`^(\d{4})(?:-(\d{2})(?:-(\d{2}))?)?[~?%]?$`)
	dmyDash      = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
	monthSlash   = regexp.MustCompile(`^(\d{1,2})/(\d{4})$`)
	dmyDot       = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
	ymdDot       = regexp.MustCompile(`^(\d{4})\.(\d{1,2})\.(\d{1,2})$`)
	namedDay     = regexp.MustCompile(`^([A-Za-z]+)\.? (\d{1,2}), (\d{4})$`)
	namedMonth   = regexp.MustCompile(`^([A-Za-z]+)\.? (\d{4})$`)
	openInterval = ".."
)

// dateChecker accepts ISO dates with optional EDTF qualifier, ISO ranges
// and a fixed set of common numeric and named-month layouts.
type dateChecker struct{}

func (dateChecker) ID() string { return IDDate }

func (dateChecker) CheckValue(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if validDate(v) {
		return "", false
	}
	if from, to, ok := strings.Cut(v, "/"); ok && !strings.Contains(to, "/") {
		if validISOOrOpen(from) && validISOOrOpen(to) && (from != "" || to != "") {
			return "", false
		}
	}
	return "incorrect format", true
}

func validISOOrOpen(s string) bool {
	return s == "" || s == openInterval || validISO(s)
}

func validISO(s string) bool {
	m := isoDate.FindStringSubmatch(s)
	return m != nil && validParts(m[3], m[2])
}

func validDate(s string) bool {
	if validISO(s) {
		return true
	}
	if m := dmyDash.FindStringSubmatch(s); m != nil {
		return validParts(m[1], m[2])
	}
	if m := monthSlash.FindStringSubmatch(s); m != nil {
		return validParts("", m[1])
	}
	if m := dmyDot.FindStringSubmatch(s); m != nil {
		return validParts(m[1], m[2])
	}
	if m := ymdDot.FindStringSubmatch(s); m != nil {
		return validParts(m[3], m[2])
	}
	if m := namedDay.FindStringSubmatch(s); m != nil {
		_, ok := monthNames[strings.ToLower(m[1])]
		return ok && validParts(m[2], "")
	}
	if m := namedMonth.FindStringSubmatch(s); m != nil {
		_, ok := monthNames[strings.ToLower(m[1])]
		return ok
	}
	return false
}

// validParts range-checks optional day and month strings.
func validParts(day, month string) bool {
	if month != "" {
		if n, err := strconv.Atoi(month); err != nil || n < 1 || n > 12 {
			return false
		}
	}
	if day != "" {
		if n, err := strconv.Atoi(day); err != nil || n < 1 || n > 31 {
			return false
		}
	}
	return true
}

var (
	normalizedMonth = regexp.MustCompile(`^#(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)#$`)
	integerMonth    = regexp.MustCompile(`^(?:[1-9]|1[0-2])$`)
)

// monthChecker requires the @string form #jan# ... #dec#. BibLaTeX also
// allows the integers 1 to 12.
type monthChecker struct {
	dialect types.Dialect
}

func (monthChecker) ID() string { return IDMonth }

func (c monthChecker) CheckValue(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if normalizedMonth.MatchString(v) {
		return "", false
	}
	if c.dialect == types.BibLaTeX {
		if integerMonth.MatchString(v) {
			return "", false
		}
		return "should be an integer or normalized", true
	}
	return "should be normalized", true
}

var (
	onlyNumerals       = regexp.MustCompile(`^[0-9]+$`)
	numeralsOrLiterals = regexp.MustCompile(`^(?:[0-9]+|[^0-9].+)$`)
)

// editionChecker: BibTeX editions start with a capital letter (or are
// plain integers when allowed); BibLaTeX editions are integers or text not
// starting with a digit.
type editionChecker struct {
	dialect      types.Dialect
	allowInteger bool
}

func (editionChecker) ID() string { return IDEdition }

func (c editionChecker) CheckValue(v string) (string, bool) {
	if v == "" {
		return "", false
	}
	if c.dialect == types.BibLaTeX {
		if !numeralsOrLiterals.MatchString(v) {
			return "should contain an integer or a literal", true
		}
		return "", false
	}
	if c.allowInteger && onlyNumerals.MatchString(v) {
		return "", false
	}
	if !startsWithCapital(v) {
		if onlyNumerals.MatchString(v) {
			return "should contain the edition as text, e.g. Second", true
		}
		return "should have the first letter capitalized", true
	}
	return "", false
}

func startsWithCapital(v string) bool {
	return v[0] >= 'A' && v[0] <= 'Z'
}
