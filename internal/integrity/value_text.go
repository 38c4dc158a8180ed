// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package integrity

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/bibcheck/internal/latex"
	"github.com/pdiddy/bibcheck/internal/textnorm"
)

// Checker ids.
const (
	IDASCII       = "ascii"
	IDUTF8        = "utf8"
	IDNFC         = "nfc"
	IDBraces      = "braces"
	IDAmpersand   = "ampersand"
	IDHash        = "hash"
	IDHTML        = "html"
	IDBareURL     = "bare-url"
	IDLatex       = "latex"
	IDDOI         = "doi"
	IDISBN        = "isbn"
	IDISSN        = "issn"
	IDURL         = "url"
	IDPages       = "pages"
	IDYear        = "year"
	IDDate        = "date"
	IDMonth       = "month"
	IDEdition     = "edition"
	IDTitleCase   = "title-case"
	IDPersonNames = "person-names"
	IDNote        = "note"
	IDHowPub      = "howpublished"
	IDBooktitle   = "booktitle"
	IDCitationKey = "citation-key"
	IDPredatory   = "predatory"
	IDFile        = "file"
)

// asciiChecker rejects characters outside printable ASCII. TAB, LF and CR
// are tolerated.
type asciiChecker struct{}

func (asciiChecker) ID() string { return IDASCII }

func (asciiChecker) CheckValue(v string) (string, bool) {
	for _, r := range v {
		if r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if r < 0x20 || r > 0x7e {
			return fmt.Sprintf("Non-ASCII encoded character found: %q", r), true
		}
	}
	return "", false
}

type utf8Checker struct{}

func (utf8Checker) ID() string { return IDUTF8 }

func (utf8Checker) CheckValue(v string) (string, bool) {
	if !utf8.ValidString(v) {
		return "Non-UTF-8 encoded field found", true
	}
	return "", false
}

type nfcChecker struct{}

func (nfcChecker) ID() string { return IDNFC }

func (nfcChecker) CheckValue(v string) (string, bool) {
	if !textnorm.IsNFC(v) {
		return `Value is not in Unicode's Normalization Form "Canonical Composition" (NFC) format`, true
	}
	return "", false
}

type bracesChecker struct{}

func (bracesChecker) ID() string { return IDBraces }

func (bracesChecker) CheckValue(v string) (string, bool) {
	switch depth := braceBalance(v); {
	case depth < 0:
		return "unexpected closing curly bracket", true
	case depth > 0:
		return "unexpected opening curly bracket", true
	}
	return "", false
}

type ampersandChecker struct{}

func (ampersandChecker) ID() string { return IDAmpersand }

func (ampersandChecker) CheckValue(v string) (string, bool) {
	if n := countUnescaped(v, '&'); n > 0 {
		return fmt.Sprintf("Found %d unescaped '&'", n), true
	}
	return "", false
}

// hashChecker requires an even number of unescaped '#', the delimiters of
// @string references.
type hashChecker struct{}

func (hashChecker) ID() string { return IDHash }

func (hashChecker) CheckValue(v string) (string, bool) {
	if countUnescaped(v, '#')%2 == 1 {
		return "odd number of unescaped '#'", true
	}
	return "", false
}

var htmlEntity = regexp.MustCompile(`&(?:#[0-9]+|#[xX][0-9a-fA-F]+|[A-Za-z][A-Za-z0-9]*);`)

type htmlChecker struct{}

func (htmlChecker) ID() string { return IDHTML }

func (htmlChecker) CheckValue(v string) (string, bool) {
	if m := htmlEntity.FindString(v); m != "" {
		return fmt.Sprintf("HTML encoded character found: %s", m), true
	}
	return "", false
}

var bareURL = regexp.MustCompile(`(?i)\b(?:https?|ftp)://`)

type bareURLChecker struct{}

func (bareURLChecker) ID() string { return IDBareURL }

func (bareURLChecker) CheckValue(v string) (string, bool) {
	if bareURL.MatchString(v) {
		return "contains a URL; move it to the url field", true
	}
	return "", false
}

// stringRef matches an @string reference such as #jan#.
var stringRef = regexp.MustCompile(`#[^#\s{}]+#`)

// latexChecker validates TeX syntax. The validator stops at the first
// error, so at most one message is produced. @string references are not
// TeX and are removed first.
type latexChecker struct{}

func (latexChecker) ID() string { return IDLatex }

func (latexChecker) CheckValue(v string) (string, bool) {
	v = stringRef.ReplaceAllString(v, "")
	if !strings.ContainsAny(v, `\{}$^_&%#~`) {
		return "", false
	}
	errs := latex.Validate(v)
	if len(errs) == 0 {
		return "", false
	}
	return errs[0].Error(), true
}
