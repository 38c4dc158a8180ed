// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textnorm converts bibliography text to plain forms used for
// comparison and key generation: LaTeX markup removed, diacritics folded.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// latexAccents maps TeX accent commands to the Unicode combining mark they
// add to the following letter.
var latexAccents = map[string]rune{
	"`":  '\u0300',
	"'":  '\u0301',
	"^":  '\u0302',
	"~":  '\u0303',
	"=":  '\u0304',
	"u":  '\u0306',
	".":  '\u0307',
	"\"": '\u0308',
	"r":  '\u030a',
	"H":  '\u030b',
	"v":  '\u030c',
	"d":  '\u0323',
	"c":  '\u0327',
	"k":  '\u0328',
	"b":  '\u0331',
}

// latexSymbols maps letter-like TeX commands to their text.
var latexSymbols = map[string]string{
	"ss": "ß", "ae": "æ", "AE": "Æ", "oe": "œ", "OE": "Œ", "aa": "å", "AA": "Å",
	"o": "ø", "O": "Ø", "l": "ł", "L": "Ł", "i": "ı", "j": "j", "&": "&",
	"%": "%", "$": "$", "#": "#", "_": "_", "{": "{", "}": "}",
}

// StripLatex removes TeX markup from s: accent commands become combining
// characters, letter commands become their letters, other commands and all
// braces are dropped while their arguments are kept.
func StripLatex(s string) string {
	if !strings.ContainsAny(s, `\{}`) {
		return s
	}
	var b strings.Builder
	rs := []rune(s)
	var pendingMark rune
	emit := func(r rune) {
		b.WriteRune(r)
		if pendingMark != 0 && unicode.IsLetter(r) {
			b.WriteRune(pendingMark)
			pendingMark = 0
		}
	}
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '{' || r == '}':
			continue
		case r == '\\' && i+1 < len(rs):
			j := i + 1
			var name string
			if isASCIILetter(rs[j]) {
				for j < len(rs) && isASCIILetter(rs[j]) {
					j++
				}
				name = string(rs[i+1 : j])
			} else {
				name = string(rs[j])
				j++
			}
			i = j - 1
			if mark, ok := latexAccents[name]; ok && (len(name) > 1 || !isASCIILetter(rune(name[0])) || accentTargetFollows(rs, j)) {
				pendingMark = mark
				for i+1 < len(rs) && rs[i+1] == ' ' && isASCIILetter(rune(name[0])) {
					i++
				}
				continue
			}
			if sym, ok := latexSymbols[name]; ok {
				for _, sr := range sym {
					emit(sr)
				}
				continue
			}
			if name == "\\" || name == " " {
				emit(' ')
			}
		default:
			emit(r)
		}
	}
	return norm.NFC.String(b.String())
}

// accentTargetFollows reports whether a letter-named accent such as \c or
// \v is followed by its target rather than being a longer command name.
func accentTargetFollows(rs []rune, j int) bool {
	return j >= len(rs) || rs[j] == '{' || rs[j] == ' '
}

// transliterations are applied before diacritics are dropped so that German
// umlauts keep their conventional two-letter forms.
var transliterations = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue", "Ä", "Ae", "Ö", "Oe", "Ü", "Ue",
	"ß", "ss", "æ", "ae", "Æ", "Ae", "œ", "oe", "Œ", "Oe", "ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L", "ı", "i", "đ", "d", "Đ", "D", "þ", "th", "Þ", "Th",
)

// RemoveDiacritics decomposes s and drops all combining marks.
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// ASCII converts s to plain ASCII letters where possible: LaTeX removed,
// umlauts transliterated, remaining diacritics dropped.
func ASCII(s string) string {
	return RemoveDiacritics(transliterations.Replace(StripLatex(s)))
}

// Fold produces a comparison key: LaTeX removed, diacritics dropped,
// lower-cased, punctuation turned into spaces, runs of spaces collapsed.
func Fold(s string) string {
	s = RemoveDiacritics(StripLatex(s))
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		if r == '&' {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// IsNFC reports whether s is in Unicode normalization form C.
func IsNFC(s string) bool {
	return norm.NFC.IsNormalString(s)
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
