// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identifier

import (
	"regexp"
	"strings"
)

var (
	isbn10Pattern = regexp.MustCompile(`^\d{9}[\dxX]$`)
	isbn13Pattern = regexp.MustCompile(`^97[89]\d{10}$`)
	issnPattern   = regexp.MustCompile(`^\d{4}-\d{3}[\dxX]$`)
)

// ValidISBN reports whether s is an ISBN-10 or ISBN-13 with a correct check
// digit. Hyphens and spaces between digit groups are ignored.
func ValidISBN(s string) bool {
	c := compact(strings.TrimSpace(s))
	switch len(c) {
	case 10:
		return isbn10Pattern.MatchString(c) && isbn10Checksum(c)
	case 13:
		return isbn13Pattern.MatchString(c) && ean13Checksum(c)
	default:
		return false
	}
}

// ISBNWellFormed reports whether s has the layout of an ISBN-10 or
// ISBN-13, regardless of its check digit.
func ISBNWellFormed(s string) bool {
	c := compact(strings.TrimSpace(s))
	return isbn10Pattern.MatchString(c) || isbn13Pattern.MatchString(c)
}

// ISSNWellFormed reports whether s has the layout NNNN-NNNC.
func ISSNWellFormed(s string) bool {
	return issnPattern.MatchString(strings.TrimSpace(s))
}

// isbn10Checksum applies weights 10..1; X stands for 10 in the last place.
func isbn10Checksum(s string) bool {
	sum := 0
	for i := 0; i < 10; i++ {
		sum += (10 - i) * digitValue(s[i])
	}
	return sum%11 == 0
}

// ean13Checksum applies alternating weights 1 and 3.
func ean13Checksum(s string) bool {
	sum := 0
	for i := 0; i < 13; i++ {
		w := 1
		if i%2 == 1 {
			w = 3
		}
		sum += w * digitValue(s[i])
	}
	return sum%10 == 0
}

// ValidISSN reports whether s has the form NNNN-NNNC with a correct mod-11
// check digit C (X or x for ten).
func ValidISSN(s string) bool {
	s = strings.TrimSpace(s)
	if !issnPattern.MatchString(s) {
		return false
	}
	c := compact(s)
	sum := 0
	for i := 0; i < 7; i++ {
		sum += (8 - i) * digitValue(c[i])
	}
	check := (11 - sum%11) % 11
	return check == digitValue(c[7])
}

func digitValue(b byte) int {
	if b == 'x' || b == 'X' {
		return 10
	}
	return int(b - '0')
}
