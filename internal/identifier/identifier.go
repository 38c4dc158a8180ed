// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package identifier recognises and validates bibliographic identifiers:
// DOIs, ISBNs, ISSNs, arXiv ids and URLs.
package identifier

import (
	"net/url"
	"regexp"
	"strings"
)

// Type classifies an identifier value.
type Type int

const (
	TypeUnknown Type = iota
	TypeArxiv
	TypeDOI
	TypeISBN
	TypeISSN
	TypeURL
)

func (t Type) String() string {
	switch t {
	case TypeArxiv:
		return "arxiv"
	case TypeDOI:
		return "doi"
	case TypeISBN:
		return "isbn"
	case TypeISSN:
		return "issn"
	case TypeURL:
		return "url"
	default:
		return "unknown"
	}
}

// arxivPattern matches new-style ids ("2301.07041", "arXiv:2301.07041v2")
// and old-style ids ("hep-th/9901001", "math.AG/0601001v1").
var arxivPattern = regexp.MustCompile(`^(?i:arXiv:)?(\d{4}\.\d{4,5}(?:v\d+)?|[a-z-]+(?:\.[A-Z]{2})?/\d{7}(?:v\d+)?)$`)

// IsArxiv reports whether s is an arXiv identifier.
func IsArxiv(s string) bool {
	return arxivPattern.MatchString(strings.TrimSpace(s))
}

// Classify determines the identifier type and returns the normalized form.
// DOIs lose their resolver prefix and arXiv ids their "arXiv:" prefix.
func Classify(identifier string) (Type, string) {
	identifier = strings.TrimSpace(identifier)

	if m := arxivPattern.FindStringSubmatch(identifier); m != nil {
		return TypeArxiv, m[1]
	}

	if d, err := ParseDOI(identifier); err == nil {
		return TypeDOI, d
	}

	if ValidISSN(identifier) {
		return TypeISSN, identifier
	}

	if ValidISBN(identifier) {
		return TypeISBN, compact(identifier)
	}

	if u, err := url.Parse(identifier); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return TypeURL, identifier
	}

	return TypeUnknown, identifier
}

// compact drops hyphens and spaces.
func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, s)
}
