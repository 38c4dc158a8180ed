// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identifier

import (
	"errors"
	"regexp"
	"strings"
)

// Reasons a DOI is rejected.
var (
	ErrDOIPrefix     = errors.New("does not start with the directory indicator 10.")
	ErrDOIRegistrant = errors.New("registrant code must be 4 to 9 digits")
	ErrDOISuffix     = errors.New("missing or malformed suffix")
)

// resolverPrefix matches the optional resolver or scheme in front of a DOI.
var resolverPrefix = regexp.MustCompile(`^(?i:https?://(?:dx\.)?doi\.org/|doi:\s*)`)

// doiPattern matches a bare DOI: "10.1145/1234567.1234568", "10.1000.10/182".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}(?:\.\d+)*/\S+$`)

var registrantPattern = regexp.MustCompile(`^10\.\d{4,9}(?:\.\d+)*(?:/|$)`)

// StripResolver removes a leading https://doi.org/, http://dx.doi.org/ or
// doi: prefix.
func StripResolver(s string) string {
	return resolverPrefix.ReplaceAllString(strings.TrimSpace(s), "")
}

// ParseDOI validates s and returns the bare DOI without resolver prefix.
func ParseDOI(s string) (string, error) {
	d := StripResolver(s)
	if doiPattern.MatchString(d) {
		return d, nil
	}
	if !strings.HasPrefix(d, "10.") {
		return "", ErrDOIPrefix
	}
	if !registrantPattern.MatchString(d) {
		return "", ErrDOIRegistrant
	}
	return "", ErrDOISuffix
}

// NormalizeDOI returns the comparison form of a DOI: resolver stripped and
// lower-cased. DOIs are case-insensitive. Invalid input is only trimmed and
// lower-cased.
func NormalizeDOI(s string) string {
	return strings.ToLower(StripResolver(s))
}
