// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package integrity

import (
	"errors"
	"strings"

	"github.com/pdiddy/bibcheck/internal/identifier"
)

type doiChecker struct{}

func (doiChecker) ID() string { return IDDOI }

func (doiChecker) CheckValue(v string) (string, bool) {
	if strings.TrimSpace(v) == "" {
		return "", false
	}
	_, err := identifier.ParseDOI(v)
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, identifier.ErrDOIPrefix):
		return "Invalid DOI: " + err.Error(), true
	case errors.Is(err, identifier.ErrDOIRegistrant):
		return "Invalid DOI: " + err.Error(), true
	default:
		return "Invalid DOI number", true
	}
}

type isbnChecker struct{}

func (isbnChecker) ID() string { return IDISBN }

func (isbnChecker) CheckValue(v string) (string, bool) {
	if strings.TrimSpace(v) == "" {
		return "", false
	}
	if !identifier.ISBNWellFormed(v) {
		return "incorrect format", true
	}
	if !identifier.ValidISBN(v) {
		return "incorrect control digit", true
	}
	return "", false
}

type issnChecker struct{}

func (issnChecker) ID() string { return IDISSN }

func (issnChecker) CheckValue(v string) (string, bool) {
	if strings.TrimSpace(v) == "" {
		return "", false
	}
	if !identifier.ISSNWellFormed(v) {
		return "incorrect format", true
	}
	if !identifier.ValidISSN(v) {
		return "incorrect control digit", true
	}
	return "", false
}

// urlChecker requires a scheme, e.g. "http://" or "file://".
type urlChecker struct{}

func (urlChecker) ID() string { return IDURL }

func (urlChecker) CheckValue(v string) (string, bool) {
	if !strings.Contains(v, "://") {
		return "should contain a protocol: [http[s]://]...", true
	}
	return "", false
}
