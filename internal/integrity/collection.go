// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package integrity

import (
	"fmt"
	"strings"

	"github.com/pdiddy/bibcheck/internal/identifier"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// duplicateDOIChecker reports every entry whose DOI, compared in normalized
// form, is shared with another entry.
type duplicateDOIChecker struct{}

func (duplicateDOIChecker) ID() string { return IDDuplicateDOI }

func (duplicateDOIChecker) Check(c *types.Collection) []types.Message {
	groups := make(map[string][]int)
	for i, e := range c.Entries {
		v := strings.TrimSpace(e.Value("doi"))
		if v == "" {
			continue
		}
		d := identifier.NormalizeDOI(v)
		groups[d] = append(groups[d], i)
	}

	var out []types.Message
	for i, e := range c.Entries {
		v := strings.TrimSpace(e.Value("doi"))
		if v == "" || len(groups[identifier.NormalizeDOI(v)]) < 2 {
			continue
		}
		out = append(out, types.NewMessage(e, i, "doi", IDDuplicateDOI,
			fmt.Sprintf("DOI %s is used multiple times", v)))
	}
	return out
}

// duplicateKeyChecker reports every entry whose citation key another entry
// also uses. Keys compare case-sensitively; empty keys are exempt.
type duplicateKeyChecker struct{}

func (duplicateKeyChecker) ID() string { return IDDuplicateKey }

func (duplicateKeyChecker) Check(c *types.Collection) []types.Message {
	keys := c.KeyIndex()
	var out []types.Message
	for i, e := range c.Entries {
		if e.Key == "" || len(keys[e.Key]) < 2 {
			continue
		}
		out = append(out, types.NewMessage(e, i, types.FieldKey.Name, IDDuplicateKey,
			fmt.Sprintf("Duplicate citation key %s", e.Key)))
	}
	return out
}
