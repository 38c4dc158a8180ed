// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bibcheck/internal/integrity"
	"github.com/pdiddy/bibcheck/pkg/types"
)

var checkersCmd = &cobra.Command{
	Use:   "checkers",
	Short: "List checker ids and the dialects they apply to",
	Long: `Checkers prints every checker id bibcheck knows together with the
dialects it runs for. Ids are accepted by --disable and the disabled
setting. Checkers that need an abbreviation or predatory list are
included even when no list is configured.`,
	Args: cobra.NoArgs,
	RunE: runCheckers,
}

func init() {
	rootCmd.AddCommand(checkersCmd)
}

func runCheckers(cmd *cobra.Command, args []string) error {
	prefs := integrity.Preferences{
		CitationKeyPattern: "[auth][year]",
		Abbreviations:      noAbbreviations{},
		PredatoryJournals:  noPredatory{},
		Files:              integrity.OSLocator{},
	}
	bibtexIDs := integrity.NewEngine(prefs, types.BibTeX).Checkers()
	biblatexIDs := integrity.NewEngine(prefs, types.BibLaTeX).Checkers()

	all := slices.Concat(bibtexIDs, biblatexIDs)
	slices.Sort(all)
	all = slices.Compact(all)

	fmt.Printf("%-24s  %-7s  %s\n", "CHECKER", "BIBTEX", "BIBLATEX")
	fmt.Printf("%-24s  %-7s  %s\n", "-------", "------", "--------")
	for _, id := range all {
		fmt.Printf("%-24s  %-7s  %s\n", id, mark(slices.Contains(bibtexIDs, id)), mark(slices.Contains(biblatexIDs, id)))
	}
	return nil
}

func mark(ok bool) string {
	if ok {
		return "yes"
	}
	return "-"
}

// noAbbreviations and noPredatory stand in for lists so that the checkers
// depending on them are enumerated.
type noAbbreviations struct{}

func (noAbbreviations) IsKnownName(string) bool       { return false }
func (noAbbreviations) IsAbbreviatedName(string) bool { return false }
func (noAbbreviations) IsFullName(string) bool        { return false }

type noPredatory struct{}

func (noPredatory) Match(string) (string, bool) { return "", false }
