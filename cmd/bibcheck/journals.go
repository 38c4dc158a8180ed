// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bibcheck/internal/config"
	"github.com/pdiddy/bibcheck/internal/identifier"
	"github.com/pdiddy/bibcheck/internal/journals"
	"github.com/pdiddy/bibcheck/internal/store"
)

var journalsCmd = &cobra.Command{
	Use:   "journals",
	Short: "Manage the journal abbreviation database",
	Long: `Journals maintains the table of journal names and abbreviations kept in
the local database. Imported abbreviations are used by the abbreviation
and journal-in-list checks unless use_stored_abbreviations is off.`,
}

var journalsImportCmd = &cobra.Command{
	Use:   "import <list.csv|list.yaml>...",
	Short: "Import abbreviation lists into the database",
	Long: `Import reads JabRef-style CSV lists ("full name;abbreviation[;shortest]")
or YAML lists and stores every record. Existing names are replaced.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runJournalsImport,
}

var journalsLookupCmd = &cobra.Command{
	Use:   "lookup <name>",
	Short: "Search journals by full name or abbreviation",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runJournalsLookup,
}

func init() {
	journalsCmd.PersistentFlags().String("data-dir", "", "database directory (default: ~/.local/share/bibcheck)")
	journalsLookupCmd.Flags().Int("limit", 20, "maximum number of results")
	journalsLookupCmd.Flags().Bool("json", false, "output as JSON")

	journalsCmd.AddCommand(journalsImportCmd)
	journalsCmd.AddCommand(journalsLookupCmd)
	rootCmd.AddCommand(journalsCmd)
}

// openStore opens the database selected by the settings of the current
// directory.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	manifest, err := manifestFor(".")
	if err != nil {
		return nil, err
	}
	cfg, err := loadSettings(cmd, manifest)
	if err != nil {
		return nil, err
	}
	return store.Open(config.ExpandHome(cfg.Store.DataDir))
}

// venueName joins args into a journal or publisher name. Identifiers such
// as an ISSN or a DOI are rejected since the lists hold names only.
func venueName(args []string) (string, error) {
	name := strings.Join(args, " ")
	if t, norm := identifier.Classify(name); t != identifier.TypeUnknown {
		return "", fmt.Errorf("%q looks like %s (%s), not a journal or publisher name", name, identifierNames[t], norm)
	}
	return name, nil
}

var identifierNames = map[identifier.Type]string{
	identifier.TypeArxiv: "an arXiv id",
	identifier.TypeDOI:   "a DOI",
	identifier.TypeISBN:  "an ISBN",
	identifier.TypeISSN:  "an ISSN",
	identifier.TypeURL:   "a URL",
}

func runJournalsImport(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, path := range args {
		list, err := journals.LoadFile(path)
		if err != nil {
			return err
		}
		n, err := s.ImportAbbreviations(cmd.Context(), list, filepath.Base(path))
		if err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}
		fmt.Printf("Imported %d journal(s) from %s\n", n, path)
	}

	total, err := s.CountJournals(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("%d journal(s) in %s\n", total, s.Path())
	return nil
}

func runJournalsLookup(cmd *cobra.Command, args []string) error {
	name, err := venueName(args)
	if err != nil {
		return err
	}
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	hits, err := s.SearchJournals(cmd.Context(), name, limit)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Println("No journals found.")
		return nil
	}
	fmt.Printf("%-50s  %-30s  %s\n", "NAME", "ABBREVIATION", "SHORTEST")
	fmt.Printf("%-50s  %-30s  %s\n", "----", "------------", "--------")
	for _, j := range hits {
		fmt.Printf("%-50s  %-30s  %s\n", j.Name, j.Abbreviation, j.ShortestUnique)
	}
	return nil
}
