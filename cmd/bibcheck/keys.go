// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bibcheck/internal/bibtex"
	"github.com/pdiddy/bibcheck/internal/keypattern"
	"github.com/pdiddy/bibcheck/internal/logging"
	"github.com/pdiddy/bibcheck/pkg/types"
)

var keysCmd = &cobra.Command{
	Use:   "keys <file.bib>",
	Short: "Compare stored citation keys with generated ones",
	Long: `Keys generates the citation key of every entry from the applicable key
pattern and prints it next to the stored key. The pattern is taken from the
file's JabRef metadata, then from the key_patterns and key_pattern
settings. Only deviating entries are listed unless --all is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runKeys,
}

func init() {
	keysCmd.Flags().Bool("all", false, "list every entry, not just deviating ones")
	keysCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(keysCmd)
}

type keyRow struct {
	Line      int    `json:"line"`
	Type      string `json:"type"`
	Key       string `json:"key"`
	Generated string `json:"generated"`
	Pattern   string `json:"pattern"`
	Matches   bool   `json:"matches"`
}

func runKeys(cmd *cobra.Command, args []string) error {
	path := args[0]
	manifest, err := manifestFor(filepath.Dir(path))
	if err != nil {
		return err
	}
	cfg, err := loadSettings(cmd, manifest)
	if err != nil {
		return err
	}

	c, err := bibtex.ParseFile(path)
	if err != nil {
		if c == nil {
			return err
		}
		logging.WithFields(logging.WithLogger(cmd.Context(), slog.Default()), "file", path).
			Warn("bibliography has syntax errors", "error", err)
	}

	rows := keyRows(c, cfg.KeyPatterns, cfg.KeyPattern)
	all, _ := cmd.Flags().GetBool("all")
	if !all {
		kept := rows[:0]
		for _, r := range rows {
			if !r.Matches {
				kept = append(kept, r)
			}
		}
		rows = kept
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Println("All citation keys match their patterns.")
		return nil
	}
	fmt.Printf("%-6s  %-14s  %-30s  %s\n", "LINE", "TYPE", "KEY", "GENERATED")
	fmt.Printf("%-6s  %-14s  %-30s  %s\n", "----", "----", "---", "---------")
	for _, r := range rows {
		key := r.Key
		if key == "" {
			key = "<no key>"
		}
		fmt.Printf("%-6d  %-14s  %-30s  %s\n", r.Line, r.Type, key, r.Generated)
	}
	return nil
}

// keyRows generates the expected key of each entry. Entries without an
// applicable pattern are reported with an empty generated key.
func keyRows(c *types.Collection, perType map[string]string, fallback string) []keyRow {
	keys := c.KeyIndex()
	rows := make([]keyRow, 0, len(c.Entries))
	for _, e := range c.Entries {
		row := keyRow{Line: e.Line, Type: e.Type, Key: e.Key}
		if g := keypattern.ForCollection(c, keys, e.Type, perType, fallback); g != nil {
			row.Pattern = g.Pattern()
			row.Generated = keypattern.Unique(g.Generate(e), e, keys)
		}
		row.Matches = row.Generated == "" || row.Generated == e.Key
		rows = append(rows, row)
	}
	return rows
}
