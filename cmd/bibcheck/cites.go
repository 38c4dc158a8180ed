// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bibcheck/internal/bibtex"
	"github.com/pdiddy/bibcheck/internal/cites"
	"github.com/pdiddy/bibcheck/internal/logging"
	"github.com/pdiddy/bibcheck/internal/runner"
)

var citesCmd = &cobra.Command{
	Use:   "cites --bib refs.bib <manuscripts...>",
	Short: "Compare manuscript citations with a bibliography",
	Long: `Cites scans LaTeX (\cite and friends) and Markdown ([@key]) manuscripts
for citation keys, reports keys the bibliography does not define and lists
bibliography entries that are never cited.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCites,
}

func init() {
	citesCmd.Flags().String("bib", "", "bibliography file (required)")
	citesCmd.Flags().Bool("uncited", false, "also list entries no manuscript cites")
	citesCmd.Flags().Bool("json", false, "output as JSON")
	citesCmd.MarkFlagRequired("bib")

	rootCmd.AddCommand(citesCmd)
}

func runCites(cmd *cobra.Command, args []string) error {
	bib, _ := cmd.Flags().GetString("bib")
	c, err := bibtex.ParseFile(bib)
	if err != nil {
		if c == nil {
			return err
		}
		logging.WithFields(logging.WithLogger(cmd.Context(), slog.Default()), "file", bib).
			Warn("bibliography has syntax errors", "error", err)
	}

	files, err := runner.ExpandInputs(args)
	if err != nil {
		return err
	}
	r, err := cites.Check(c, files)
	if err != nil {
		return err
	}

	showUncited, _ := cmd.Flags().GetBool("uncited")
	if !showUncited {
		r.Uncited = nil
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return err
		}
	} else {
		for _, u := range r.Missing {
			fmt.Printf("%s:%d: undefined citation key %q\n", u.File, u.Line, u.Key)
		}
		for _, k := range r.Uncited {
			fmt.Printf("%s: %q is never cited\n", bib, k)
		}
		if len(r.Missing) == 0 && len(r.Uncited) == 0 {
			fmt.Printf("All citations in %d file(s) resolve.\n", len(files))
		}
	}

	if len(r.Missing) > 0 {
		return errProblemsFound
	}
	return nil
}
