// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bibcheck/internal/report"
	"github.com/pdiddy/bibcheck/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [file.bib]",
	Short: "List saved check runs",
	Long: `History lists runs recorded with 'bibcheck check --save', newest first.
Pass a file to restrict the list to that file, or --run to print the
messages of one run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count saved messages per checker",
	Args:  cobra.NoArgs,
	RunE:  runHistoryStats,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than a given age",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.PersistentFlags().String("data-dir", "", "database directory (default: ~/.local/share/bibcheck)")
	historyCmd.Flags().String("run", "", "show the messages of this run")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	historyPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "delete runs started before this age")

	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	asJSON, _ := cmd.Flags().GetBool("json")
	if id, _ := cmd.Flags().GetString("run"); id != "" {
		return showRun(cmd, s, id, asJSON)
	}

	f := store.RunFilter{}
	f.Limit, _ = cmd.Flags().GetInt("limit")
	if len(args) == 1 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving %s: %w", args[0], err)
		}
		f.Source = abs
	}
	runs, err := s.Runs(cmd.Context(), f)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	if len(runs) == 0 {
		fmt.Println("No saved runs.")
		return nil
	}
	fmt.Printf("%-36s  %-20s  %-8s  %7s  %8s  %s\n", "RUN", "STARTED", "DIALECT", "ENTRIES", "MESSAGES", "SOURCE")
	fmt.Printf("%-36s  %-20s  %-8s  %7s  %8s  %s\n", "---", "-------", "-------", "-------", "--------", "------")
	for _, r := range runs {
		fmt.Printf("%-36s  %-20s  %-8s  %7d  %8d  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Dialect, r.Entries, r.Messages, r.Source)
	}
	return nil
}

// showRun prints one run's messages in the check report format.
func showRun(cmd *cobra.Command, s *store.Store, id string, asJSON bool) error {
	run, err := s.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}
	msgs, err := s.RunMessages(cmd.Context(), id)
	if err != nil {
		return err
	}
	res := report.FileResult{Source: run.Source, Dialect: run.Dialect, Entries: run.Entries, Messages: msgs}

	format := report.FormatText
	if asJSON {
		format = report.FormatJSON
	}
	fmt.Fprintf(os.Stderr, "Run %s, %s, %v\n", run.ID, run.StartedAt.Local().Format(time.RFC1123), run.Duration)
	return report.Write(os.Stdout, format, []report.FileResult{res}, false)
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	counts, err := s.CheckerCounts(cmd.Context())
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Println("No saved messages.")
		return nil
	}
	fmt.Printf("%-24s  %s\n", "CHECKER", "MESSAGES")
	fmt.Printf("%-24s  %s\n", "-------", "--------")
	for _, c := range counts {
		fmt.Printf("%-24s  %d\n", c.Checker, c.Count)
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	age, _ := cmd.Flags().GetDuration("older-than")
	n, err := s.PruneRuns(cmd.Context(), time.Now().Add(-age))
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d run(s)\n", n)
	return nil
}
