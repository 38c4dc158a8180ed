// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bibcheck/internal/httputil"
	"github.com/pdiddy/bibcheck/internal/journals"
	"github.com/pdiddy/bibcheck/pkg/types"
)

var predatoryCmd = &cobra.Command{
	Use:   "predatory",
	Short: "Maintain and query the predatory journal list",
}

var predatoryUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Download the predatory journal list",
	Long: `Update downloads a plain-text list of predatory journals and publishers
(one name per line) from --url or the predatory_url setting and writes it
to the predatory_list path. Failed requests are retried with backoff.`,
	Args: cobra.NoArgs,
	RunE: runPredatoryUpdate,
}

var predatoryCheckCmd = &cobra.Command{
	Use:   "check <name>",
	Short: "Report whether a journal or publisher is on the list",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPredatoryCheck,
}

func init() {
	predatoryUpdateCmd.Flags().String("url", "", "list URL (default: predatory_url setting)")
	predatoryUpdateCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default: http.timeout setting)")

	predatoryCmd.AddCommand(predatoryUpdateCmd)
	predatoryCmd.AddCommand(predatoryCheckCmd)
	rootCmd.AddCommand(predatoryCmd)
}

// predatorySettings loads the settings of the current directory and fills
// in the default list location.
func predatorySettings(cmd *cobra.Command) (types.CheckConfig, string, error) {
	manifest, err := manifestFor(".")
	if err != nil {
		return types.CheckConfig{}, "", err
	}
	cfg, err := loadSettings(cmd, manifest)
	if err != nil {
		return types.CheckConfig{}, "", err
	}
	path, err := predatoryPath(cfg)
	return cfg, path, err
}

func runPredatoryUpdate(cmd *cobra.Command, args []string) error {
	cfg, path, err := predatorySettings(cmd)
	if err != nil {
		return err
	}
	url, _ := cmd.Flags().GetString("url")
	if url == "" {
		url = cfg.PredatoryURL
	}
	if url == "" {
		return fmt.Errorf("no list URL: pass --url or set predatory_url")
	}
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.HTTP.Timeout = timeout
	}

	n, err := journals.FetchPredatory(cmd.Context(), httputil.NewClient(cfg.HTTP), cfg.HTTP, url, path)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d name(s) to %s\n", n, path)
	return nil
}

func runPredatoryCheck(cmd *cobra.Command, args []string) error {
	name, err := venueName(args)
	if err != nil {
		return err
	}
	_, path, err := predatorySettings(cmd)
	if err != nil {
		return err
	}
	list, err := journals.LoadPredatoryFile(path)
	if err != nil {
		return fmt.Errorf("%w (run 'bibcheck predatory update' first)", err)
	}

	if hit, ok := list.Match(name); ok {
		fmt.Printf("%q matches listed name %q\n", name, hit)
		return errProblemsFound
	}
	fmt.Printf("%q is not on the list (%d names)\n", name, list.Len())
	return nil
}
