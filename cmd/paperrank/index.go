// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paperrank/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or refresh the paper index",
	Long: `Index reads paper metadata YAML from papers/metadata/ and the converted
full text from papers/markdown/, chunks the text, and writes everything
into the SQLite full-text index. Papers whose metadata is unchanged since
the previous run are skipped.`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()

	store, err := index.NewStore(cfg.Index)
	if err != nil {
		return err
	}
	defer store.Close()

	files, err := store.MetadataFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No metadata files found.")
		return nil
	}

	bar := progressbar.Default(int64(len(files)), "indexing")

	var summary index.IngestSummary
	var failures []string
	ctx := context.Background()

	for _, path := range files {
		status, _, err := store.IngestFile(ctx, path)
		bar.Add(1)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", filepath.Base(path), err))
			summary.Failed++
			continue
		}
		switch status {
		case index.StatusSkipped:
			summary.Skipped++
		case index.StatusUpdated:
			summary.Updated++
		default:
			summary.Indexed++
		}
	}

	for _, f := range failures {
		fmt.Fprintln(os.Stderr, "failed:", f)
	}
	fmt.Printf("indexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Failed > 0 {
		return fmt.Errorf("%d paper(s) failed indexing", summary.Failed)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
