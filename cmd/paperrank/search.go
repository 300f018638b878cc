package main

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperrank/internal/client"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run one search against the search server",
	Long: `Search posts a query to the configured search endpoint and prints the
returned papers. The endpoint comes from the client.endpoint config key,
the PAPERRANK_CLIENT_ENDPOINT environment variable, or --endpoint.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()
	if endpoint, _ := cmd.Flags().GetString("endpoint"); endpoint != "" {
		cfg.Client.Endpoint = endpoint
	}

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		// An empty query is ignored, matching the interactive surfaces.
		return nil
	}

	c := client.FromConfig(cfg.Client)
	results, err := c.Search(context.Background(), query)
	if err != nil {
		renderSearchError(os.Stderr, err)
		return errors.New("search failed")
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return renderJSON(os.Stdout, results)
	}
	renderResults(os.Stdout, results)
	return nil
}

func init() {
	searchCmd.Flags().String("endpoint", "", "search endpoint URL (overrides config)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
