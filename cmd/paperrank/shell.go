// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paperrank/internal/client"
)

const historyFile = ".paperrank_history"

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive search shell",
	Long: `Shell opens an interactive prompt against the configured search
endpoint. Empty input is ignored; type "exit" or "quit" (or Ctrl-D) to
leave. When a new search is submitted before the previous one settles,
only the newest response is rendered.`,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()
	if endpoint, _ := cmd.Flags().GetString("endpoint"); endpoint != "" {
		cfg.Client.Endpoint = endpoint
	}

	sess := client.NewSession(client.FromConfig(cfg.Client))

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := filepath.Join(os.TempDir(), historyFile)
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Printf("paperrank shell (endpoint %s)\n", cfg.Client.Endpoint)

	for {
		input, err := line.Prompt("paperrank> ")
		if err != nil {
			// Ctrl-C or Ctrl-D ends the session.
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "exit" || input == "quit" {
			return nil
		}

		ch, ok := sess.Submit(context.Background(), input)
		if !ok {
			continue
		}
		line.AppendHistory(input)
		fmt.Println("searching...")

		out := <-ch
		if out.Stale {
			continue
		}
		if out.Err != nil {
			renderSearchError(os.Stdout, out.Err)
			continue
		}
		renderResults(os.Stdout, out.Results)
	}
}

func init() {
	shellCmd.Flags().String("endpoint", "", "search endpoint URL (overrides config)")

	rootCmd.AddCommand(shellCmd)
}
