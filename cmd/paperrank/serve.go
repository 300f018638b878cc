// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperrank/internal/citegraph"
	"github.com/pdiddy/paperrank/internal/index"
	"github.com/pdiddy/paperrank/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP search server",
	Long: `Serve starts the search server over the local index. It answers
POST /search with ranked paper results, exposes health checks on / and
/healthz, and Prometheus metrics on /metrics. Run "paperrank index"
first to build the index.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	store, err := index.NewStore(cfg.Index)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	papers, err := store.Papers(ctx)
	if err != nil {
		return err
	}
	graph := citegraph.BuildFromMetadata(papers)

	srv := server.New(cfg.Server, cfg.Retrieval, store, graph)
	return srv.Run(ctx)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides config)")

	rootCmd.AddCommand(serveCmd)
}
