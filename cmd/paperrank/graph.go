// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperrank/internal/citegraph"
	"github.com/pdiddy/paperrank/internal/index"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show citation graph statistics for the indexed corpus",
	Long: `Graph builds the citation graph from indexed paper metadata and prints
the most-cited papers alongside their weighted PageRank scores.`,
	RunE: runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()
	top, _ := cmd.Flags().GetInt("top")

	store, err := index.NewStore(cfg.Index)
	if err != nil {
		return err
	}
	defer store.Close()

	papers, err := store.Papers(context.Background())
	if err != nil {
		return err
	}

	g := citegraph.BuildFromMetadata(papers)
	if g.Len() == 0 {
		fmt.Println("Citation graph is empty. Run \"paperrank index\" first.")
		return nil
	}

	fmt.Printf("papers: %d\n\n", g.Len())

	fmt.Println("Most cited:")
	for _, cc := range g.MostCited(top) {
		fmt.Printf("  %-24s %d citation(s)\n", cc.PaperID, cc.Count)
	}

	scores := g.WeightedPageRank(citegraph.DefaultPageRankOptions())
	if len(scores) == 0 {
		return nil
	}

	type ranked struct {
		id    string
		score float64
	}
	all := make([]ranked, 0, len(scores))
	for id, s := range scores {
		all = append(all, ranked{id, s})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].id < all[j].id
	})
	if top > 0 && len(all) > top {
		all = all[:top]
	}

	fmt.Println("\nPageRank:")
	for _, r := range all {
		fmt.Printf("  %-24s %.4f\n", r.id, r.score)
	}
	return nil
}

func init() {
	graphCmd.Flags().Int("top", 10, "number of papers to show")

	rootCmd.AddCommand(graphCmd)
}
