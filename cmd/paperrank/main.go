// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperrank CLI. It hosts the
// search server, the paper indexer, and the search client front ends.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperrank/internal/secrets"
	"github.com/pdiddy/paperrank/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the paperrank CLI.
var rootCmd = &cobra.Command{
	Use:   "paperrank",
	Short: "Paper search engine combining full-text retrieval with citation PageRank",
	Long: `paperrank indexes a corpus of academic papers and serves relevance-ranked
search over it. Retrieval finds papers by full-text chunk matching; the
citation graph re-ranks them with a weighted PageRank that rewards
recently published, independently cited work.

Run "paperrank index" to build the index, "paperrank serve" to start the
search server, and "paperrank search" or "paperrank shell" to query it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paperrank.yaml or ~/.config/paperrank/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperrank")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperrank"))
		}
	}

	viper.SetEnvPrefix("PAPERRANK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("client.endpoint", "http://localhost:8080/search")
	viper.SetDefault("client.timeout", "10s")
	viper.SetDefault("client.user_agent", "paperrank/"+version)
	viper.SetDefault("index.data_dir", "data")
	viper.SetDefault("index.papers_dir", "papers")
	viper.SetDefault("retrieval.k_chunks", 5)
	viper.SetDefault("retrieval.k_docs", 3)
	viper.SetDefault("server.addr", ":8080")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig materializes the configuration tree from viper, filling
// the API key from .secrets/ when the config leaves it blank.
func engineConfig() types.EngineConfig {
	cfg := types.EngineConfig{
		Client: types.ClientConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("client.timeout"),
				UserAgent: viper.GetString("client.user_agent"),
			},
			Endpoint:   viper.GetString("client.endpoint"),
			APIKey:     viper.GetString("client.api_key"),
			MaxRetries: viper.GetInt("client.max_retries"),
		},
		Index: types.IndexConfig{
			DataDir:      viper.GetString("index.data_dir"),
			PapersDir:    viper.GetString("index.papers_dir"),
			ChunkWords:   viper.GetInt("index.chunk_words"),
			ChunkOverlap: viper.GetInt("index.chunk_overlap"),
		},
		Retrieval: types.RetrievalConfig{
			KChunks:       viper.GetInt("retrieval.k_chunks"),
			KDocs:         viper.GetInt("retrieval.k_docs"),
			MaxExpansions: viper.GetInt("retrieval.max_expansions"),
			RRFK:          viper.GetInt("retrieval.rrf_k"),
		},
		Server: types.ServerConfig{
			Addr:            viper.GetString("server.addr"),
			RateLimit:       viper.GetFloat64("server.rate_limit"),
			RateBurst:       viper.GetInt("server.rate_burst"),
			APIKey:          viper.GetString("server.api_key"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		},
	}

	if cfg.Client.APIKey == "" {
		cfg.Client.APIKey = secrets.APIKey(loadedSecrets)
	}
	if cfg.Server.APIKey == "" {
		cfg.Server.APIKey = secrets.APIKey(loadedSecrets)
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
