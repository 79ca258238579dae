// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litrec/internal/corpus"
	"github.com/pdiddy/litrec/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "litrec/0.1"

	// Raw snapshot files from the arxiv-public-datasets v0.2.0 release.
	// Both ship gzipped; decompress into data/raw/ before building.
	defaultCitationsURL = "https://github.com/mattbierbaum/arxiv-public-datasets/releases/download/v0.2.0/internal-references-v0.2.0-2019-03-01.json.gz"
	defaultMetadataURL  = "https://github.com/mattbierbaum/arxiv-public-datasets/releases/download/v0.2.0/arxiv-metadata-hash-abstracts-v0.2.0-2019-03-01.json.gz"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Fetch raw snapshot files and build the article corpus",
	Long: `Corpus manages the article corpus behind the benchmark: raw arXiv
snapshot files on disk and a SQLite database holding articles, citations,
and aggregated authors. Use subcommands to fetch, build, or inspect it.`,
}

// --- fetch subcommand ---

var corpusFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the raw snapshot files",
	Long: `Fetch downloads the citation graph and article metadata snapshots into
data/raw/. Files that already exist are skipped, so interrupted runs can
be resumed. The release files are gzipped; decompress them before running
corpus build.`,
	RunE: runCorpusFetch,
}

func runCorpusFetch(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	citationsURL, _ := cmd.Flags().GetString("citations-url")
	metadataURL, _ := cmd.Flags().GetString("metadata-url")

	cfg := types.CorpusConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		DataDir: dataDir,
	}

	// Names line up with the corpus build defaults once decompressed.
	files := []corpus.RawFile{
		{Name: "citations.json.gz", URL: citationsURL},
		{Name: "arxiv-metadata.jsonl.gz", URL: metadataURL},
	}

	client := &http.Client{Timeout: cfg.Timeout}
	summary, err := corpus.Fetch(context.Background(), client, files, cfg, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed to download", summary.Failed)
	}
	return nil
}

// --- build subcommand ---

var corpusBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Ingest the raw snapshots into the corpus database",
	Long: `Build reads the citation graph JSON and the metadata JSONL, keeps the
articles present in the citation set, aggregates per-author paper lists
with normalized author names, and writes everything into a SQLite corpus
database.`,
	RunE: runCorpusBuild,
}

func runCorpusBuild(cmd *cobra.Command, args []string) error {
	defer stageTimer("corpus build")()

	dbPath, _ := cmd.Flags().GetString("db")
	citationsPath, _ := cmd.Flags().GetString("citations")
	metadataPath, _ := cmd.Flags().GetString("metadata")

	store, err := corpus.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Build(context.Background(), citationsPath, metadataPath, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("built corpus: %d articles, %d authors\n", summary.Articles, summary.Authors)
	return nil
}

// --- stats subcommand ---

var corpusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print corpus table counts",
	RunE:  runCorpusStats,
}

func runCorpusStats(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")

	store, err := corpus.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("articles: %d\ncited:    %d\nauthors:  %d\n", stats.Articles, stats.Cited, stats.Authors)
	return nil
}

func init() {
	corpusFetchCmd.Flags().String("data-dir", "data", "base directory for pipeline data")
	corpusFetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	corpusFetchCmd.Flags().String("citations-url", defaultCitationsURL, "citation graph snapshot URL")
	corpusFetchCmd.Flags().String("metadata-url", defaultMetadataURL, "article metadata snapshot URL")

	corpusBuildCmd.Flags().String("db", "data/corpus.db", "corpus database path")
	corpusBuildCmd.Flags().String("citations", "data/raw/citations.json", "citation graph JSON path")
	corpusBuildCmd.Flags().String("metadata", "data/raw/arxiv-metadata.jsonl", "article metadata JSONL path")

	corpusStatsCmd.Flags().String("db", "data/corpus.db", "corpus database path")

	corpusCmd.AddCommand(corpusFetchCmd)
	corpusCmd.AddCommand(corpusBuildCmd)
	corpusCmd.AddCommand(corpusStatsCmd)

	rootCmd.AddCommand(corpusCmd)
}
