// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litrec/internal/corpus"
	"github.com/pdiddy/litrec/internal/dataset"
	"github.com/pdiddy/litrec/pkg/types"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Sample benchmark users from the corpus authors",
	Long: `Sample draws a seeded random set of authors whose paper count lies in
the configured range, splits each author's papers chronologically, and
derives the ground truth: the references of the later half that the
earlier half does not already cite. The result is a JSONL file of user
records ready for dataset generation.`,
	RunE: runSample,
}

func runSample(cmd *cobra.Command, args []string) error {
	defer stageTimer("sample")()

	dbPath, _ := cmd.Flags().GetString("db")
	outPath, _ := cmd.Flags().GetString("out")
	numAuthors, _ := cmd.Flags().GetInt("num-authors")
	minPapers, _ := cmd.Flags().GetInt("min-papers")
	maxPapers, _ := cmd.Flags().GetInt("max-papers")
	seed, _ := cmd.Flags().GetInt64("seed")

	store, err := corpus.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := types.SampleConfig{
		NumAuthors: numAuthors,
		MinPapers:  minPapers,
		MaxPapers:  maxPapers,
		Seed:       seed,
	}
	authors, err := dataset.SampleAuthors(context.Background(), store, cfg, os.Stdout)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer out.Close()

	for _, author := range authors {
		if err := dataset.WriteAuthor(out, author); err != nil {
			return err
		}
	}
	fmt.Printf("wrote %d users to %s\n", len(authors), outPath)
	return nil
}

func init() {
	sampleCmd.Flags().String("db", "data/corpus.db", "corpus database path")
	sampleCmd.Flags().String("out", "data/sampled_users.jsonl", "output JSONL path")
	sampleCmd.Flags().Int("num-authors", 1050, "number of users to sample")
	sampleCmd.Flags().Int("min-papers", 10, "minimum paper count for eligible authors")
	sampleCmd.Flags().Int("max-papers", 500, "maximum paper count for eligible authors")
	sampleCmd.Flags().Int64("seed", 42, "sampling random seed")

	rootCmd.AddCommand(sampleCmd)
}
