// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litrec/internal/candidates"
	"github.com/pdiddy/litrec/internal/corpus"
	"github.com/pdiddy/litrec/internal/dataset"
	"github.com/pdiddy/litrec/internal/llm"
	"github.com/pdiddy/litrec/internal/profile"
	"github.com/pdiddy/litrec/pkg/types"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Generate the dataset: candidate pools and NL profiles",
	Long: `Dataset turns sampled users into benchmark records. For each user it
generates a candidate pool (ground truth plus category-weighted random
negatives from the corpus) and synthesizes a natural language research
profile with the model and prompt assigned by the user's split. Profile
failures degrade to a placeholder; candidate failures abort the run.`,
	RunE: runDataset,
}

func runDataset(cmd *cobra.Command, args []string) error {
	defer stageTimer("dataset")()

	dbPath, _ := cmd.Flags().GetString("db")
	inPath, _ := cmd.Flags().GetString("in")
	outPath, _ := cmd.Flags().GetString("out")
	numCandidates, _ := cmd.Flags().GetInt("num-candidates")
	seed, _ := cmd.Flags().GetInt64("seed")
	splitsPath, _ := cmd.Flags().GetString("splits")
	authorSplitsPath, _ := cmd.Flags().GetString("author-splits")

	authors, err := dataset.ReadAuthorsFile(inPath)
	if err != nil {
		return err
	}

	store, err := corpus.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	snapshot, err := store.Snapshot(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("corpus snapshot: %d articles\n", len(snapshot))

	generator := candidates.NewGenerator(snapshot, store, types.CandidateConfig{
		NumCandidates: numCandidates,
		Seed:          seed,
	})

	manifest, err := profile.LoadManifest(splitsPath)
	if err != nil {
		return err
	}
	baseCfg := llmConfigFromFlags(cmd)
	profiles := profile.NewGenerator(func(model string) (llm.Client, error) {
		cfg := baseCfg
		cfg.Model = model
		return llm.New(cfg)
	}, manifest)

	var splits map[string]int
	if authorSplitsPath != "" {
		splits, err = dataset.LoadAuthorSplits(authorSplitsPath)
		if err != nil {
			return err
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer out.Close()

	summary, err := dataset.Generate(context.Background(), authors, generator, profiles, splits, out, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d records to %s\n", summary.Written, outPath)
	return nil
}

func init() {
	datasetCmd.Flags().String("db", "data/corpus.db", "corpus database path")
	datasetCmd.Flags().String("in", "data/sampled_users.jsonl", "sampled users JSONL path")
	datasetCmd.Flags().String("out", "data/dataset.jsonl", "output dataset JSONL path")
	datasetCmd.Flags().Int("num-candidates", 1000, "candidate pool size per user")
	datasetCmd.Flags().Int64("seed", 40, "negative sampling random seed")
	datasetCmd.Flags().String("splits", "", "split manifest YAML (default: built-in four-way split)")
	datasetCmd.Flags().String("author-splits", "", "CSV assigning each author to a split")
	addLLMFlags(datasetCmd)

	rootCmd.AddCommand(datasetCmd)
}
