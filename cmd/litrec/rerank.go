// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litrec/internal/dataset"
	"github.com/pdiddy/litrec/internal/llm"
	"github.com/pdiddy/litrec/internal/rerank"
	"github.com/pdiddy/litrec/internal/retrieval"
)

var rerankCmd = &cobra.Command{
	Use:   "rerank",
	Short: "Rerank a retrieval run with pairwise LLM judgments",
	Long: `Rerank refines a first-stage TREC run with pairwise relevance
prompting: repeated bottom-up passes over each user's ranked list,
asking the LLM which of two adjacent documents better matches the NL
profile and swapping when the lower one wins. Scores in the output run
are derived from the final ranks. Users without an NL profile in the
dataset are skipped with a warning.`,
	RunE: runRerank,
}

func runRerank(cmd *cobra.Command, args []string) error {
	defer stageTimer("rerank")()

	runPath, _ := cmd.Flags().GetString("run")
	inPath, _ := cmd.Flags().GetString("in")
	indexPath, _ := cmd.Flags().GetString("index")
	outPath, _ := cmd.Flags().GetString("out")
	runID, _ := cmd.Flags().GetString("run-id")
	slidingK, _ := cmd.Flags().GetInt("sliding-k")
	queryLimit, _ := cmd.Flags().GetInt("query-limit")

	runs, err := retrieval.ParseRunFile(runPath)
	if err != nil {
		return err
	}

	authors, err := dataset.ReadAuthorsFile(inPath)
	if err != nil {
		return err
	}
	profiles := dataset.Profiles(authors)

	idx, err := retrieval.OpenIndex(indexPath)
	if err != nil {
		return err
	}
	defer idx.Close()

	client, err := llm.New(llmConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	reranker := rerank.NewPRPReranker(rerank.NewLLMComparator(client), slidingK)

	// Truncate the output up front so a re-run never appends to stale results.
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating run directory: %w", err)
	}
	if err := os.WriteFile(outPath, nil, 0o644); err != nil {
		return fmt.Errorf("truncating %s: %w", outPath, err)
	}

	ctx := context.Background()
	processed, skipped := 0, 0
	for _, authorID := range sortedAuthorIDs(runs) {
		if queryLimit > 0 && processed >= queryLimit {
			break
		}

		query, ok := profiles[authorID]
		if !ok {
			fmt.Printf("warning: no NL profile for %s, skipping\n", authorID)
			skipped++
			continue
		}

		list := runs[authorID]
		contents, err := idx.Contents(ctx, authorID, list.DocIDs())
		if err != nil {
			return fmt.Errorf("loading documents for %s: %w", authorID, err)
		}

		reranked, err := reranker.Rerank(ctx, authorID, query, list, contents, os.Stdout)
		if err != nil {
			return err
		}
		if err := retrieval.AppendRun(outPath, authorID, reranked, runID); err != nil {
			return err
		}
		processed++
		fmt.Printf("reranked %s: %d documents\n", authorID, len(reranked))
	}

	fmt.Printf("reranked %d queries (%d skipped) into %s\n", processed, skipped, outPath)
	return nil
}

func init() {
	rerankCmd.Flags().String("run", "data/runs/retrieval.txt", "input TREC run file")
	rerankCmd.Flags().String("in", "data/dataset.jsonl", "dataset JSONL path")
	rerankCmd.Flags().String("index", "data/docs.db", "document index path")
	rerankCmd.Flags().String("out", "data/runs/rerank.txt", "output TREC run file")
	rerankCmd.Flags().String("run-id", "llm_rerank", "run label in the TREC output")
	rerankCmd.Flags().Int("sliding-k", 10, "maximum bottom-up passes per query")
	rerankCmd.Flags().Int("query-limit", 0, "cap on processed queries (0 = all)")
	addLLMFlags(rerankCmd)

	rootCmd.AddCommand(rerankCmd)
}
