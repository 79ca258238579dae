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
	"github.com/pdiddy/litrec/internal/retrieval"
	"github.com/pdiddy/litrec/pkg/types"
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve",
	Short: "Run first-stage retrieval over the candidate pools",
	Long: `Retrieve scores each user's candidate documents against their NL
profile and writes a TREC run file. The sparse method ranks with BM25
over the FTS5 index; the dense method ranks by cosine similarity of
embeddings from an Ollama endpoint.`,
	RunE: runRetrieve,
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	defer stageTimer("retrieve")()

	inPath, _ := cmd.Flags().GetString("in")
	indexPath, _ := cmd.Flags().GetString("index")
	method, _ := cmd.Flags().GetString("method")
	topK, _ := cmd.Flags().GetInt("top-k")
	runID, _ := cmd.Flags().GetString("run-id")
	outPath, _ := cmd.Flags().GetString("out")

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

	var retriever retrieval.Retriever
	switch types.RetrievalMethod(method) {
	case types.MethodSparse, "":
		retriever = retrieval.NewSparseRetriever(idx, os.Stdout)
	case types.MethodDense:
		cfg := llmConfigFromFlags(cmd)
		cfg.Backend = types.BackendOllama
		retriever = retrieval.NewDenseRetriever(idx, llm.NewOllama(cfg), os.Stdout)
	default:
		return fmt.Errorf("unknown retrieval method %q: use sparse or dense", method)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating run directory: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer out.Close()

	ctx := context.Background()
	queries := 0
	for _, authorID := range sortedAuthorIDs(profiles) {
		list, err := retriever.Score(ctx, authorID, profiles[authorID], topK)
		if err != nil {
			return fmt.Errorf("retrieving for %s: %w", authorID, err)
		}
		if err := retrieval.WriteRun(out, authorID, list, runID); err != nil {
			return err
		}
		queries++
		fmt.Printf("retrieved %s: %d documents\n", authorID, len(list))
	}

	fmt.Printf("wrote %d queries to %s\n", queries, outPath)
	return nil
}

func init() {
	retrieveCmd.Flags().String("in", "data/dataset.jsonl", "dataset JSONL path")
	retrieveCmd.Flags().String("index", "data/docs.db", "document index path")
	retrieveCmd.Flags().String("method", "sparse", "retrieval method: sparse or dense")
	retrieveCmd.Flags().Int("top-k", 100, "results per user")
	retrieveCmd.Flags().String("run-id", "litrec", "run label in the TREC output")
	retrieveCmd.Flags().String("out", "data/runs/retrieval.txt", "output TREC run file")
	addLLMFlags(retrieveCmd)

	rootCmd.AddCommand(retrieveCmd)
}
