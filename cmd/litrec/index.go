// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litrec/internal/dataset"
	"github.com/pdiddy/litrec/internal/retrieval"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the candidate document index",
	Long: `Index renders every user's candidate pool into searchable documents and
stores them in a SQLite FTS5 index, scoped per user. Re-indexing a user
replaces their documents, so the command is safe to re-run.`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	defer stageTimer("index")()

	inPath, _ := cmd.Flags().GetString("in")
	indexPath, _ := cmd.Flags().GetString("index")

	authors, err := dataset.ReadAuthorsFile(inPath)
	if err != nil {
		return err
	}

	idx, err := retrieval.OpenIndex(indexPath)
	if err != nil {
		return err
	}
	defer idx.Close()

	if err := idx.Build(context.Background(), authors, os.Stdout); err != nil {
		return err
	}
	fmt.Printf("indexed %d users into %s\n", len(authors), indexPath)
	return nil
}

func init() {
	indexCmd.Flags().String("in", "data/dataset.jsonl", "dataset JSONL path")
	indexCmd.Flags().String("index", "data/docs.db", "document index path")

	rootCmd.AddCommand(indexCmd)
}
