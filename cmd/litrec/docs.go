// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litrec/internal/dataset"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Export per-user candidate documents for external indexers",
	Long: `Docs writes each user's candidate pool as a docs.jsonl file under a
per-user directory. External indexing tools consume these files; the
built-in index command reads the dataset directly and does not need them.`,
	RunE: runDocs,
}

func runDocs(cmd *cobra.Command, args []string) error {
	inPath, _ := cmd.Flags().GetString("in")
	dir, _ := cmd.Flags().GetString("dir")

	authors, err := dataset.ReadAuthorsFile(inPath)
	if err != nil {
		return err
	}

	if err := dataset.ExportDocs(authors, dir, os.Stdout); err != nil {
		return err
	}
	fmt.Printf("exported candidate documents for %d users to %s\n", len(authors), dir)
	return nil
}

func init() {
	docsCmd.Flags().String("in", "data/dataset.jsonl", "dataset JSONL path")
	docsCmd.Flags().String("dir", "data/docs", "output directory")

	rootCmd.AddCommand(docsCmd)
}
