// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litrec/internal/dataset"
	"github.com/pdiddy/litrec/internal/eval"
	"github.com/pdiddy/litrec/internal/retrieval"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Score a run against the dataset ground truth",
	Long: `Eval reads a TREC run file, derives relevance judgments from the
dataset's ground truth items, and reports MRR, Recall@K, and NDCG@K per
user along with macro-averaged means.`,
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	runPath, _ := cmd.Flags().GetString("run")
	inPath, _ := cmd.Flags().GetString("in")
	cutoffs, _ := cmd.Flags().GetIntSlice("cutoffs")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	runs, err := retrieval.ParseRunFile(runPath)
	if err != nil {
		return err
	}

	authors, err := dataset.ReadAuthorsFile(inPath)
	if err != nil {
		return err
	}
	qrels := dataset.Qrels(authors)

	report := eval.Evaluate(runs, qrels, cutoffs)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	eval.FormatTable(report, os.Stdout)
	return nil
}

func init() {
	evalCmd.Flags().String("run", "data/runs/retrieval.txt", "TREC run file to score")
	evalCmd.Flags().String("in", "data/dataset.jsonl", "dataset JSONL path")
	evalCmd.Flags().IntSlice("cutoffs", []int{10, 100}, "rank cutoffs for Recall@K and NDCG@K")
	evalCmd.Flags().Bool("json", false, "output the report as JSON")

	rootCmd.AddCommand(evalCmd)
}
