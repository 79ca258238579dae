// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litrec/internal/dataset"
	"github.com/pdiddy/litrec/internal/llm"
	"github.com/pdiddy/litrec/internal/profile"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify NL profile breadth as narrow, medium, or broad",
	Long: `Classify asks an LLM to judge how broad each user's research profile
is and writes a CSV of author_id,breadth rows. Classification failures
are reported per user and do not abort the run.`,
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	defer stageTimer("classify")()

	inPath, _ := cmd.Flags().GetString("in")
	outPath, _ := cmd.Flags().GetString("out")

	authors, err := dataset.ReadAuthorsFile(inPath)
	if err != nil {
		return err
	}
	profiles := dataset.Profiles(authors)

	client, err := llm.New(llmConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	classifier := profile.NewClassifier(client)

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer out.Close()

	fmt.Fprintln(out, "author_id,breadth")

	ctx := context.Background()
	classified, failed := 0, 0
	for _, authorID := range sortedAuthorIDs(profiles) {
		breadth, err := classifier.Classify(ctx, profiles[authorID])
		if err != nil {
			fmt.Printf("warning: classification failed for %s: %v\n", authorID, err)
			failed++
			continue
		}
		fmt.Fprintf(out, "%s,%s\n", authorID, breadth)
		classified++
	}

	fmt.Printf("classified %d profiles (%d failed) into %s\n", classified, failed, outPath)
	return nil
}

func init() {
	classifyCmd.Flags().String("in", "data/dataset.jsonl", "dataset JSONL path")
	classifyCmd.Flags().String("out", "data/profile_breadth.csv", "output CSV path")
	addLLMFlags(classifyCmd)

	rootCmd.AddCommand(classifyCmd)
}
