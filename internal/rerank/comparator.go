// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rerank

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/pdiddy/litrec/internal/llm"
)

// PairwiseComparator judges which of two documents is more relevant to a
// query, returning "A" or "B". Any other token, including an empty string
// from a failed call, means no preference.
type PairwiseComparator interface {
	Compare(ctx context.Context, query, docA, docB string) (string, error)
}

// pairwisePromptTmpl asks the model to pick the more relevant of two
// documents. Pairwise relevance prompting per Qin et al., Large Language
// Models are Effective Text Rankers with Pairwise Ranking Prompting,
// NAACL Findings 2024.
var pairwisePromptTmpl = template.Must(template.New("pairwise").Parse(
	`You are an expert at judging document relevance. For the given query, choose which of the two documents is more relevant. Respond ONLY with A or B.

Query: {{.Query}}

Document A: {{.DocA}}

Document B: {{.DocB}}

Answer (A or B):`))

// comparatorMaxTokens caps the completion; the answer is a single letter.
const comparatorMaxTokens = 5

// LLMComparator implements PairwiseComparator over a completion client.
type LLMComparator struct {
	client llm.Client
}

// NewLLMComparator returns a comparator backed by the given client.
func NewLLMComparator(client llm.Client) *LLMComparator {
	return &LLMComparator{client: client}
}

// Compare prompts the model with both documents and returns its trimmed
// verdict. Temperature is pinned to 0 so identical pairs get identical
// judgments within one model snapshot.
func (c *LLMComparator) Compare(ctx context.Context, query, docA, docB string) (string, error) {
	var prompt bytes.Buffer
	err := pairwisePromptTmpl.Execute(&prompt, struct {
		Query, DocA, DocB string
	}{Query: query, DocA: docA, DocB: docB})
	if err != nil {
		return "", fmt.Errorf("rendering pairwise prompt: %w", err)
	}

	verdict, err := c.client.Complete(ctx, llm.Request{
		Prompt:      prompt.String(),
		MaxTokens:   comparatorMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return "", err
	}
	return llm.LastLine(verdict), nil
}
