// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rerank refines ranked lists with pairwise LLM relevance
// judgments: repeated bottom-up passes bubble more relevant documents
// toward the front, one adjacent swap at a time.
// See docs/ARCHITECTURE § Reranking.
package rerank

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/litrec/internal/retrieval"
)

const defaultSlidingK = 10

// Reranker refines an initial ranked list for one author query.
type Reranker interface {
	Rerank(ctx context.Context, authorID, query string, results retrieval.RankedList,
		contents map[string]string, w io.Writer) (retrieval.RankedList, error)
}

// PRPReranker reranks with pairwise relevance prompting: up to slidingK
// bottom-up passes over the list, comparing adjacent documents and
// swapping when the lower-ranked one wins, stopping early once a pass
// makes no swap.
type PRPReranker struct {
	comparator PairwiseComparator
	slidingK   int
}

// NewPRPReranker returns a reranker performing up to slidingK passes
// (default 10 when slidingK <= 0).
func NewPRPReranker(comparator PairwiseComparator, slidingK int) *PRPReranker {
	if slidingK <= 0 {
		slidingK = defaultSlidingK
	}
	return &PRPReranker{comparator: comparator, slidingK: slidingK}
}

// Rerank reorders results by repeated adjacent pairwise comparisons and
// returns rank-derived scores: the top document scores len(results), the
// bottom scores 1. Every document ID in results must have an entry in
// contents. A comparator error or a verdict other than "B" leaves the
// pair in place; errors are reported to w but never abort the call.
// Comparisons within one call run strictly in sequence, since each swap
// changes the partner of the next comparison.
func (r *PRPReranker) Rerank(ctx context.Context, authorID, query string, results retrieval.RankedList,
	contents map[string]string, w io.Writer) (retrieval.RankedList, error) {

	for _, d := range results {
		if _, ok := contents[d.DocID]; !ok {
			return nil, fmt.Errorf("rerank %s: no content for document %q", authorID, d.DocID)
		}
	}

	// Work on a copy; the caller's list stays untouched.
	ranked := results.Clone()
	n := len(ranked)

	for pass := 1; pass <= r.slidingK; pass++ {
		swapped := false
		for i := n - 2; i >= 0; i-- {
			docA := ranked[i].DocID
			docB := ranked[i+1].DocID

			verdict, err := r.comparator.Compare(ctx, query, contents[docA], contents[docB])
			if err != nil {
				// Fail open: a lost comparison means no swap.
				fmt.Fprintf(w, "warning: comparison failed for %s (%s vs %s): %v\n", authorID, docA, docB, err)
				continue
			}
			if verdict == "B" {
				ranked[i], ranked[i+1] = ranked[i+1], ranked[i]
				swapped = true
			}
		}
		if !swapped {
			// Stable under adjacent comparisons; further passes cannot
			// change the order.
			break
		}
	}

	reranked := make(retrieval.RankedList, n)
	for i, d := range ranked {
		reranked[i] = retrieval.ScoredDoc{DocID: d.DocID, Score: float64(n - i)}
	}
	return reranked, nil
}
