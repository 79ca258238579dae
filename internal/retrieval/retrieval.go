// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieval scores candidate documents against natural language
// profiles and exchanges ranked lists in TREC run format.
// See docs/ARCHITECTURE § Retrieval.
package retrieval

import "context"

// ScoredDoc is one (document ID, score) entry in a ranked list.
type ScoredDoc struct {
	DocID string
	Score float64
}

// RankedList is an ordered sequence of scored documents for one query.
// Document IDs are unique within a list.
type RankedList []ScoredDoc

// Clone returns an independent copy of the list.
func (l RankedList) Clone() RankedList {
	out := make(RankedList, len(l))
	copy(out, l)
	return out
}

// DocIDs returns the document IDs in list order.
func (l RankedList) DocIDs() []string {
	ids := make([]string, len(l))
	for i, d := range l {
		ids[i] = d.DocID
	}
	return ids
}

// Retriever scores candidate items for an author's profile query.
// Sparse, dense, and stub implementations are interchangeable.
type Retriever interface {
	Score(ctx context.Context, authorID, nlProfile string, topK int) (RankedList, error)
}
