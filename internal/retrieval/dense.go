// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
)

// Embedder turns texts into dense vectors. The embedding model lives
// behind an external endpoint; this package only consumes its vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// DenseRetriever ranks an author's candidate documents by cosine
// similarity between the profile embedding and document embeddings.
type DenseRetriever struct {
	index    *Index
	embedder Embedder
	w        io.Writer
}

// NewDenseRetriever returns a dense retriever over the document index.
func NewDenseRetriever(index *Index, embedder Embedder, w io.Writer) *DenseRetriever {
	return &DenseRetriever{index: index, embedder: embedder, w: w}
}

// Score embeds the profile and the author's candidate documents and
// returns the topK by cosine similarity, ties broken by doc ID.
func (r *DenseRetriever) Score(ctx context.Context, authorID, nlProfile string, topK int) (RankedList, error) {
	if topK <= 0 {
		topK = 100
	}

	docs, contents, err := r.index.AuthorDocs(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		fmt.Fprintf(r.w, "warning: no indexed documents for %s, skipping\n", authorID)
		return nil, nil
	}

	texts := make([]string, 0, len(docs)+1)
	texts = append(texts, nlProfile)
	for _, d := range docs {
		texts = append(texts, contents[d.DocID])
	}

	vectors, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding documents for %s: %w", authorID, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}

	query := vectors[0]
	list := make(RankedList, len(docs))
	for i, d := range docs {
		list[i] = ScoredDoc{DocID: d.DocID, Score: cosine(query, vectors[i+1])}
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}
		return list[i].DocID < list[j].DocID
	})
	if len(list) > topK {
		list = list[:topK]
	}
	return list, nil
}

// cosine returns the cosine similarity of two vectors, 0 when either has
// zero norm or the lengths differ.
func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
