// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// SparseRetriever ranks an author's candidate documents with SQLite FTS5
// bm25 against the profile text.
type SparseRetriever struct {
	index *Index
	w     io.Writer
}

// NewSparseRetriever returns a bm25 retriever over the document index.
// Warnings go to w.
func NewSparseRetriever(index *Index, w io.Writer) *SparseRetriever {
	return &SparseRetriever{index: index, w: w}
}

// Score ranks the author's indexed candidate documents against nlProfile.
// An author with no indexed documents yields an empty list with a warning,
// not an error.
func (r *SparseRetriever) Score(ctx context.Context, authorID, nlProfile string, topK int) (RankedList, error) {
	if topK <= 0 {
		topK = 100
	}

	match := matchQuery(nlProfile)
	if match == "" {
		fmt.Fprintf(r.w, "warning: empty profile query for %s, skipping\n", authorID)
		return nil, nil
	}

	// bm25() is smaller-is-better; negate so higher scores rank first.
	rows, err := r.index.db.QueryContext(ctx,
		`SELECT docs.doc_id, -bm25(docs_fts) AS score
		 FROM docs_fts
		 JOIN docs ON docs.rowid = docs_fts.rowid
		 WHERE docs_fts MATCH ? AND docs.author_id = ?
		 ORDER BY score DESC, docs.doc_id
		 LIMIT ?`,
		match, authorID, topK)
	if err != nil {
		return nil, fmt.Errorf("searching index for %s: %w", authorID, err)
	}
	defer rows.Close()

	var list RankedList
	for rows.Next() {
		var d ScoredDoc
		if err := rows.Scan(&d.DocID, &d.Score); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading results for %s: %w", authorID, err)
	}

	if len(list) == 0 {
		fmt.Fprintf(r.w, "warning: no indexed documents matched for %s\n", authorID)
	}
	return list, nil
}

// matchQuery turns free profile text into an FTS5 MATCH expression: each
// alphanumeric term quoted, joined with OR. Quoting keeps FTS5 from
// interpreting profile punctuation as query syntax.
func matchQuery(text string) string {
	terms := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if len(terms) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, term := range terms {
		if i > 0 {
			sb.WriteString(" OR ")
		}
		sb.WriteByte('"')
		sb.WriteString(term)
		sb.WriteByte('"')
	}
	return sb.String()
}
