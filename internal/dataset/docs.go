// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/litrec/internal/retrieval"
	"github.com/pdiddy/litrec/pkg/types"
)

// docLine is one exported document: the exchange shape external indexers
// expect.
type docLine struct {
	ID       string `json:"id"`
	Contents string `json:"contents"`
}

// ExportDocs writes each author's candidate pool as dir/{author_id}/docs.jsonl.
func ExportDocs(authors []types.Author, dir string, w io.Writer) error {
	for _, author := range authors {
		if len(author.CandidateItems) == 0 {
			fmt.Fprintf(w, "warning: author %s has no candidate items, skipping\n", author.AuthorID)
			continue
		}

		authorDir := filepath.Join(dir, author.AuthorID)
		if err := os.MkdirAll(authorDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", authorDir, err)
		}

		path := filepath.Join(authorDir, "docs.jsonl")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}

		enc := json.NewEncoder(f)
		for _, article := range author.CandidateItems {
			line := docLine{ID: article.ArticleID, Contents: retrieval.DocContents(article)}
			if err := enc.Encode(line); err != nil {
				f.Close()
				return fmt.Errorf("writing %s: %w", path, err)
			}
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", path, err)
		}
		fmt.Fprintf(w, "exported %s (%d documents)\n", author.AuthorID, len(author.CandidateItems))
	}
	return nil
}
