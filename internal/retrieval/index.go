// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/litrec/pkg/types"
)

// Index is the per-author candidate document index backed by SQLite FTS5.
// Each row is one candidate article rendered as "Title: ... Abstract: ...",
// scoped to the author whose pool it belongs to.
type Index struct {
	db *sql.DB
}

// OpenIndex opens or creates the document index at path.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	idx := &Index{db: db}
	if err := idx.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}
	return idx, nil
}

// Close releases the database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

func (idx *Index) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS docs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			author_id TEXT NOT NULL,
			doc_id TEXT NOT NULL,
			contents TEXT NOT NULL,
			UNIQUE(author_id, doc_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_docs_author ON docs(author_id)`,
	}
	for _, stmt := range statements {
		if _, err := idx.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := idx.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='docs_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE docs_fts USING fts5(contents, content=docs, content_rowid=rowid)`,
			`CREATE TRIGGER docs_ai AFTER INSERT ON docs BEGIN
				INSERT INTO docs_fts(rowid, contents) VALUES (new.rowid, new.contents);
			END`,
			`CREATE TRIGGER docs_ad AFTER DELETE ON docs BEGIN
				INSERT INTO docs_fts(docs_fts, rowid, contents) VALUES('delete', old.rowid, old.contents);
			END`,
			`CREATE TRIGGER docs_au AFTER UPDATE ON docs BEGIN
				INSERT INTO docs_fts(docs_fts, rowid, contents) VALUES('delete', old.rowid, old.contents);
				INSERT INTO docs_fts(rowid, contents) VALUES (new.rowid, new.contents);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := idx.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// DocContents renders an article in the document exchange form used for
// indexing and reranking.
func DocContents(article types.Article) string {
	return fmt.Sprintf("Title: %s Abstract: %s \n\n",
		strings.TrimSpace(article.Title), strings.TrimSpace(article.Abstract))
}

// IndexAuthor replaces the indexed candidate pool for one author.
func (idx *Index) IndexAuthor(ctx context.Context, authorID string, pool []types.Article) error {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM docs WHERE author_id = ?`, authorID); err != nil {
		return fmt.Errorf("deleting old documents: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO docs (author_id, doc_id, contents) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, article := range pool {
		if _, err := stmt.ExecContext(ctx, authorID, article.ArticleID, DocContents(article)); err != nil {
			return fmt.Errorf("inserting document %s: %w", article.ArticleID, err)
		}
	}

	return tx.Commit()
}

// Build indexes the candidate pools of every author in the dataset.
// Progress lines go to w.
func (idx *Index) Build(ctx context.Context, authors []types.Author, w io.Writer) error {
	for _, author := range authors {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if len(author.CandidateItems) == 0 {
			fmt.Fprintf(w, "warning: author %s has no candidate items, skipping\n", author.AuthorID)
			continue
		}
		if err := idx.IndexAuthor(ctx, author.AuthorID, author.CandidateItems); err != nil {
			return fmt.Errorf("indexing author %s: %w", author.AuthorID, err)
		}
		fmt.Fprintf(w, "indexed %s (%d documents)\n", author.AuthorID, len(author.CandidateItems))
	}
	return nil
}

// Contents returns the indexed text for the given documents of one author.
// Document IDs absent from the index are simply missing from the map.
func (idx *Index) Contents(ctx context.Context, authorID string, docIDs []string) (map[string]string, error) {
	contents := make(map[string]string, len(docIDs))
	stmt, err := idx.db.PrepareContext(ctx,
		`SELECT contents FROM docs WHERE author_id = ? AND doc_id = ?`)
	if err != nil {
		return nil, fmt.Errorf("preparing contents query: %w", err)
	}
	defer stmt.Close()

	for _, docID := range docIDs {
		var text string
		err := stmt.QueryRowContext(ctx, authorID, docID).Scan(&text)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading document %s: %w", docID, err)
		}
		contents[docID] = text
	}
	return contents, nil
}

// AuthorDocs returns all (doc_id, contents) rows for one author, ordered
// by doc_id.
func (idx *Index) AuthorDocs(ctx context.Context, authorID string) ([]ScoredDoc, map[string]string, error) {
	rows, err := idx.db.QueryContext(ctx,
		`SELECT doc_id, contents FROM docs WHERE author_id = ? ORDER BY doc_id`, authorID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading documents for %s: %w", authorID, err)
	}
	defer rows.Close()

	var docs []ScoredDoc
	contents := make(map[string]string)
	for rows.Next() {
		var docID, text string
		if err := rows.Scan(&docID, &text); err != nil {
			return nil, nil, fmt.Errorf("scanning document row: %w", err)
		}
		docs = append(docs, ScoredDoc{DocID: docID})
		contents[docID] = text
	}
	return docs, contents, rows.Err()
}
