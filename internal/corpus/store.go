// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus persists the article metadata snapshot, the citation
// graph, and the aggregated author table in SQLite, and answers the
// queries the sampling and candidate generation stages need.
// See docs/ARCHITECTURE § Corpus.
package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/litrec/pkg/types"
)

// Store manages the corpus SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the corpus database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening corpus database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating corpus schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			article_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			abstract TEXT NOT NULL,
			categories TEXT NOT NULL,
			author_names TEXT NOT NULL,
			update_date TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS refs (
			article_id TEXT PRIMARY KEY,
			referenced_ids TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS authors (
			author_id TEXT PRIMARY KEY,
			author_name TEXT NOT NULL,
			paper_ids TEXT NOT NULL,
			num_papers INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_authors_num_papers ON authors(num_papers)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// scanArticle decodes one articles row.
func scanArticle(rows *sql.Rows) (types.Article, error) {
	var (
		article        types.Article
		categoriesJSON string
		authorsJSON    string
		dateStr        string
	)
	if err := rows.Scan(&article.ArticleID, &article.Title, &article.Abstract,
		&categoriesJSON, &authorsJSON, &dateStr); err != nil {
		return types.Article{}, fmt.Errorf("scanning article row: %w", err)
	}
	if err := json.Unmarshal([]byte(categoriesJSON), &article.Categories); err != nil {
		return types.Article{}, fmt.Errorf("decoding categories for %s: %w", article.ArticleID, err)
	}
	if err := json.Unmarshal([]byte(authorsJSON), &article.AuthorNames); err != nil {
		return types.Article{}, fmt.Errorf("decoding author names for %s: %w", article.ArticleID, err)
	}
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return types.Article{}, fmt.Errorf("parsing update date for %s: %w", article.ArticleID, err)
	}
	article.UpdateDate = types.Date{Time: t}
	return article, nil
}

const articleColumns = `article_id, title, abstract, categories, author_names, update_date`

// Snapshot returns every article in the corpus ordered by article ID.
// Candidate generation treats this as the immutable store view.
func (s *Store) Snapshot(ctx context.Context) ([]types.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles ORDER BY article_id`)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []types.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// ArticlesByIDs returns the articles with the given IDs, ordered by
// article ID. Unknown IDs are silently absent from the result.
func (s *Store) ArticlesByIDs(ctx context.Context, ids []string) ([]types.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	stmt, err := s.db.PrepareContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE article_id = ?`)
	if err != nil {
		return nil, fmt.Errorf("preparing article lookup: %w", err)
	}
	defer stmt.Close()

	var articles []types.Article
	for _, id := range ids {
		rows, err := stmt.QueryContext(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("looking up article %s: %w", id, err)
		}
		for rows.Next() {
			article, err := scanArticle(rows)
			if err != nil {
				rows.Close()
				return nil, err
			}
			articles = append(articles, article)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	sortArticles(articles)
	return articles, nil
}

// ReferencedIDs returns the article IDs referenced by articleID, or an
// empty slice if the article is not in the citation graph.
func (s *Store) ReferencedIDs(ctx context.Context, articleID string) ([]string, error) {
	var refsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT referenced_ids FROM refs WHERE article_id = ?`, articleID).Scan(&refsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying references for %s: %w", articleID, err)
	}

	var refs []string
	if err := json.Unmarshal([]byte(refsJSON), &refs); err != nil {
		return nil, fmt.Errorf("decoding references for %s: %w", articleID, err)
	}
	return refs, nil
}

// CandidateAuthor is one aggregated author row.
type CandidateAuthor struct {
	AuthorID   string
	AuthorName string
	PaperIDs   []string
	NumPapers  int
}

// CandidateAuthors returns the authors whose paper count lies in
// [minPapers, maxPapers], ordered by author ID.
func (s *Store) CandidateAuthors(ctx context.Context, minPapers, maxPapers int) ([]CandidateAuthor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT author_id, author_name, paper_ids, num_papers
		 FROM authors
		 WHERE num_papers >= ? AND num_papers <= ?
		 ORDER BY author_id`,
		minPapers, maxPapers)
	if err != nil {
		return nil, fmt.Errorf("querying authors: %w", err)
	}
	defer rows.Close()

	var authors []CandidateAuthor
	for rows.Next() {
		var (
			author     CandidateAuthor
			papersJSON string
		)
		if err := rows.Scan(&author.AuthorID, &author.AuthorName, &papersJSON, &author.NumPapers); err != nil {
			return nil, fmt.Errorf("scanning author row: %w", err)
		}
		if err := json.Unmarshal([]byte(papersJSON), &author.PaperIDs); err != nil {
			return nil, fmt.Errorf("decoding paper IDs for %s: %w", author.AuthorID, err)
		}
		authors = append(authors, author)
	}
	return authors, rows.Err()
}

// Stats holds corpus table counts.
type Stats struct {
	Articles int
	Cited    int
	Authors  int
}

// Stats returns row counts for the corpus tables.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	for _, q := range []struct {
		query string
		dest  *int
	}{
		{`SELECT count(*) FROM articles`, &stats.Articles},
		{`SELECT count(*) FROM refs`, &stats.Cited},
		{`SELECT count(*) FROM authors`, &stats.Authors},
	} {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return Stats{}, fmt.Errorf("counting rows: %w", err)
		}
	}
	return stats, nil
}
