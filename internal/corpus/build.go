// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/litrec/pkg/types"
)

// BuildSummary holds counts from a corpus build run.
type BuildSummary struct {
	Articles int
	Cited    int
	Authors  int
	Skipped  int
}

// metadataRow is one line of the arXiv metadata JSONL snapshot.
type metadataRow struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Abstract      string     `json:"abstract"`
	Categories    string     `json:"categories"`
	AuthorsParsed [][]string `json:"authors_parsed"`
	UpdateDate    string     `json:"update_date"`
	Versions      []struct {
		Created string `json:"created"`
	} `json:"versions"`
}

// Build ingests the raw citations JSON and metadata JSONL into the store.
// Only articles present in the citation graph are kept; citation entries
// with no references are dropped. The author table is aggregated from the
// parsed author names with normalization and validity filtering.
// Progress lines go to w.
func (s *Store) Build(ctx context.Context, citationsPath, metadataPath string, w io.Writer) (BuildSummary, error) {
	var summary BuildSummary

	citations, err := readCitations(citationsPath)
	if err != nil {
		return summary, err
	}
	fmt.Fprintf(w, "read %d citation entries\n", len(citations))

	metaFile, err := os.Open(metadataPath)
	if err != nil {
		return summary, fmt.Errorf("opening metadata %s: %w", metadataPath, err)
	}
	defer metaFile.Close()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	articleStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO articles (article_id, title, abstract, categories, author_names, update_date)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return summary, fmt.Errorf("preparing article insert: %w", err)
	}
	defer articleStmt.Close()

	// author key -> display name and paper IDs
	type authorAgg struct {
		name   string
		papers []string
	}
	authors := make(map[string]*authorAgg)

	scanner := bufio.NewScanner(metaFile)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		var row metadataRow
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return summary, fmt.Errorf("metadata line %d: %w", lineNo, err)
		}
		row.ID = strings.TrimSpace(row.ID)

		// Keep only articles the citation graph knows about.
		if _, ok := citations[row.ID]; !ok {
			summary.Skipped++
			continue
		}

		date, err := resolveDate(row)
		if err != nil {
			fmt.Fprintf(w, "warning: %s: %v, skipping\n", row.ID, err)
			summary.Skipped++
			continue
		}

		names := make([]string, 0, len(row.AuthorsParsed))
		for _, parts := range row.AuthorsParsed {
			names = append(names, strings.TrimSpace(strings.Join(parts, " ")))
		}

		categories := strings.Fields(row.Categories)
		categoriesJSON, _ := json.Marshal(categories)
		namesJSON, _ := json.Marshal(names)

		_, err = articleStmt.ExecContext(ctx,
			row.ID, strings.TrimSpace(row.Title), strings.TrimSpace(row.Abstract),
			string(categoriesJSON), string(namesJSON), date.Format("2006-01-02"))
		if err != nil {
			return summary, fmt.Errorf("inserting article %s: %w", row.ID, err)
		}
		summary.Articles++

		// Aggregate the author table.
		for _, name := range names {
			normalized := NormalizeAuthorName(name)
			if !IsValidAuthorName(normalized) {
				continue
			}
			id := BaseAuthorID(normalized) + "_1"
			agg, ok := authors[id]
			if !ok {
				agg = &authorAgg{name: normalized}
				authors[id] = agg
			}
			agg.papers = append(agg.papers, row.ID)
		}

		if summary.Articles%50000 == 0 {
			fmt.Fprintf(w, "ingested %d articles\n", summary.Articles)
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("reading metadata: %w", err)
	}

	refStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO refs (article_id, referenced_ids) VALUES (?, ?)`)
	if err != nil {
		return summary, fmt.Errorf("preparing refs insert: %w", err)
	}
	defer refStmt.Close()

	for id, refs := range citations {
		refsJSON, _ := json.Marshal(refs)
		if _, err := refStmt.ExecContext(ctx, id, string(refsJSON)); err != nil {
			return summary, fmt.Errorf("inserting refs for %s: %w", id, err)
		}
		summary.Cited++
	}

	authorStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO authors (author_id, author_name, paper_ids, num_papers)
		 VALUES (?, ?, ?, ?)`)
	if err != nil {
		return summary, fmt.Errorf("preparing author insert: %w", err)
	}
	defer authorStmt.Close()

	for id, agg := range authors {
		sort.Strings(agg.papers)
		papersJSON, _ := json.Marshal(agg.papers)
		if _, err := authorStmt.ExecContext(ctx, id, agg.name, string(papersJSON), len(agg.papers)); err != nil {
			return summary, fmt.Errorf("inserting author %s: %w", id, err)
		}
		summary.Authors++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing corpus build: %w", err)
	}

	fmt.Fprintf(w, "corpus built: %d articles, %d cited, %d authors, %d skipped\n",
		summary.Articles, summary.Cited, summary.Authors, summary.Skipped)
	return summary, nil
}

// readCitations loads the raw citation graph: a JSON object mapping
// article IDs to referenced ID arrays. Entries with no references are
// dropped.
func readCitations(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading citations %s: %w", path, err)
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing citations %s: %w", path, err)
	}

	citations := make(map[string][]string, len(raw))
	for id, refs := range raw {
		if len(refs) == 0 {
			continue
		}
		trimmed := make([]string, len(refs))
		for i, ref := range refs {
			trimmed[i] = strings.TrimSpace(ref)
		}
		citations[strings.TrimSpace(id)] = trimmed
	}
	return citations, nil
}

// arXiv version timestamps look like "Mon, 2 Apr 2007 19:18:42 GMT".
const versionCreatedLayout = "Mon, 2 Jan 2006 15:04:05 MST"

// resolveDate returns the row's update date, falling back to the first
// version's creation date when update_date is missing.
func resolveDate(row metadataRow) (time.Time, error) {
	if row.UpdateDate != "" {
		t, err := time.Parse("2006-01-02", row.UpdateDate)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing update_date %q: %w", row.UpdateDate, err)
		}
		return t, nil
	}
	if len(row.Versions) > 0 {
		t, err := time.Parse(versionCreatedLayout, row.Versions[0].Created)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing version date %q: %w", row.Versions[0].Created, err)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("no usable date")
}

// sortArticles orders articles ascending by article ID.
func sortArticles(articles []types.Article) {
	sort.Slice(articles, func(i, j int) bool {
		return articles[i].ArticleID < articles[j].ArticleID
	})
}
