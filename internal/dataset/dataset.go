// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset samples benchmark users and assembles the dataset
// records: profile-input papers, ground truth, candidate pools, and NL
// profiles, exchanged as line-delimited JSON.
// See docs/ARCHITECTURE § Dataset.
package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pdiddy/litrec/pkg/types"
)

// WriteAuthor appends one author record as a JSON line.
func WriteAuthor(w io.Writer, author types.Author) error {
	data, err := json.Marshal(author)
	if err != nil {
		return fmt.Errorf("encoding author %s: %w", author.AuthorID, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing author %s: %w", author.AuthorID, err)
	}
	return nil
}

// ReadAuthors parses line-delimited author records.
func ReadAuthors(r io.Reader) ([]types.Author, error) {
	var authors []types.Author
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var author types.Author
		if err := json.Unmarshal(line, &author); err != nil {
			return nil, fmt.Errorf("dataset line %d: %w", lineNo, err)
		}
		authors = append(authors, author)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	return authors, nil
}

// ReadAuthorsFile parses the dataset file at path.
func ReadAuthorsFile(path string) ([]types.Author, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", path, err)
	}
	defer f.Close()
	return ReadAuthors(f)
}

// Profiles maps author IDs to their NL profiles, skipping authors
// without one.
func Profiles(authors []types.Author) map[string]string {
	profiles := make(map[string]string, len(authors))
	for _, a := range authors {
		if a.NLProfile != "" {
			profiles[a.AuthorID] = a.NLProfile
		}
	}
	return profiles
}

// Qrels derives the relevance judgments: per author, the set of
// ground-truth article IDs.
func Qrels(authors []types.Author) map[string]map[string]bool {
	qrels := make(map[string]map[string]bool, len(authors))
	for _, a := range authors {
		rel := make(map[string]bool, len(a.GroundTruthItems))
		for _, item := range a.GroundTruthItems {
			rel[item.ArticleID] = true
		}
		qrels[a.AuthorID] = rel
	}
	return qrels
}

// LoadAuthorSplits reads the split assignment CSV (header line
// "author_id,split").
func LoadAuthorSplits(path string) (map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening split assignments %s: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing split assignments %s: %w", path, err)
	}

	splits := make(map[string]int, len(rows))
	for i, row := range rows {
		if i == 0 && len(row) >= 2 && row[0] == "author_id" {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("split assignments line %d: expected author_id,split", i+1)
		}
		split, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("split assignments line %d: parsing split %q: %w", i+1, row[1], err)
		}
		splits[row[0]] = split
	}
	return splits, nil
}
