// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// WriteRun writes one query's ranked list in TREC run format:
//
//	{query_id} Q0 {doc_id} {rank} {score} {run_id}
//
// Entries are sorted by score descending (stable) and duplicate document
// IDs are dropped, first occurrence wins. Ranks start at 1.
func WriteRun(w io.Writer, queryID string, list RankedList, runID string) error {
	ordered := list.Clone()
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Score > ordered[j].Score })

	seen := make(map[string]bool, len(ordered))
	rank := 1
	for _, d := range ordered {
		if seen[d.DocID] {
			continue
		}
		seen[d.DocID] = true
		if _, err := fmt.Fprintf(w, "%s Q0 %s %d %.4f %s\n", queryID, d.DocID, rank, d.Score, runID); err != nil {
			return err
		}
		rank++
	}
	return nil
}

// AppendRun appends one query's results to the run file at path, creating
// the file if needed.
func AppendRun(path, queryID string, list RankedList, runID string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run file %s: %w", path, err)
	}
	defer f.Close()
	return WriteRun(f, queryID, list, runID)
}

// ParseRuns reads a TREC run file and groups entries by query ID,
// preserving file order within each query. Blank lines are skipped;
// malformed lines are an error.
func ParseRuns(r io.Reader) (map[string]RankedList, error) {
	runs := make(map[string]RankedList)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 6 {
			return nil, fmt.Errorf("line %d: expected 6 fields, got %d", lineNo, len(fields))
		}
		score, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing score %q: %w", lineNo, fields[4], err)
		}
		queryID, docID := fields[0], fields[2]
		runs[queryID] = append(runs[queryID], ScoredDoc{DocID: docID, Score: score})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}
	return runs, nil
}

// ParseRunFile reads the TREC run file at path.
func ParseRunFile(path string) (map[string]RankedList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening run file %s: %w", path, err)
	}
	defer f.Close()
	return ParseRuns(f)
}
