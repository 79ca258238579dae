// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package eval scores ranked lists against relevance judgments with
// standard rank-based retrieval metrics.
// See docs/ARCHITECTURE § Evaluation.
package eval

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/litrec/internal/retrieval"
)

// RecallAtK is the fraction of relevant documents found in the top k.
func RecallAtK(list retrieval.RankedList, relevant map[string]bool, k int) float64 {
	if len(relevant) == 0 {
		return 0
	}
	hits := 0
	for i, d := range list {
		if i >= k {
			break
		}
		if relevant[d.DocID] {
			hits++
		}
	}
	return float64(hits) / float64(len(relevant))
}

// PrecisionAtK is the fraction of the top k that is relevant.
func PrecisionAtK(list retrieval.RankedList, relevant map[string]bool, k int) float64 {
	if k <= 0 {
		return 0
	}
	hits := 0
	for i, d := range list {
		if i >= k {
			break
		}
		if relevant[d.DocID] {
			hits++
		}
	}
	return float64(hits) / float64(k)
}

// MRR is the reciprocal rank of the first relevant document, 0 if none.
func MRR(list retrieval.RankedList, relevant map[string]bool) float64 {
	for i, d := range list {
		if relevant[d.DocID] {
			return 1 / float64(i+1)
		}
	}
	return 0
}

// NDCGAtK is the normalized discounted cumulative gain at k with binary
// gains: DCG over the top k divided by the DCG of an ideal ranking.
func NDCGAtK(list retrieval.RankedList, relevant map[string]bool, k int) float64 {
	if len(relevant) == 0 || k <= 0 {
		return 0
	}

	var dcg float64
	for i, d := range list {
		if i >= k {
			break
		}
		if relevant[d.DocID] {
			dcg += 1 / math.Log2(float64(i)+2)
		}
	}

	ideal := len(relevant)
	if ideal > k {
		ideal = k
	}
	var idcg float64
	for i := 0; i < ideal; i++ {
		idcg += 1 / math.Log2(float64(i)+2)
	}
	return dcg / idcg
}

// QueryResult holds the metric values for one query.
type QueryResult struct {
	QueryID string             `json:"query_id"`
	Metrics map[string]float64 `json:"metrics"`
}

// Report holds per-query rows and macro-averaged means.
type Report struct {
	Queries []QueryResult      `json:"queries"`
	Means   map[string]float64 `json:"means"`

	// SkippedQueries counts run queries with no relevance judgments.
	SkippedQueries int `json:"skipped_queries"`
}

// Evaluate scores every query in runs against qrels at the given rank
// cutoffs. Queries without judgments are skipped and counted. Cutoffs
// default to 10 and 100.
func Evaluate(runs map[string]retrieval.RankedList, qrels map[string]map[string]bool, cutoffs []int) Report {
	if len(cutoffs) == 0 {
		cutoffs = []int{10, 100}
	}

	queryIDs := make([]string, 0, len(runs))
	for id := range runs {
		queryIDs = append(queryIDs, id)
	}
	sort.Strings(queryIDs)

	report := Report{Means: make(map[string]float64)}
	sums := make(map[string]float64)

	for _, queryID := range queryIDs {
		relevant, ok := qrels[queryID]
		if !ok || len(relevant) == 0 {
			report.SkippedQueries++
			continue
		}

		list := runs[queryID]
		metrics := map[string]float64{"mrr": MRR(list, relevant)}
		for _, k := range cutoffs {
			metrics[fmt.Sprintf("recall@%d", k)] = RecallAtK(list, relevant, k)
			metrics[fmt.Sprintf("ndcg@%d", k)] = NDCGAtK(list, relevant, k)
		}

		report.Queries = append(report.Queries, QueryResult{QueryID: queryID, Metrics: metrics})
		for name, value := range metrics {
			sums[name] += value
		}
	}

	if len(report.Queries) > 0 {
		for name, sum := range sums {
			report.Means[name] = sum / float64(len(report.Queries))
		}
	}
	return report
}

// FormatTable writes the report as a human-readable table to w.
func FormatTable(report Report, w io.Writer) {
	if len(report.Queries) == 0 {
		fmt.Fprintln(w, "No queries evaluated.")
		return
	}

	names := make([]string, 0, len(report.Means))
	for name := range report.Means {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "%-20s", "query")
	for _, name := range names {
		fmt.Fprintf(w, "  %10s", name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 20+12*len(names)))

	for _, q := range report.Queries {
		fmt.Fprintf(w, "%-20s", q.QueryID)
		for _, name := range names {
			fmt.Fprintf(w, "  %10.4f", q.Metrics[name])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("-", 20+12*len(names)))
	fmt.Fprintf(w, "%-20s", "mean")
	for _, name := range names {
		fmt.Fprintf(w, "  %10.4f", report.Means[name])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\n%d queries evaluated", len(report.Queries))
	if report.SkippedQueries > 0 {
		fmt.Fprintf(w, ", %d skipped (no judgments)", report.SkippedQueries)
	}
	fmt.Fprintln(w)
}
