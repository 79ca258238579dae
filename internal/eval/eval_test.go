// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package eval

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/pdiddy/litrec/internal/retrieval"
)

func ranked(ids ...string) retrieval.RankedList {
	list := make(retrieval.RankedList, len(ids))
	for i, id := range ids {
		list[i] = retrieval.ScoredDoc{DocID: id, Score: float64(len(ids) - i)}
	}
	return list
}

func relevantSet(ids ...string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRecallAtK(t *testing.T) {
	list := ranked("d1", "d2", "d3", "d4")
	relevant := relevantSet("d2", "d4")

	tests := []struct {
		k    int
		want float64
	}{
		{1, 0},
		{2, 0.5},
		{4, 1},
		{100, 1},
	}
	for _, tt := range tests {
		if got := RecallAtK(list, relevant, tt.k); !almostEqual(got, tt.want) {
			t.Errorf("RecallAtK(k=%d) = %v, want %v", tt.k, got, tt.want)
		}
	}

	if got := RecallAtK(list, nil, 10); got != 0 {
		t.Errorf("recall with no judgments = %v, want 0", got)
	}
}

func TestPrecisionAtK(t *testing.T) {
	list := ranked("d1", "d2", "d3", "d4")
	relevant := relevantSet("d1", "d3")

	if got := PrecisionAtK(list, relevant, 2); !almostEqual(got, 0.5) {
		t.Errorf("PrecisionAtK(2) = %v, want 0.5", got)
	}
	// Missing positions still count against precision.
	if got := PrecisionAtK(list, relevant, 8); !almostEqual(got, 0.25) {
		t.Errorf("PrecisionAtK(8) = %v, want 0.25", got)
	}
	if got := PrecisionAtK(list, relevant, 0); got != 0 {
		t.Errorf("PrecisionAtK(0) = %v, want 0", got)
	}
}

func TestMRR(t *testing.T) {
	if got := MRR(ranked("d1", "d2", "d3"), relevantSet("d3")); !almostEqual(got, 1.0/3) {
		t.Errorf("MRR = %v, want 1/3", got)
	}
	if got := MRR(ranked("d1", "d2"), relevantSet("dx")); got != 0 {
		t.Errorf("MRR with no hit = %v, want 0", got)
	}
}

func TestNDCGAtK(t *testing.T) {
	// Ideal ranking scores 1.
	if got := NDCGAtK(ranked("d1", "d2"), relevantSet("d1", "d2"), 10); !almostEqual(got, 1) {
		t.Errorf("ideal NDCG = %v, want 1", got)
	}

	// One relevant document at rank 2: DCG = 1/log2(3), IDCG = 1.
	want := 1 / math.Log2(3)
	if got := NDCGAtK(ranked("d1", "d2"), relevantSet("d2"), 10); !almostEqual(got, want) {
		t.Errorf("NDCG = %v, want %v", got, want)
	}

	// Relevant document below the cutoff contributes nothing.
	if got := NDCGAtK(ranked("d1", "d2", "d3"), relevantSet("d3"), 2); got != 0 {
		t.Errorf("NDCG below cutoff = %v, want 0", got)
	}

	if got := NDCGAtK(ranked("d1"), nil, 10); got != 0 {
		t.Errorf("NDCG with no judgments = %v, want 0", got)
	}
}

func TestEvaluate(t *testing.T) {
	runs := map[string]retrieval.RankedList{
		"q1": ranked("d1", "d2"),
		"q2": ranked("d3", "d4"),
		"q3": ranked("d5"), // no judgments, skipped
	}
	qrels := map[string]map[string]bool{
		"q1": relevantSet("d1"),
		"q2": relevantSet("d4"),
		"q3": {},
	}

	report := Evaluate(runs, qrels, []int{1})
	if len(report.Queries) != 2 {
		t.Fatalf("got %d queries, want 2", len(report.Queries))
	}
	if report.SkippedQueries != 1 {
		t.Errorf("skipped = %d, want 1", report.SkippedQueries)
	}
	if report.Queries[0].QueryID != "q1" || report.Queries[1].QueryID != "q2" {
		t.Errorf("queries out of order: %v", report.Queries)
	}

	// q1 hits at rank 1, q2 at rank 2.
	if got := report.Queries[0].Metrics["mrr"]; !almostEqual(got, 1) {
		t.Errorf("q1 mrr = %v, want 1", got)
	}
	if got := report.Queries[1].Metrics["mrr"]; !almostEqual(got, 0.5) {
		t.Errorf("q2 mrr = %v, want 0.5", got)
	}
	if got := report.Means["mrr"]; !almostEqual(got, 0.75) {
		t.Errorf("mean mrr = %v, want 0.75", got)
	}
	if got := report.Means["recall@1"]; !almostEqual(got, 0.5) {
		t.Errorf("mean recall@1 = %v, want 0.5", got)
	}
}

func TestEvaluateDefaultCutoffs(t *testing.T) {
	runs := map[string]retrieval.RankedList{"q1": ranked("d1")}
	qrels := map[string]map[string]bool{"q1": relevantSet("d1")}

	report := Evaluate(runs, qrels, nil)
	for _, name := range []string{"mrr", "recall@10", "recall@100", "ndcg@10", "ndcg@100"} {
		if _, ok := report.Means[name]; !ok {
			t.Errorf("missing metric %s in %v", name, report.Means)
		}
	}
}

func TestFormatTable(t *testing.T) {
	runs := map[string]retrieval.RankedList{
		"q1": ranked("d1"),
		"q2": ranked("d9"),
	}
	qrels := map[string]map[string]bool{
		"q1": relevantSet("d1"),
	}
	report := Evaluate(runs, qrels, []int{10})

	var buf bytes.Buffer
	FormatTable(report, &buf)
	for _, fragment := range []string{"query", "mrr", "q1", "mean", "1 queries evaluated", "1 skipped"} {
		if !strings.Contains(buf.String(), fragment) {
			t.Errorf("table missing %q:\n%s", fragment, buf.String())
		}
	}
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(Report{}, &buf)
	if !strings.Contains(buf.String(), "No queries evaluated.") {
		t.Errorf("empty report output: %s", buf.String())
	}
}
