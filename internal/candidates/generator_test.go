// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package candidates

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/pdiddy/litrec/pkg/types"
)

// stubCitations maps article IDs to their referenced IDs.
type stubCitations map[string][]string

func (s stubCitations) ReferencedIDs(_ context.Context, articleID string) ([]string, error) {
	return s[articleID], nil
}

// errCitations always fails, simulating a broken citation store.
type errCitations struct{}

func (errCitations) ReferencedIDs(_ context.Context, _ string) ([]string, error) {
	return nil, fmt.Errorf("citation store unavailable")
}

func article(id string, categories ...string) types.Article {
	return types.Article{
		ArticleID:  id,
		Title:      "Paper " + id,
		Abstract:   "Abstract of " + id,
		Categories: categories,
		UpdateDate: types.NewDate(2019, 3, 1),
	}
}

// snapshot returns a small corpus: six cs.IR articles and four cs.CL articles.
func snapshot() []types.Article {
	return []types.Article{
		article("a1", "cs.IR"),
		article("a2", "cs.IR"),
		article("a3", "cs.IR"),
		article("a4", "cs.IR"),
		article("a5", "cs.IR"),
		article("a6", "cs.IR"),
		article("b1", "cs.CL"),
		article("b2", "cs.CL"),
		article("b3", "cs.CL"),
		article("b4", "cs.CL"),
	}
}

func poolIDs(pool []types.Article) []string {
	ids := make([]string, len(pool))
	for i, a := range pool {
		ids[i] = a.ArticleID
	}
	return ids
}

func TestGenerateEmptyProfileInput(t *testing.T) {
	g := NewGenerator(snapshot(), stubCitations{}, types.CandidateConfig{})
	_, err := g.Generate(context.Background(), types.Author{AuthorID: "smith_j_1"}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for empty profile input")
	}
}

func TestGenerateCitationError(t *testing.T) {
	g := NewGenerator(snapshot(), errCitations{}, types.CandidateConfig{})
	author := types.Author{
		AuthorID:       "smith_j_1",
		NLProfileInput: []types.Article{article("p1", "cs.IR")},
	}
	_, err := g.Generate(context.Background(), author, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected citation store error to surface")
	}
}

// TestGenerateWeightedPool exercises the documented scenario: ten articles
// split 6/4 across two categories, profile-input weights 0.7/0.3, two seen
// articles, one ground-truth item, pool of five.
func TestGenerateWeightedPool(t *testing.T) {
	profile := article("p1",
		"cs.IR", "cs.IR", "cs.IR", "cs.IR", "cs.IR", "cs.IR", "cs.IR",
		"cs.CL", "cs.CL", "cs.CL")
	groundTruth := article("gt1", "cs.IR")
	citations := stubCitations{"p1": {"a1", "a2"}}

	g := NewGenerator(snapshot(), citations, types.CandidateConfig{NumCandidates: 5, Seed: 40})
	author := types.Author{
		AuthorID:         "smith_j_1",
		NLProfileInput:   []types.Article{profile},
		GroundTruthItems: []types.Article{groundTruth},
	}

	pool, err := g.Generate(context.Background(), author, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	if len(pool) != 5 {
		t.Fatalf("pool size = %d, want 5", len(pool))
	}

	ids := poolIDs(pool)
	if !sort.StringsAreSorted(ids) {
		t.Errorf("pool not sorted by article_id: %v", ids)
	}

	found := make(map[string]bool)
	var numIR, numCL int
	for _, a := range pool {
		if found[a.ArticleID] {
			t.Errorf("duplicate article %s in pool", a.ArticleID)
		}
		found[a.ArticleID] = true

		if a.ArticleID == "a1" || a.ArticleID == "a2" {
			t.Errorf("seen article %s sampled as negative", a.ArticleID)
		}
		if a.ArticleID == groundTruth.ArticleID {
			continue
		}
		switch a.Categories[0] {
		case "cs.IR":
			numIR++
		case "cs.CL":
			numCL++
		}
	}

	if !found["gt1"] {
		t.Error("ground truth article missing from pool")
	}
	// floor(4*0.7) = 2 cs.IR and floor(4*0.3) = 1 cs.CL quotas, plus one
	// union-tier draw to fill the pool.
	if numIR < 2 {
		t.Errorf("got %d cs.IR negatives, want at least 2", numIR)
	}
	if numCL < 1 {
		t.Errorf("got %d cs.CL negatives, want at least 1", numCL)
	}
}

func TestGenerateDeterminism(t *testing.T) {
	citations := stubCitations{"p1": {"a1"}}
	author := types.Author{
		AuthorID:         "smith_j_1",
		NLProfileInput:   []types.Article{article("p1", "cs.IR", "cs.CL")},
		GroundTruthItems: []types.Article{article("gt1", "cs.IR")},
	}

	var pools [2][]types.Article
	for i := range pools {
		g := NewGenerator(snapshot(), citations, types.CandidateConfig{NumCandidates: 6, Seed: 40})
		pool, err := g.Generate(context.Background(), author, &bytes.Buffer{})
		if err != nil {
			t.Fatal(err)
		}
		pools[i] = pool
	}

	if !reflect.DeepEqual(pools[0], pools[1]) {
		t.Errorf("pools differ across runs:\n%v\n%v", poolIDs(pools[0]), poolIDs(pools[1]))
	}
}

func TestGenerateGroundTruthExemptFromSeenSet(t *testing.T) {
	// gt1 is both cited and ground truth; inclusion takes precedence.
	citations := stubCitations{"p1": {"gt1", "a1"}}
	author := types.Author{
		AuthorID:         "smith_j_1",
		NLProfileInput:   []types.Article{article("p1", "cs.IR")},
		GroundTruthItems: []types.Article{article("gt1", "cs.IR")},
	}

	g := NewGenerator(snapshot(), citations, types.CandidateConfig{NumCandidates: 4, Seed: 40})
	pool, err := g.Generate(context.Background(), author, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	ids := poolIDs(pool)
	hasGT := false
	for _, id := range ids {
		if id == "gt1" {
			hasGT = true
		}
		if id == "a1" {
			t.Error("seen article a1 sampled as negative")
		}
	}
	if !hasGT {
		t.Errorf("ground truth missing from pool %v", ids)
	}
}

func TestGenerateOversizedGroundTruth(t *testing.T) {
	author := types.Author{
		AuthorID:       "smith_j_1",
		NLProfileInput: []types.Article{article("p1", "cs.IR")},
		GroundTruthItems: []types.Article{
			article("gt1", "cs.IR"), article("gt2", "cs.IR"), article("gt3", "cs.CL"),
		},
	}

	var buf bytes.Buffer
	g := NewGenerator(snapshot(), stubCitations{}, types.CandidateConfig{NumCandidates: 2, Seed: 40})
	pool, err := g.Generate(context.Background(), author, &buf)
	if err != nil {
		t.Fatal(err)
	}

	// All ground truth retained despite exceeding the target.
	if len(pool) != 3 {
		t.Errorf("pool size = %d, want 3 (full ground truth)", len(pool))
	}
	if !strings.Contains(buf.String(), "warning") {
		t.Errorf("expected oversize warning, got %q", buf.String())
	}
}

func TestGenerateNoCategoriesFallsThroughToUnfiltered(t *testing.T) {
	// Profile input has no category tags: every negative comes from the
	// unconstrained tier.
	author := types.Author{
		AuthorID:       "smith_j_1",
		NLProfileInput: []types.Article{article("p1")},
	}

	g := NewGenerator(snapshot(), stubCitations{}, types.CandidateConfig{NumCandidates: 3, Seed: 40})
	pool, err := g.Generate(context.Background(), author, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if len(pool) != 3 {
		t.Errorf("pool size = %d, want 3", len(pool))
	}
}

func TestGenerateShortPoolWarnsNotFails(t *testing.T) {
	author := types.Author{
		AuthorID:       "smith_j_1",
		NLProfileInput: []types.Article{article("p1", "cs.IR")},
	}

	var buf bytes.Buffer
	g := NewGenerator(snapshot(), stubCitations{}, types.CandidateConfig{NumCandidates: 50, Seed: 40})
	pool, err := g.Generate(context.Background(), author, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(pool) != len(snapshot()) {
		t.Errorf("pool size = %d, want the full store (%d)", len(pool), len(snapshot()))
	}
	if !strings.Contains(buf.String(), "warning") {
		t.Errorf("expected short-pool warning, got %q", buf.String())
	}
}

func TestCategoryWeights(t *testing.T) {
	articles := []types.Article{
		article("p1", "cs.IR", "cs.CL"),
		article("p2", "cs.CL", "cs.CL"),
	}

	weights := categoryWeights(articles)
	if len(weights) != 2 {
		t.Fatalf("got %d categories, want 2", len(weights))
	}
	// First-observation order.
	if weights[0].category != "cs.IR" || weights[1].category != "cs.CL" {
		t.Errorf("unexpected category order: %v", weights)
	}
	if math.Abs(weights[0].weight-0.25) > 1e-9 {
		t.Errorf("cs.IR weight = %v, want 0.25", weights[0].weight)
	}
	if math.Abs(weights[1].weight-0.75) > 1e-9 {
		t.Errorf("cs.CL weight = %v, want 0.75", weights[1].weight)
	}

	total := weights[0].weight + weights[1].weight
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("weights sum to %v, want 1.0", total)
	}
}

func TestMatchCategorySubstring(t *testing.T) {
	view := []types.Article{
		article("x1", "cs.LG", "cs.AI"),
		article("x2", "stat.ML"),
	}
	subset := matchCategory(view, "cs.LG")
	if len(subset) != 1 || subset[0].ArticleID != "x1" {
		t.Errorf("substring match failed: %v", poolIDs(subset))
	}
}
