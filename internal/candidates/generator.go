// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package candidates produces fixed-size candidate item pools for sampled
// users. A pool mixes the user's ground-truth items with random negatives
// drawn from the corpus, biased toward the categories the user has published
// in, and excludes articles the user has already cited.
// See docs/ARCHITECTURE § Candidate Generation.
package candidates

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strings"

	"github.com/pdiddy/litrec/pkg/types"
)

const (
	defaultNumCandidates = 1000
	defaultSeed          = 40
)

// CitationSource resolves the articles referenced by a given article.
// Implementations return an empty slice for unknown articles.
type CitationSource interface {
	ReferencedIDs(ctx context.Context, articleID string) ([]string, error)
}

// Generator samples candidate pools over a fixed corpus snapshot.
type Generator struct {
	snapshot  []types.Article
	citations CitationSource
	cfg       types.CandidateConfig
}

// NewGenerator returns a Generator over the given corpus snapshot. The
// snapshot must be ordered by article ID; pool contents are then a pure
// function of (author, snapshot, seed). Zero config fields take the
// defaults (1000 candidates, seed 40).
func NewGenerator(snapshot []types.Article, citations CitationSource, cfg types.CandidateConfig) *Generator {
	if cfg.NumCandidates <= 0 {
		cfg.NumCandidates = defaultNumCandidates
	}
	if cfg.Seed == 0 {
		cfg.Seed = defaultSeed
	}
	return &Generator{snapshot: snapshot, citations: citations, cfg: cfg}
}

// categoryWeight pairs a category tag with its frequency among the author's
// profile-input articles. Kept as an ordered slice so that iteration order
// is the first-observation order, for reproducibility.
type categoryWeight struct {
	category string
	weight   float64
}

// Generate produces the candidate pool for one author: all ground-truth
// items plus category-weighted random negatives, excluding every article
// the author's profile-input papers cite. The result is sorted ascending
// by article ID. Warnings (oversized ground truth, short pool) go to w.
func (g *Generator) Generate(ctx context.Context, author types.Author, w io.Writer) ([]types.Article, error) {
	if len(author.NLProfileInput) == 0 {
		return nil, fmt.Errorf("author %s has no profile input articles", author.AuthorID)
	}

	seen, err := g.seenArticleIDs(ctx, author.NLProfileInput)
	if err != nil {
		return nil, fmt.Errorf("resolving seen articles for %s: %w", author.AuthorID, err)
	}

	// Ground truth is seeded first and is exempt from the seen-set filter.
	pool := make([]types.Article, 0, g.cfg.NumCandidates)
	inPool := make(map[string]bool, g.cfg.NumCandidates)
	for _, article := range author.GroundTruthItems {
		if inPool[article.ArticleID] {
			continue
		}
		pool = append(pool, article)
		inPool[article.ArticleID] = true
	}
	if len(pool) > g.cfg.NumCandidates {
		fmt.Fprintf(w, "warning: author %s has %d ground truth articles, more than the %d candidates target\n",
			author.AuthorID, len(pool), g.cfg.NumCandidates)
	}

	// The view is derived after ground-truth seeding so a ground-truth
	// article can never be re-drawn as a negative.
	view := make([]types.Article, 0, len(g.snapshot))
	for _, article := range g.snapshot {
		if seen[article.ArticleID] || inPool[article.ArticleID] {
			continue
		}
		view = append(view, article)
	}

	weights := categoryWeights(author.NLProfileInput)

	// Tier 1: per-category quotas, floor(deficit * weight) each. The
	// deficit is fixed before the loop; quotas do not grow as earlier
	// categories undersample.
	deficit := g.cfg.NumCandidates - len(pool)
	for _, cw := range weights {
		n := int(float64(deficit) * cw.weight)
		if n <= 0 {
			continue
		}
		subset := matchCategory(view, cw.category)
		drawn := g.sample(subset, n)
		pool = append(pool, drawn...)
		view = removeDrawn(view, drawn)
	}

	// Tier 2: any of the author's categories.
	if len(pool) < g.cfg.NumCandidates {
		fmt.Fprintf(w, "author %s: sampling from the union of categories to fill the pool\n", author.AuthorID)
		subset := matchAnyCategory(view, weights)
		drawn := g.sample(subset, g.cfg.NumCandidates-len(pool))
		pool = append(pool, drawn...)
		view = removeDrawn(view, drawn)
	}

	// Tier 3: no category constraint.
	if len(pool) < g.cfg.NumCandidates {
		fmt.Fprintf(w, "author %s: sampling without category filtering to fill the pool\n", author.AuthorID)
		pool = append(pool, g.sample(view, g.cfg.NumCandidates-len(pool))...)
	}

	if len(pool) < g.cfg.NumCandidates {
		fmt.Fprintf(w, "warning: author %s: only %d of %d candidates available\n",
			author.AuthorID, len(pool), g.cfg.NumCandidates)
	}

	sort.Slice(pool, func(i, j int) bool { return pool[i].ArticleID < pool[j].ArticleID })
	return pool, nil
}

// seenArticleIDs returns the union of referenced article IDs over the
// profile-input articles.
func (g *Generator) seenArticleIDs(ctx context.Context, articles []types.Article) (map[string]bool, error) {
	seen := make(map[string]bool)
	for _, article := range articles {
		refs, err := g.citations.ReferencedIDs(ctx, article.ArticleID)
		if err != nil {
			return nil, err
		}
		for _, id := range refs {
			seen[id] = true
		}
	}
	return seen, nil
}

// categoryWeights computes the empirical category frequencies over the
// flattened category multiset of the given articles, keyed in
// first-observation order.
func categoryWeights(articles []types.Article) []categoryWeight {
	var order []string
	counts := make(map[string]int)
	total := 0
	for _, article := range articles {
		for _, category := range article.Categories {
			if counts[category] == 0 {
				order = append(order, category)
			}
			counts[category]++
			total++
		}
	}

	weights := make([]categoryWeight, len(order))
	for i, category := range order {
		weights[i] = categoryWeight{category: category, weight: float64(counts[category]) / float64(total)}
	}
	return weights
}

// matchCategory returns the articles whose category field contains the
// given tag as a substring. Substring rather than exact membership: an
// article tagged "cs.LG cs.AI" matches the filter "cs.LG".
func matchCategory(view []types.Article, category string) []types.Article {
	var subset []types.Article
	for _, article := range view {
		if strings.Contains(strings.Join(article.Categories, " "), category) {
			subset = append(subset, article)
		}
	}
	return subset
}

// matchAnyCategory returns the articles matching at least one of the tags.
func matchAnyCategory(view []types.Article, weights []categoryWeight) []types.Article {
	var subset []types.Article
	for _, article := range view {
		joined := strings.Join(article.Categories, " ")
		for _, cw := range weights {
			if strings.Contains(joined, cw.category) {
				subset = append(subset, article)
				break
			}
		}
	}
	return subset
}

// sample draws up to n articles from subset without replacement, using a
// fresh source seeded with the configured seed so repeated runs draw the
// same articles. If the subset has at most n articles it is returned whole.
func (g *Generator) sample(subset []types.Article, n int) []types.Article {
	if len(subset) <= n {
		return subset
	}

	rng := rand.New(rand.NewSource(g.cfg.Seed))
	drawn := make([]types.Article, n)
	indices := rng.Perm(len(subset))[:n]
	sort.Ints(indices)
	for i, idx := range indices {
		drawn[i] = subset[idx]
	}
	return drawn
}

// removeDrawn filters the drawn articles out of the view.
func removeDrawn(view, drawn []types.Article) []types.Article {
	if len(drawn) == 0 {
		return view
	}
	drawnIDs := make(map[string]bool, len(drawn))
	for _, article := range drawn {
		drawnIDs[article.ArticleID] = true
	}
	remaining := view[:0]
	for _, article := range view {
		if !drawnIDs[article.ArticleID] {
			remaining = append(remaining, article)
		}
	}
	return remaining
}
