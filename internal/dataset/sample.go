// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sort"

	"github.com/pdiddy/litrec/internal/corpus"
	"github.com/pdiddy/litrec/pkg/types"
)

const (
	defaultNumAuthors = 1050
	defaultMinPapers  = 10
	defaultMaxPapers  = 500
	defaultSampleSeed = 42
)

// Store is the corpus surface the sampling stage needs.
type Store interface {
	CandidateAuthors(ctx context.Context, minPapers, maxPapers int) ([]corpus.CandidateAuthor, error)
	ArticlesByIDs(ctx context.Context, ids []string) ([]types.Article, error)
	ReferencedIDs(ctx context.Context, articleID string) ([]string, error)
}

// SampleAuthors draws a seeded sample of eligible authors and splits each
// one's papers chronologically: the earlier half becomes the profile
// input, and the references of the later half, minus those of the earlier
// half, become the ground truth (resolved against the corpus). Progress
// lines go to w.
func SampleAuthors(ctx context.Context, store Store, cfg types.SampleConfig, w io.Writer) ([]types.Author, error) {
	if cfg.NumAuthors <= 0 {
		cfg.NumAuthors = defaultNumAuthors
	}
	if cfg.MinPapers <= 0 {
		cfg.MinPapers = defaultMinPapers
	}
	if cfg.MaxPapers <= 0 {
		cfg.MaxPapers = defaultMaxPapers
	}
	if cfg.Seed == 0 {
		cfg.Seed = defaultSampleSeed
	}

	eligible, err := store.CandidateAuthors(ctx, cfg.MinPapers, cfg.MaxPapers)
	if err != nil {
		return nil, fmt.Errorf("loading candidate authors: %w", err)
	}
	fmt.Fprintf(w, "%d eligible authors with %d..%d papers\n", len(eligible), cfg.MinPapers, cfg.MaxPapers)

	sampled := sampleCandidates(eligible, cfg.NumAuthors, cfg.Seed)

	authors := make([]types.Author, 0, len(sampled))
	for _, candidate := range sampled {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		author, err := splitAuthor(ctx, store, candidate)
		if err != nil {
			return nil, fmt.Errorf("sampling author %s: %w", candidate.AuthorID, err)
		}
		authors = append(authors, author)
		fmt.Fprintf(w, "sampled %s: %d profile input, %d ground truth\n",
			author.AuthorID, len(author.NLProfileInput), len(author.GroundTruthItems))
	}

	fmt.Fprintf(w, "sampled %d users\n", len(authors))
	return authors, nil
}

// sampleCandidates draws up to n authors without replacement with a
// seeded source. Fewer eligible authors than n yields all of them.
func sampleCandidates(eligible []corpus.CandidateAuthor, n int, seed int64) []corpus.CandidateAuthor {
	if len(eligible) <= n {
		return eligible
	}

	rng := rand.New(rand.NewSource(seed))
	indices := rng.Perm(len(eligible))[:n]
	sort.Ints(indices)

	sampled := make([]corpus.CandidateAuthor, n)
	for i, idx := range indices {
		sampled[i] = eligible[idx]
	}
	return sampled
}

// splitAuthor builds one Author record from a candidate row.
func splitAuthor(ctx context.Context, store Store, candidate corpus.CandidateAuthor) (types.Author, error) {
	articles, err := store.ArticlesByIDs(ctx, candidate.PaperIDs)
	if err != nil {
		return types.Author{}, err
	}

	// Chronological order, article ID as tiebreak for stability.
	sort.SliceStable(articles, func(i, j int) bool {
		if !articles[i].UpdateDate.Equal(articles[j].UpdateDate.Time) {
			return articles[i].UpdateDate.Before(articles[j].UpdateDate.Time)
		}
		return articles[i].ArticleID < articles[j].ArticleID
	})

	half := len(articles) / 2
	profileInput := articles[:half]
	heldOut := articles[half:]

	seenIDs, err := referencedSet(ctx, store, profileInput)
	if err != nil {
		return types.Author{}, err
	}
	heldOutRefs, err := referencedSet(ctx, store, heldOut)
	if err != nil {
		return types.Author{}, err
	}

	var groundTruthIDs []string
	for id := range heldOutRefs {
		if !seenIDs[id] {
			groundTruthIDs = append(groundTruthIDs, id)
		}
	}
	sort.Strings(groundTruthIDs)

	groundTruth, err := store.ArticlesByIDs(ctx, groundTruthIDs)
	if err != nil {
		return types.Author{}, err
	}

	return types.Author{
		AuthorID:         candidate.AuthorID,
		AuthorName:       candidate.AuthorName,
		NLProfileInput:   profileInput,
		GroundTruthItems: groundTruth,
	}, nil
}

// referencedSet unions the referenced IDs of the given articles.
func referencedSet(ctx context.Context, store Store, articles []types.Article) (map[string]bool, error) {
	refs := make(map[string]bool)
	for _, article := range articles {
		ids, err := store.ReferencedIDs(ctx, article.ArticleID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			refs[id] = true
		}
	}
	return refs, nil
}
