// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/litrec/internal/candidates"
	"github.com/pdiddy/litrec/internal/profile"
	"github.com/pdiddy/litrec/pkg/types"
)

// placeholderProfile marks authors whose profile generation failed; the
// record is still written so the pipeline run completes.
const placeholderProfile = "Profile was not able to generate"

// GenerateSummary holds counts from a dataset generation run.
type GenerateSummary struct {
	Written         int
	ProfileFailures int
}

// Generate produces the full dataset: for each sampled author it assigns
// the split, generates the candidate pool, synthesizes the NL profile,
// and appends the record to out. A profile failure degrades to a
// placeholder with a warning; a candidate generation failure aborts,
// since the pools are the ground the benchmark stands on. Progress and
// warnings go to w.
func Generate(ctx context.Context, authors []types.Author, generator *candidates.Generator,
	profiles *profile.Generator, splits map[string]int, out io.Writer, w io.Writer) (GenerateSummary, error) {

	var summary GenerateSummary
	for _, author := range authors {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if split, ok := splits[author.AuthorID]; ok {
			author.Split = &split
		}

		pool, err := generator.Generate(ctx, author, w)
		if err != nil {
			return summary, fmt.Errorf("generating candidates for %s: %w", author.AuthorID, err)
		}
		author.CandidateItems = pool

		nlProfile, err := profiles.GenerateProfile(ctx, author)
		if err != nil {
			fmt.Fprintf(w, "warning: profile generation failed for %s: %v\n", author.AuthorID, err)
			nlProfile = placeholderProfile
			summary.ProfileFailures++
		}
		author.NLProfile = nlProfile

		if err := WriteAuthor(out, author); err != nil {
			return summary, err
		}
		summary.Written++
		fmt.Fprintf(w, "generated %s (%d candidates)\n", author.AuthorID, len(pool))
	}

	fmt.Fprintf(w, "\ndataset records: %d, profile failures: %d\n", summary.Written, summary.ProfileFailures)
	return summary, nil
}
