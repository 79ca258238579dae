// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/litrec/internal/candidates"
	"github.com/pdiddy/litrec/internal/llm"
	"github.com/pdiddy/litrec/internal/profile"
	"github.com/pdiddy/litrec/pkg/types"
)

// noCitations reports no references for any article.
type noCitations struct{}

func (noCitations) ReferencedIDs(ctx context.Context, articleID string) ([]string, error) {
	return nil, nil
}

// stubClient returns a fixed completion or error.
type stubClient struct {
	response string
	err      error
}

func (c *stubClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	return c.response, c.err
}

func testGenerator() *candidates.Generator {
	snapshot := []types.Article{
		{ArticleID: "c1", Categories: []string{"cs.IR"}},
		{ArticleID: "c2", Categories: []string{"cs.IR"}},
		{ArticleID: "c3", Categories: []string{"cs.CL"}},
		{ArticleID: "c4", Categories: []string{"cs.CL"}},
	}
	return candidates.NewGenerator(snapshot, noCitations{}, types.CandidateConfig{NumCandidates: 3, Seed: 40})
}

func profileGenerator(client llm.Client) *profile.Generator {
	return profile.NewGenerator(func(model string) (llm.Client, error) {
		return client, nil
	}, nil)
}

func testAuthors() []types.Author {
	return []types.Author{{
		AuthorID: "smith_j_1",
		NLProfileInput: []types.Article{
			{ArticleID: "p1", Title: "Retrieval", Abstract: "IR work", Categories: []string{"cs.IR"}},
		},
		GroundTruthItems: []types.Article{{ArticleID: "c1", Categories: []string{"cs.IR"}}},
	}}
}

func TestGenerateWritesRecords(t *testing.T) {
	var out, log bytes.Buffer
	splits := map[string]int{"smith_j_1": 2}

	summary, err := Generate(context.Background(), testAuthors(), testGenerator(),
		profileGenerator(&stubClient{response: "I study retrieval."}), splits, &out, &log)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Written != 1 || summary.ProfileFailures != 0 {
		t.Errorf("summary = %+v", summary)
	}

	records, err := ReadAuthors(&out)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.NLProfile != "I study retrieval." {
		t.Errorf("profile = %q", rec.NLProfile)
	}
	if rec.Split == nil || *rec.Split != 2 {
		t.Errorf("split = %v, want 2", rec.Split)
	}
	if len(rec.CandidateItems) != 3 {
		t.Errorf("got %d candidates, want 3", len(rec.CandidateItems))
	}
}

func TestGeneratePlaceholderOnProfileFailure(t *testing.T) {
	var out, log bytes.Buffer

	summary, err := Generate(context.Background(), testAuthors(), testGenerator(),
		profileGenerator(&stubClient{err: errors.New("model unavailable")}), nil, &out, &log)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Written != 1 || summary.ProfileFailures != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if !strings.Contains(log.String(), "warning: profile generation failed for smith_j_1") {
		t.Errorf("missing warning: %s", log.String())
	}

	records, err := ReadAuthors(&out)
	if err != nil {
		t.Fatal(err)
	}
	if records[0].NLProfile != "Profile was not able to generate" {
		t.Errorf("profile = %q, want the placeholder", records[0].NLProfile)
	}
}

func TestGenerateAbortsOnCandidateFailure(t *testing.T) {
	var out, log bytes.Buffer
	authors := []types.Author{{AuthorID: "empty_a_1"}} // no profile input papers

	_, err := Generate(context.Background(), authors, testGenerator(),
		profileGenerator(&stubClient{response: "unused"}), nil, &out, &log)
	if err == nil {
		t.Fatal("expected error for author without profile input")
	}
	if !strings.Contains(err.Error(), "empty_a_1") {
		t.Errorf("error %q does not name the author", err)
	}
	if out.Len() != 0 {
		t.Errorf("record written despite abort: %s", out.String())
	}
}
