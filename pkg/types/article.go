// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// dateLayout is the ISO-8601 date form used in dataset records.
const dateLayout = "2006-01-02"

// Date is a calendar date that marshals to an ISO-8601 date string.
// Dataset records and the arXiv snapshot carry plain dates; some snapshot
// rows carry full timestamps, so unmarshaling accepts those too.
type Date struct {
	time.Time
}

// NewDate returns a Date for the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON renders the date as "2006-01-02".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON parses a date, date-time, or RFC3339 string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("date must be a JSON string, got %s", s)
	}
	s = s[1 : len(s)-1]

	for _, layout := range []string{dateLayout, "2006-01-02T15:04:05", time.RFC3339} {
		t, err := time.Parse(layout, s)
		if err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("cannot parse date %q", s)
}

// Article is an immutable record of one paper in the corpus.
type Article struct {
	// ArticleID is the unique paper identifier (e.g. "1803.01422").
	ArticleID string `json:"article_id" yaml:"article_id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// AuthorNames lists the paper authors in source order.
	AuthorNames []string `json:"author_names" yaml:"author_names"`

	// AuthorIDs is set only when author names are resolved to IDs.
	AuthorIDs []string `json:"author_ids" yaml:"author_ids"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Categories lists the paper's topic tags (e.g. "cs.IR", "cs.CL").
	Categories []string `json:"categories" yaml:"categories"`

	// UpdateDate is the last revision date of the paper.
	UpdateDate Date `json:"update_date" yaml:"update_date"`
}

// Author holds one sampled user's data: the papers that characterize their
// interests, the held-out papers the recommender is evaluated against, and
// the artifacts produced by the dataset pipeline.
type Author struct {
	AuthorID   string `json:"author_id" yaml:"author_id"`
	AuthorName string `json:"author_name,omitempty" yaml:"author_name,omitempty"`

	// NLProfileInput holds the papers used to characterize the author.
	NLProfileInput []Article `json:"nl_profile_input" yaml:"nl_profile_input"`

	// GroundTruthItems holds the held-out relevant papers.
	// Disjoint from NLProfileInput by construction of the sampling stage.
	GroundTruthItems []Article `json:"ground_truth_items" yaml:"ground_truth_items"`

	// NLProfile is the generated natural language research profile.
	NLProfile string `json:"nl_profile,omitempty" yaml:"nl_profile,omitempty"`

	// CandidateItems is the candidate pool produced for this author.
	CandidateItems []Article `json:"candidate_items,omitempty" yaml:"candidate_items,omitempty"`

	// Split selects the profile-generation configuration (model + prompt).
	Split *int `json:"split,omitempty" yaml:"split,omitempty"`
}
