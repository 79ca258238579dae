// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/litrec/internal/llm"
)

// Breadth is the scope classification of an NL profile.
type Breadth string

const (
	BreadthNarrow Breadth = "narrow"
	BreadthMedium Breadth = "medium"
	BreadthBroad  Breadth = "broad"
)

// classifyPrompt is a few-shot prompt for profile breadth classification.
const classifyPrompt = "You are an expert in classifying scholarly user interest profiles. " +
	"Your task is to analyze a given natural language description of a user's " +
	"research interests and classify it as 'narrow', 'medium', or 'broad' based " +
	"on the specificity and scope of the topics mentioned.\n\n" +
	"Here are the definitions for each category:\n\n" +
	"Narrow: The profile describes highly specific interests within a single, " +
	"well-defined subfield. The language is often technical and domain-specific." +
	"\nMedium: The profile covers a single, broader field or several related " +
	"topics. The interests are connected but not as specific as a narrow profile." +
	"\nBroad: The profile covers a wide range of disparate topics or a very " +
	"general field. The interests may not be directly connected.\n\n" +
	"Examples:\n\n" +
	"User Profile: 'My research focuses on the optimization of federated learning " +
	"algorithms for on-device natural language processing, specifically for " +
	"low-resource languages.'\n" +
	"Classification: Narrow\n\n" +
	"User Profile: 'I am interested in the intersection of artificial " +
	"intelligence and medicine. My work involves using computer vision for " +
	"medical image analysis and developing predictive models for disease " +
	"progression using electronic health records.'\n" +
	"Classification: Medium\n\n" +
	"User Profile: 'I have a passion for technology and its role in society. I'm" +
	" interested in everything from robotics and human-computer interaction to " +
	"the ethical implications of AI and the future of work. I also enjoy " +
	"historical perspectives on technological innovation.'\n" +
	"Classification: Broad\n\n" +
	"Please classify the following user profile. Return only one word, Narrow, " +
	"Medium or Broad\n\n" +
	"User Profile: %s\n" +
	"Classification:"

// Classifier labels NL profiles with a breadth category.
type Classifier struct {
	client llm.Client
}

// NewClassifier returns a breadth classifier over the given client.
func NewClassifier(client llm.Client) *Classifier {
	return &Classifier{client: client}
}

// Classify asks the model for the profile's breadth. The verdict is the
// lowercased last line of the completion; anything outside the three
// categories is an error the caller can record and move past.
func (c *Classifier) Classify(ctx context.Context, nlProfile string) (Breadth, error) {
	response, err := c.client.Complete(ctx, llm.Request{
		Prompt:      fmt.Sprintf(classifyPrompt, nlProfile),
		MaxTokens:   5,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("classifying profile: %w", err)
	}

	verdict := strings.ToLower(strings.TrimSuffix(llm.LastLine(response), "."))
	switch Breadth(verdict) {
	case BreadthNarrow, BreadthMedium, BreadthBroad:
		return Breadth(verdict), nil
	}
	return "", fmt.Errorf("unexpected breadth classification %q", verdict)
}
