// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile synthesizes natural language research profiles from an
// author's papers and classifies profile breadth.
// See docs/ARCHITECTURE § Profile Generation.
package profile

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litrec/internal/llm"
	"github.com/pdiddy/litrec/pkg/types"
)

// promptA asks for a three-sentence first-person research profile.
const promptA = "Below are the titles and abstracts of scientific papers I have authored. " +
	"Based on this information, generate a concise first-person research " +
	"profile that summarizes my main research interests and areas of expertise. " +
	"The profile should be written in no more than three sentences and should " +
	"clearly identify the key themes, research trends, and topics I focus on. " +
	"The purpose of this profile is to support a scientific literature " +
	"recommendation system, so it should accurately reflect my research focus " +
	"to help match me with relevant publications. \n\n" +
	"This is the list of my publications:" +
	"\n\n%s\n\n" +
	"Write the profile in first person. " +
	"Return nothing but the generated profile."

// promptB asks for a concise interest description.
const promptB = "Below are the titles and abstracts of scientific papers I have authored. " +
	"Based on this information, generate a concise description of my research " +
	"interests, characterizing the key topics and areas of expertise." +
	"This is the list of my publications:" +
	"\n\n%s\n\n" +
	"Write the profile in first person. " +
	"Return nothing but the generated profile."

// SplitSpec selects the model and prompt variant for one dataset split.
type SplitSpec struct {
	Model  string `yaml:"model" json:"model"`
	Prompt string `yaml:"prompt" json:"prompt"` // "a" or "b"
}

// Manifest maps a split number to its profile generation configuration.
type Manifest map[int]SplitSpec

// DefaultManifest reproduces the four-way model/prompt split of the
// original benchmark study.
func DefaultManifest() Manifest {
	return Manifest{
		0: {Model: "meta-llama/llama-4-maverick-17b-128e-instruct:free", Prompt: "a"},
		1: {Model: "meta-llama/llama-4-maverick-17b-128e-instruct:free", Prompt: "b"},
		2: {Model: "openai/chatgpt-4o-latest", Prompt: "a"},
		3: {Model: "openai/chatgpt-4o-latest", Prompt: "b"},
	}
}

// LoadManifest reads a split manifest YAML file. An empty path yields
// the default manifest.
func LoadManifest(path string) (Manifest, error) {
	if path == "" {
		return DefaultManifest(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading split manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing split manifest %s: %w", path, err)
	}
	for split, spec := range m {
		if spec.Prompt != "a" && spec.Prompt != "b" {
			return nil, fmt.Errorf("split %d: prompt must be \"a\" or \"b\", got %q", split, spec.Prompt)
		}
	}
	return m, nil
}

// ClientFactory returns a completion client for a model. Dataset splits
// use different models, so the generator builds clients on demand.
type ClientFactory func(model string) (llm.Client, error)

// Generator synthesizes NL profiles, choosing model and prompt per the
// author's split.
type Generator struct {
	newClient ClientFactory
	manifest  Manifest
}

// NewGenerator returns a profile generator. A nil manifest uses the
// default four-way split.
func NewGenerator(newClient ClientFactory, manifest Manifest) *Generator {
	if manifest == nil {
		manifest = DefaultManifest()
	}
	return &Generator{newClient: newClient, manifest: manifest}
}

// GenerateProfile renders the author's profile-input papers into the
// split's prompt and returns the model's trimmed completion. An author
// without a split uses split 0.
func (g *Generator) GenerateProfile(ctx context.Context, author types.Author) (string, error) {
	split := 0
	if author.Split != nil {
		split = *author.Split
	}
	spec, ok := g.manifest[split]
	if !ok {
		return "", fmt.Errorf("author %s: no manifest entry for split %d", author.AuthorID, split)
	}

	base := promptA
	if spec.Prompt == "b" {
		base = promptB
	}
	prompt := fmt.Sprintf(base, renderPapers(author.NLProfileInput))

	client, err := g.newClient(spec.Model)
	if err != nil {
		return "", fmt.Errorf("author %s: %w", author.AuthorID, err)
	}

	profile, err := client.Complete(ctx, llm.Request{Prompt: prompt, Temperature: 0})
	if err != nil {
		return "", fmt.Errorf("generating profile for %s: %w", author.AuthorID, err)
	}
	return strings.TrimSpace(profile), nil
}

// renderPapers lists papers as "Title: ...\nAbstract: ..." blocks
// separated by blank lines.
func renderPapers(articles []types.Article) string {
	blocks := make([]string, len(articles))
	for i, a := range articles {
		blocks[i] = fmt.Sprintf("Title: %s\nAbstract: %s", a.Title, a.Abstract)
	}
	return strings.Join(blocks, "\n\n")
}
