// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm provides text completion and embedding clients for the
// OpenRouter and Ollama backends. Callers depend on the Client and
// Embedder interfaces so tests can substitute stubs.
// See docs/ARCHITECTURE § LLM Access.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/litrec/pkg/types"
)

// Request holds the parameters for one completion call.
type Request struct {
	// Prompt is the user prompt.
	Prompt string

	// System optionally defines the model's persona or behavior.
	System string

	// MaxTokens caps the completion length (0 = backend default).
	MaxTokens int

	// Temperature is the sampling temperature.
	Temperature float64
}

// Client produces a text completion for a request.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// New returns a completion client for the configured backend, wrapped
// with request pacing when cfg.RequestInterval is positive.
func New(cfg types.LLMConfig) (Client, error) {
	var client Client
	switch cfg.Backend {
	case types.BackendOpenRouter, "":
		or, err := NewOpenRouter(cfg)
		if err != nil {
			return nil, err
		}
		client = or
	case types.BackendOllama:
		client = NewOllama(cfg)
	default:
		return nil, fmt.Errorf("unknown LLM backend %q: use openrouter or ollama", cfg.Backend)
	}

	if cfg.RequestInterval > 0 {
		client = Throttle(client, cfg.RequestInterval)
	}
	return client, nil
}

// DefaultRequestInterval paces free-tier API usage.
const DefaultRequestInterval = 3100 * time.Millisecond

// LastLine returns the last non-empty trimmed line of a completion.
// Models sometimes preface the answer with reasoning; the final line
// carries the verdict.
func LastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
