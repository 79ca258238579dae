// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/litrec/internal/httputil"
	"github.com/pdiddy/litrec/pkg/types"
)

// defaultOllamaHost is the local Ollama endpoint.
const defaultOllamaHost = "http://localhost:11434"

// Ollama completes prompts and embeds texts through an Ollama server.
type Ollama struct {
	host   string
	model  string
	client *http.Client
}

// NewOllama returns an Ollama client. BaseURL defaults to localhost:11434.
func NewOllama(cfg types.LLMConfig) *Ollama {
	host := strings.TrimSuffix(cfg.BaseURL, "/")
	if host == "" {
		host = defaultOllamaHost
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Ollama{
		host:   host,
		model:  cfg.Model,
		client: &http.Client{Timeout: timeout},
	}
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// Complete sends the request to /api/generate. A system prompt is folded
// into the prompt, matching Ollama's generate API shape.
func (o *Ollama) Complete(ctx context.Context, req Request) (string, error) {
	prompt := req.Prompt
	if req.System != "" {
		prompt = req.System + "\n\n" + prompt
	}

	var out ollamaGenerateResponse
	err := o.post(ctx, "/api/generate", ollamaGenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: false,
	}, &out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Response), nil
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// Embed sends the texts to /api/embed and returns one vector per text.
func (o *Ollama) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	var out ollamaEmbedResponse
	err := o.post(ctx, "/api/embed", ollamaEmbedRequest{
		Model: o.model,
		Input: texts,
	}, &out)
	if err != nil {
		return nil, err
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama returned %d embeddings for %d inputs", len(out.Embeddings), len(texts))
	}
	return out.Embeddings, nil
}

func (o *Ollama) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, o.client, req, 0)
	if err != nil {
		return fmt.Errorf("calling ollama %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("ollama %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding ollama response: %w", err)
	}
	return nil
}
