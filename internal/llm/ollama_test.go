// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/litrec/pkg/types"
)

func ollamaServer(t *testing.T, handler http.HandlerFunc) *Ollama {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewOllama(types.LLMConfig{
		Backend: types.BackendOllama,
		Model:   "llama3",
		BaseURL: server.URL,
	})
}

func TestOllamaComplete(t *testing.T) {
	var got ollamaGenerateRequest
	client := ollamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Error(err)
		}
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "  A completion.  "})
	})

	out, err := client.Complete(context.Background(), Request{
		Prompt: "Describe the papers.",
		System: "You are a librarian.",
	})
	if err != nil {
		t.Fatal(err)
	}
	if out != "A completion." {
		t.Errorf("completion = %q", out)
	}
	if got.Model != "llama3" || got.Stream {
		t.Errorf("request = %+v", got)
	}
	// The generate API has no system field, so the system prompt is
	// folded into the prompt.
	if !strings.HasPrefix(got.Prompt, "You are a librarian.\n\n") {
		t.Errorf("prompt = %q", got.Prompt)
	}
}

func TestOllamaCompleteServerError(t *testing.T) {
	client := ollamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := client.Complete(context.Background(), Request{Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "model not found") {
		t.Errorf("error = %v", err)
	}
}

func TestOllamaEmbed(t *testing.T) {
	client := ollamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(ollamaEmbedResponse{
			Embeddings: [][]float64{{1, 0}, {0, 1}},
		})
	})

	vectors, err := client.Embed(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(vectors, [][]float64{{1, 0}, {0, 1}}) {
		t.Errorf("vectors = %v", vectors)
	}
}

func TestOllamaEmbedCountMismatch(t *testing.T) {
	client := ollamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embeddings: [][]float64{{1}}})
	})

	if _, err := client.Embed(context.Background(), []string{"one", "two"}); err == nil {
		t.Fatal("expected error for embedding count mismatch")
	}
}

func TestThrottleSpacesCalls(t *testing.T) {
	var calls []time.Time
	inner := clientFunc(func(ctx context.Context, req Request) (string, error) {
		calls = append(calls, time.Now())
		return "ok", nil
	})

	interval := 50 * time.Millisecond
	client := Throttle(inner, interval)
	for i := 0; i < 3; i++ {
		if _, err := client.Complete(context.Background(), Request{Prompt: "x"}); err != nil {
			t.Fatal(err)
		}
	}

	if len(calls) != 3 {
		t.Fatalf("got %d calls, want 3", len(calls))
	}
	for i := 1; i < len(calls); i++ {
		if gap := calls[i].Sub(calls[i-1]); gap < interval-5*time.Millisecond {
			t.Errorf("call gap %d = %v, want at least %v", i, gap, interval)
		}
	}
}

func TestThrottleHonorsContext(t *testing.T) {
	client := Throttle(clientFunc(func(ctx context.Context, req Request) (string, error) {
		return "ok", nil
	}), time.Hour)

	// First call consumes the initial token.
	if _, err := client.Complete(context.Background(), Request{Prompt: "x"}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := client.Complete(ctx, Request{Prompt: "y"}); err == nil {
		t.Fatal("expected context error while waiting for a token")
	}
}

// clientFunc adapts a function to the Client interface.
type clientFunc func(ctx context.Context, req Request) (string, error)

func (f clientFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
