// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pdiddy/litrec/pkg/types"
)

// openRouterBaseURL is the OpenAI-compatible OpenRouter endpoint.
const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouter completes prompts through the OpenRouter chat completions API.
type OpenRouter struct {
	client openai.Client
	model  string
}

// NewOpenRouter returns an OpenRouter client. The API key is required;
// BaseURL defaults to the OpenRouter endpoint and can be overridden for
// tests or self-hosted gateways.
func NewOpenRouter(cfg types.LLMConfig) (*OpenRouter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key not set: add .secrets/openrouter-api-key or set LITREC_RERANK_LLM_API_KEY")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("openrouter model not set")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &OpenRouter{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

// Complete sends the request as a chat completion and returns the trimmed
// response text.
func (o *OpenRouter) Complete(ctx context.Context, req Request) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
