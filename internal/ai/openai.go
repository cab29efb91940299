package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4"

// OpenAICompleter calls the chat completions endpoint once per prompt. It never retries.
type OpenAICompleter struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAICompleter builds a completer. An empty apiKey yields a completer that always reports ErrUnavailable.
func NewOpenAICompleter(apiKey, model, baseURL string, httpClient *http.Client) *OpenAICompleter {
	if model == "" {
		model = defaultModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAICompleter{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClientWithConfig(cfg),
	}
}

func (c *OpenAICompleter) Complete(ctx context.Context, p Prompt) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set: %w", ErrUnavailable)
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.System},
			{Role: openai.ChatMessageRoleUser, Content: p.User},
		},
	}
	if p.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai status %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, ErrUnavailable)
		}
		return "", fmt.Errorf("openai request: %v: %w", err, ErrUnavailable)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices: %w", ErrUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}
