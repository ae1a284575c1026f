package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Completer is the LLM boundary: a prompt goes in, the model's text comes
// out. Handlers and tests only ever see this interface, so a deterministic
// stub can stand in for the live provider.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// AnthropicClient calls the Anthropic messages API.
type AnthropicClient struct {
	APIKey    string
	Model     string
	MaxTokens int
	HTTP      *http.Client
}

func New(apiKey, model string) *AnthropicClient {
	return &AnthropicClient{
		APIKey:    apiKey,
		Model:     model,
		MaxTokens: 1000,
		HTTP:      http.DefaultClient,
	}
}

func (c *AnthropicClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model":      c.Model,
		"max_tokens": c.MaxTokens,
		"system":     system,
		"messages": []map[string]interface{}{
			{"role": "user", "content": prompt},
		},
	}
	payload, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		"https://api.anthropic.com/v1/messages",
		bytes.NewBuffer(payload),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm provider unreachable: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm provider error: status %d: %s", res.StatusCode, raw)
	}

	var parsed struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}

	for _, block := range parsed.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("llm provider returned no text content")
}
