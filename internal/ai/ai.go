// Package ai backs the editor's AI capability check: a cheap round trip that
// confirms the configured key and model actually work before a user relies
// on any AI-assisted feature.
package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/serkac1000/apk-editor-windows-final-main/internal/config"
)

// Checker verifies that the configured AI backend is reachable.
type Checker interface {
	Test(ctx context.Context) (string, error)
}

// OpenAIChecker implements Checker against any OpenAI-compatible endpoint.
type OpenAIChecker struct {
	client *openai.Client
	model  string
}

// NewChecker builds a checker from the AI configuration. A missing key or
// model is reported as an error so callers can surface an application
// failure rather than attempting a doomed request.
func NewChecker(cfg config.AIConfig, apiKey string) (*OpenAIChecker, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("no AI model configured")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key configured: set %s or ai.api_key", cfg.APIKeyEnv)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIChecker{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

// Test sends a minimal completion request and reports the model that
// answered.
func (c *OpenAIChecker) Test(ctx context.Context) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: 1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "ping"},
		},
	})
	if err != nil {
		return "", fmt.Errorf("AI request failed: %w", err)
	}
	return fmt.Sprintf("AI connection OK (model %s)", resp.Model), nil
}
