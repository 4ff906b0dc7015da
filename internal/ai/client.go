package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Client performs a single scoring call and returns the raw response
// content.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient implements Client over the Chat Completions API.
type OpenAIClient struct {
	client *openai.Client
	config Config
}

// NewOpenAIClient creates an OpenAI-backed scoring client.
func NewOpenAIClient(config Config) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Complete sends one prompt and returns the trimmed response content.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	maxTokens := c.config.MaxTokens
	if maxTokens < 1 {
		maxTokens = 1
	}

	req := openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: c.config.Temperature,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
