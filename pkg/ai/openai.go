// Package ai implements the AI Inference collaborator on top of the OpenAI
// chat completion API.
package ai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
)

const (
	DefaultModel       = openai.GPT4oMini
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
)

// Cost per 1K tokens, used for the run's cost estimate. Unknown models fall
// back to defaultCostPer1K.
var costPer1K = map[string]float64{
	openai.GPT4o:         0.0050,
	openai.GPT4oMini:     0.0003,
	openai.GPT4:          0.0300,
	openai.GPT3Dot5Turbo: 0.0015,
}

const defaultCostPer1K = 0.0020

// ChatCompletionClient is the slice of the OpenAI client the provider needs.
// Keeping it narrow lets tests stub inference without network access.
type ChatCompletionClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider implements protocol.AIProvider.
type OpenAIProvider struct {
	client       ChatCompletionClient
	defaultModel string
}

// NewOpenAIProvider creates a provider around an existing client.
func NewOpenAIProvider(client ChatCompletionClient, defaultModel string) *OpenAIProvider {
	if defaultModel == "" {
		defaultModel = DefaultModel
	}

	return &OpenAIProvider{
		client:       client,
		defaultModel: defaultModel,
	}
}

// NewOpenAIProviderFromKey creates a provider with a real API client.
func NewOpenAIProviderFromKey(apiKey, defaultModel string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is empty")
	}

	return NewOpenAIProvider(openai.NewClient(apiKey), defaultModel), nil
}

// Chat sends a single-message chat completion and returns the response text
// plus usage accounting.
func (p *OpenAIProvider) Chat(ctx context.Context, req protocol.AIRequest) (*protocol.AIResult, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	temperature := req.Temperature
	if temperature <= 0 {
		temperature = DefaultTemperature
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: float32(temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	tokens := resp.Usage.TotalTokens

	return &protocol.AIResult{
		Message:    resp.Choices[0].Message.Content,
		Model:      model,
		TokensUsed: tokens,
		Cost:       EstimateCost(model, tokens),
	}, nil
}

// EstimateCost converts a token count into the provider's cost estimate.
func EstimateCost(model string, tokens int) float64 {
	rate, ok := costPer1K[model]
	if !ok {
		rate = defaultCostPer1K
	}

	return float64(tokens) / 1000 * rate
}
