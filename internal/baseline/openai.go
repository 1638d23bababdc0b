package baseline

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4-0125-preview"

// ErrMissingAPIKey is returned when a live adapter is constructed without
// credentials. Callers choose a heuristic or mock baseline instead; there
// is no silent degradation inside the adapter.
var ErrMissingAPIKey = errors.New("missing api key")

// OpenAIModel queries an OpenAI chat model.
type OpenAIModel struct {
	client  *openai.Client
	name    string
	version string
}

// OpenAIOption applies a configuration option to the OpenAI adapter.
type OpenAIOption func(*OpenAIModel)

// WithOpenAIVersion overrides the exact model revision queried.
func WithOpenAIVersion(v string) OpenAIOption {
	return func(m *OpenAIModel) {
		if v != "" {
			m.version = v
		}
	}
}

// NewOpenAIModel creates the adapter. The key is required.
func NewOpenAIModel(apiKey string, opts ...OpenAIOption) (*OpenAIModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai baseline: %w", ErrMissingAPIKey)
	}
	m := &OpenAIModel{
		client:  openai.NewClient(apiKey),
		name:    "gpt4",
		version: defaultOpenAIModel,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Name implements Model.
func (m *OpenAIModel) Name() string { return m.name }

// Version implements Model.
func (m *OpenAIModel) Version() string { return m.version }

// Provider implements Model.
func (m *OpenAIModel) Provider() string { return "openai" }

// Predict implements Model.
func (m *OpenAIModel) Predict(ctx context.Context, question string) (Outcome, error) {
	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.version,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
		Temperature: 0,
		MaxTokens:   500,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Outcome{}, fmt.Errorf("openai completion: no choices returned")
	}
	return parseResponse(resp.Choices[0].Message.Content), nil
}
