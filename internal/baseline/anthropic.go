package baseline

import (
	"context"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

const defaultAnthropicModel = "claude-3-sonnet-20240229"

// AnthropicModel queries an Anthropic messages model.
type AnthropicModel struct {
	client  *anthropic.Client
	name    string
	version string
}

// AnthropicOption applies a configuration option to the Anthropic adapter.
type AnthropicOption func(*AnthropicModel)

// WithAnthropicVersion overrides the exact model revision queried.
func WithAnthropicVersion(v string) AnthropicOption {
	return func(m *AnthropicModel) {
		if v != "" {
			m.version = v
		}
	}
}

// NewAnthropicModel creates the adapter. The key is required.
func NewAnthropicModel(apiKey string, opts ...AnthropicOption) (*AnthropicModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic baseline: %w", ErrMissingAPIKey)
	}
	m := &AnthropicModel{
		client:  anthropic.NewClient(apiKey),
		name:    "claude3",
		version: defaultAnthropicModel,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Name implements Model.
func (m *AnthropicModel) Name() string { return m.name }

// Version implements Model.
func (m *AnthropicModel) Version() string { return m.version }

// Provider implements Model.
func (m *AnthropicModel) Provider() string { return "anthropic" }

// Predict implements Model.
func (m *AnthropicModel) Predict(ctx context.Context, question string) (Outcome, error) {
	resp, err := m.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:  anthropic.Model(m.version),
		System: systemPrompt,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(question),
				},
			},
		},
		MaxTokens: 500,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("anthropic messages: %w", err)
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == nil {
		return Outcome{}, fmt.Errorf("anthropic messages: no text content returned")
	}
	return parseResponse(*resp.Content[0].Text), nil
}
