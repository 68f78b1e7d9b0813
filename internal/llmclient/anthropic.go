package llmclient

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicPlanner sends the rendered prompt to Claude via the Messages
// API and returns its concatenated text blocks, unparsed.
type AnthropicPlanner struct {
	client    sdk.Client
	model     string
	maxTokens int64
}

// NewAnthropicPlanner builds a Planner from an API key and model id
// (e.g. string(sdk.ModelClaudeSonnet4_5_20250929)).
func NewAnthropicPlanner(apiKey, model string, maxTokens int64) *AnthropicPlanner {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &AnthropicPlanner{
		client:    sdk.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (p *AnthropicPlanner) Plan(ctx context.Context, prompt string) (string, error) {
	msg, err := p.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(p.model),
		MaxTokens: p.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("llmclient: anthropic messages.new: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}
