package llmclient

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIPlanner is the OpenAI-backed Planner, used when a deployment
// configures an OpenAI model instead of (or alongside) Claude.
type OpenAIPlanner struct {
	client openai.Client
	model  string
}

// NewOpenAIPlanner builds a Planner from an API key and model id.
func NewOpenAIPlanner(apiKey, model string) *OpenAIPlanner {
	return &OpenAIPlanner{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (p *OpenAIPlanner) Plan(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("llmclient: openai chat.completions.new: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llmclient: openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
