package oracle

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI is the network-backed generator. It is a thin adapter: prompt in,
// first choice's text out, no interpretation.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates a generator for the given model. An empty model falls
// back to gpt-4o-mini.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Generate implements Generator.
func (o *OpenAI) Generate(ctx context.Context, p Prompt) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(p.User),
	}
	if p.System != "" {
		messages = append([]openai.ChatCompletionMessageParamUnion{openai.SystemMessage(p.System)}, messages...)
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion (%s): %w", p.Kind, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion (%s): empty response", p.Kind)
	}
	return resp.Choices[0].Message.Content, nil
}
