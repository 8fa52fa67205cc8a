package openai

import (
	"context"
	"errors"
	"fmt"

	"classroom-ai-be/pkg/llm"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIProvider struct {
	client    sdk.Client
	ModelName string
	MaxTokens int
}

var _ llm.LLMProvider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, baseURL, modelName string, maxTokens int) *OpenAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if modelName == "" {
		modelName = "gpt-4o"
	}
	return &OpenAIProvider{
		client:    sdk.NewClient(opts...),
		ModelName: modelName,
		MaxTokens: maxTokens,
	}
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(llm.Options{
		MaxTokens: p.MaxTokens,
		Model:     p.ModelName,
	}, opts...)

	messages := make([]sdk.ChatCompletionMessageParamUnion, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case llm.RoleSystem:
			messages = append(messages, sdk.SystemMessage(msg.Content))
		case llm.RoleAssistant:
			messages = append(messages, sdk.AssistantMessage(msg.Content))
		default:
			messages = append(messages, sdk.UserMessage(msg.Content))
		}
	}

	params := sdk.ChatCompletionNewParams{
		Model:    sdk.ChatModel(options.Model),
		Messages: messages,
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = sdk.Int(int64(options.MaxTokens))
	}
	if options.Temperature > 0 {
		params.Temperature = sdk.Float(options.Temperature)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai chat completion: no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}
