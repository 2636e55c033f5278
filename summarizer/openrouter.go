package summarizer

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// DefaultOpenRouterModels are free-tier models in order of preference.
// Each becomes its own ladder entry.
var DefaultOpenRouterModels = []string{
	"nex-agi/deepseek-v3.1-nex-n1:free",
	"qwen/qwen3-4b:free",
	"google/gemma-3-4b-it:free",
	"meta-llama/llama-3.3-70b-instruct:free",
	"mistralai/mistral-7b-instruct:free",
	"microsoft/phi-3-mini-128k-instruct:free",
}

// OpenRouter talks to one model behind the OpenRouter aggregation API.
type OpenRouter struct {
	client *openai.Client
	model  string
}

// NewOpenRouter builds one provider per model so the ladder can rotate
// across them individually.
func NewOpenRouter(apiKey string, models []string) []*OpenRouter {
	if len(models) == 0 {
		models = DefaultOpenRouterModels
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = openRouterBaseURL
	client := openai.NewClientWithConfig(cfg)

	providers := make([]*OpenRouter, len(models))
	for i, m := range models {
		providers[i] = &OpenRouter{client: client, model: m}
	}
	return providers
}

func (o *OpenRouter) Name() string         { return "openrouter/" + o.model }
func (o *OpenRouter) MaxChunks() int       { return 5 }
func (o *OpenRouter) MaxContextChars() int { return 40000 }

func (o *OpenRouter) Generate(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.3,
		MaxTokens:   1500,
	})
	if err != nil {
		return "", classifyOpenAIError(o.Name(), err)
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: o.Name(), Kind: KindTransient, Err: fmt.Errorf("empty response")}
	}
	return resp.Choices[0].Message.Content, nil
}
