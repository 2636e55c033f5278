package summarizer

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// Groq talks to the Groq API, which is OpenAI-compatible.
type Groq struct {
	client *openai.Client
	model  string
}

func NewGroq(apiKey, model string) *Groq {
	if model == "" {
		model = "llama-3.1-8b-instant"
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	return &Groq{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (g *Groq) Name() string         { return "groq/" + g.model }
func (g *Groq) MaxChunks() int       { return 15 }
func (g *Groq) MaxContextChars() int { return 50000 }

func (g *Groq) Generate(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.3,
		MaxTokens:   2048,
	})
	if err != nil {
		return "", classifyOpenAIError(g.Name(), err)
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: g.Name(), Kind: KindTransient, Err: fmt.Errorf("empty response")}
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyOpenAIError maps go-openai API errors onto the ladder taxonomy.
// Shared by every OpenAI-compatible backend.
func classifyOpenAIError(name string, err error) *ProviderError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 429:
			return &ProviderError{Provider: name, Kind: KindRateLimited, Err: err}
		case 401, 403:
			return &ProviderError{Provider: name, Kind: KindAuthFailed, Err: err}
		}
	}
	return &ProviderError{Provider: name, Kind: KindTransient, Err: err}
}
