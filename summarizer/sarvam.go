package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const sarvamChatEndpoint = "https://api.sarvam.ai/v1/chat/completions"

// Sarvam talks to the Sarvam AI chat completions API. The API is mostly
// OpenAI-shaped but authenticates with an api-subscription-key header.
type Sarvam struct {
	apiKey string
	model  string
	client *http.Client
}

func NewSarvam(apiKey, model string) *Sarvam {
	if model == "" {
		model = "sarvam-m"
	}
	return &Sarvam{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

func (s *Sarvam) Name() string         { return "sarvam/" + s.model }
func (s *Sarvam) MaxChunks() int       { return 5 }
func (s *Sarvam) MaxContextChars() int { return 30000 }

type sarvamMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type sarvamRequest struct {
	Messages    []sarvamMessage `json:"messages"`
	Model       string          `json:"model"`
	Temperature float32         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
	TopP        float32         `json:"top_p"`
}

type sarvamResponse struct {
	Choices []struct {
		Message sarvamMessage `json:"message"`
	} `json:"choices"`
}

func (s *Sarvam) Generate(ctx context.Context, system, user string) (string, error) {
	req := sarvamRequest{
		Messages: []sarvamMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Model:       s.model,
		Temperature: 0.3,
		MaxTokens:   1024,
		TopP:        0.9,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", &ProviderError{Provider: s.Name(), Kind: KindTransient, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, sarvamChatEndpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", &ProviderError{Provider: s.Name(), Kind: KindTransient, Err: err}
	}
	httpReq.Header.Set("api-subscription-key", s.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", &ProviderError{Provider: s.Name(), Kind: KindTransient, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: s.Name(), Kind: KindTransient, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := fmt.Errorf("sarvam API error: status %d, body: %s", resp.StatusCode, string(respBody))
		switch resp.StatusCode {
		case 429:
			return "", &ProviderError{Provider: s.Name(), Kind: KindRateLimited, Err: apiErr}
		case 401, 403:
			return "", &ProviderError{Provider: s.Name(), Kind: KindAuthFailed, Err: apiErr}
		}
		return "", &ProviderError{Provider: s.Name(), Kind: KindTransient, Err: apiErr}
	}

	var sarvamResp sarvamResponse
	if err := json.Unmarshal(respBody, &sarvamResp); err != nil {
		return "", &ProviderError{Provider: s.Name(), Kind: KindTransient, Err: err}
	}
	if len(sarvamResp.Choices) == 0 {
		return "", &ProviderError{Provider: s.Name(), Kind: KindTransient, Err: fmt.Errorf("no choices in response")}
	}
	return sarvamResp.Choices[0].Message.Content, nil
}
