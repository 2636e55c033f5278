package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// retryAfterRe pulls the suggested wait out of Gemini quota error payloads.
var retryAfterRe = regexp.MustCompile(`retry in (\d+\.?\d*)s`)

// Gemini talks to the Google Generative Language API over plain HTTP.
type Gemini struct {
	apiKey string
	model  string
	client *http.Client
}

func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Gemini{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

func (g *Gemini) Name() string         { return "gemini/" + g.model }
func (g *Gemini) MaxChunks() int       { return 3 }
func (g *Gemini) MaxContextChars() int { return 50000 }

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) Generate(ctx context.Context, system, user string) (string, error) {
	req := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: system}}},
		Contents:          []geminiContent{{Parts: []geminiPart{{Text: user}}}},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", &ProviderError{Provider: g.Name(), Kind: KindTransient, Err: err}
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", geminiBaseURL, g.model, g.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", &ProviderError{Provider: g.Name(), Kind: KindTransient, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", &ProviderError{Provider: g.Name(), Kind: KindTransient, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: g.Name(), Kind: KindTransient, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", g.classifyStatus(resp.StatusCode, respBody)
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return "", &ProviderError{Provider: g.Name(), Kind: KindTransient, Err: err}
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", &ProviderError{Provider: g.Name(), Kind: KindTransient, Err: fmt.Errorf("no candidates in response")}
	}
	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

func (g *Gemini) classifyStatus(status int, body []byte) *ProviderError {
	err := fmt.Errorf("gemini API error: status %d, body: %s", status, string(body))
	switch status {
	case 429:
		pe := &ProviderError{Provider: g.Name(), Kind: KindRateLimited, Err: err}
		if m := retryAfterRe.FindSubmatch(body); m != nil {
			if secs, perr := strconv.ParseFloat(string(m[1]), 64); perr == nil {
				pe.RetryAfter = time.Duration(secs * float64(time.Second))
			}
		}
		return pe
	case 401, 403:
		return &ProviderError{Provider: g.Name(), Kind: KindAuthFailed, Err: err}
	}
	return &ProviderError{Provider: g.Name(), Kind: KindTransient, Err: err}
}
