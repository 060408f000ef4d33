package llm

import (
	"context"
	"fmt"
	"strings"
)

const anthropicBaseURL = "https://api.anthropic.com"

type Anthropic struct {
	baseProvider
}

func NewAnthropic(baseURL, apiKey, model string) *Anthropic {
	if baseURL == "" {
		baseURL = anthropicBaseURL
	}
	return &Anthropic{
		baseProvider: newBaseProvider(strings.TrimRight(baseURL, "/"), apiKey, model),
	}
}

func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	payload := map[string]any{
		"model":      a.model,
		"max_tokens": 4096,
		"messages":   []msg{{Role: "user", Content: prompt}},
	}

	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": "2023-06-01",
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := a.postJSON(ctx, "/v1/messages", payload, headers, &result); err != nil {
		return "", err
	}

	var text strings.Builder
	for _, c := range result.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("empty content")
	}
	return strings.TrimSpace(text.String()), nil
}

func (a *Anthropic) Transcribe(ctx context.Context, audio []byte, mimeType, prompt string) (string, error) {
	return "", ErrTranscriptionUnsupported
}
