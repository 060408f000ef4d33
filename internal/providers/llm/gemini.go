package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// Gemini talks to the Google Generative Language API and accepts inline audio.
type Gemini struct {
	baseProvider
}

func NewGemini(baseURL, apiKey, model string) *Gemini {
	if baseURL == "" {
		baseURL = geminiBaseURL
	}
	return &Gemini{
		baseProvider: newBaseProvider(strings.TrimRight(baseURL, "/"), apiKey, model),
	}
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, []geminiPart{{Text: prompt}})
}

func (g *Gemini) Transcribe(ctx context.Context, audio []byte, mimeType, prompt string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("empty audio payload")
	}
	return g.generate(ctx, []geminiPart{
		{Text: prompt},
		{InlineData: &geminiInlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(audio),
		}},
	})
}

func (g *Gemini) generate(ctx context.Context, parts []geminiPart) (string, error) {
	payload := map[string]any{
		"contents": []geminiContent{{Role: "user", Parts: parts}},
	}
	headers := map[string]string{
		"x-goog-api-key": g.apiKey,
	}

	var result geminiResponse
	path := fmt.Sprintf("/v1beta/models/%s:generateContent", g.model)
	if err := g.postJSON(ctx, path, payload, headers, &result); err != nil {
		return "", err
	}

	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", result.PromptFeedback.BlockReason)
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("empty candidates")
	}

	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("empty response, finish reason %q", result.Candidates[0].FinishReason)
	}
	return text, nil
}
