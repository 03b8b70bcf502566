package llm

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

// GeminiAdapter serves chat completions through the Gemini API.
// It shares the genai client already opened for embeddings.
type GeminiAdapter struct {
	client *genai.Client
	model  string
}

func NewGemini(client *genai.Client, model string) *GeminiAdapter {
	return &GeminiAdapter{client: client, model: model}
}

func (g *GeminiAdapter) Name() string { return "gemini" }

func (g *GeminiAdapter) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.Text(req.System)[0]
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return CompletionResponse{}, NewProviderError(g.Name(), "API_ERROR", "generateContent failed", 0, true, err)
	}
	if resp == nil {
		return CompletionResponse{}, NewProviderError(g.Name(), "EMPTY_RESPONSE", "empty response", 0, false, nil)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return CompletionResponse{}, NewProviderError(g.Name(), "EMPTY_RESPONSE", "model returned empty text", 0, false, nil)
	}

	out := CompletionResponse{
		Text:     text,
		Model:    g.model,
		Provider: g.Name(),
	}
	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}

var _ Provider = (*GeminiAdapter)(nil)
