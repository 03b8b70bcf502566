// Package embedding maps text to fixed-length vectors via the Gemini
// embeddings API.
package embedding

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	// Model is the embedding model every document and query goes through.
	// Changing it invalidates the stored vectors; rebuild the index.
	Model = "models/text-embedding-004"

	// Dim is the fixed output dimensionality.
	Dim = 768
)

type GeminiEmbedder struct {
	client *genai.Client
}

func NewGemini(client *genai.Client) *GeminiEmbedder {
	return &GeminiEmbedder{client: client}
}

func (g *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	clean := normalizeWhitespace(text)
	if clean == "" {
		return nil, fmt.Errorf("empty text for embedding")
	}

	resp, err := g.client.Models.EmbedContent(
		ctx,
		Model,
		genai.Text(clean),
		&genai.EmbedContentConfig{
			OutputDimensionality: genai.Ptr(int32(Dim)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini embed error: %w", err)
	}

	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	values := resp.Embeddings[0].Values
	if len(values) != Dim {
		return nil, fmt.Errorf("unexpected embedding size %d (expected %d)", len(values), Dim)
	}

	out := make([]float32, Dim)
	copy(out, values)
	return out, nil
}

func normalizeWhitespace(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			if !space {
				b.WriteRune(' ')
				space = true
			}
		} else {
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}
