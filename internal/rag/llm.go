package rag

import (
	"context"

	"github.com/vauassist/university-rag/internal/llm"
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorStore persists embedded documents and supports filtered
// nearest-neighbor search. Implementations must return results ordered
// by descending similarity.
type VectorStore interface {
	Add(ctx context.Context, docs []Document) error
	Search(ctx context.Context, embedding []float32, topK int, filter Filter) ([]QueryResult, error)
	Count(ctx context.Context) (int, error)
	Reset(ctx context.Context) error
	Close()
}

// CompletionClient produces an answer from an assembled prompt.
// The fallback chain satisfies this.
type CompletionClient interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error)
}
