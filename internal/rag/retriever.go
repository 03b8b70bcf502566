package rag

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultTopK = 5
	MaxTopK     = 10
)

// Retriever embeds a query and searches the vector store.
type Retriever struct {
	embedder Embedder
	store    VectorStore
	logger   *zap.Logger
}

func NewRetriever(embedder Embedder, store VectorStore, logger *zap.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// Retrieve returns up to topK documents ranked by descending similarity,
// restricted by the filter when set. topK is clamped to [1, MaxTopK];
// zero or negative means the default.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int, filter Filter) ([]QueryResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuestion
	}

	topK = ClampTopK(topK)

	count, err := r.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	if count == 0 {
		return nil, ErrEmptyIndex
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := r.store.Search(ctx, vec, topK, filter)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	r.logger.Info("retrieved documents",
		zap.String("query", query),
		zap.Int("topK", topK),
		zap.String("faculty", string(filter.Faculty)),
		zap.Int("results", len(results)))

	return results, nil
}

func ClampTopK(topK int) int {
	if topK <= 0 {
		return DefaultTopK
	}
	if topK > MaxTopK {
		return MaxTopK
	}
	return topK
}
