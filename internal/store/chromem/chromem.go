// Package chromem backs the vector store with a persistent local
// chromem-go collection, for deployments without a Postgres instance.
package chromem

import (
	"context"
	"fmt"
	"math"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/vauassist/university-rag/internal/rag"
)

const collectionName = "university_docs"

type Store struct {
	db         *chromemgo.DB
	collection *chromemgo.Collection
	path       string
}

func New(path string) (*Store, error) {
	db, err := chromemgo.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("open chromem db: %w", err)
	}

	collection, err := getCollection(db)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:         db,
		collection: collection,
		path:       path,
	}, nil
}

func getCollection(db *chromemgo.DB) (*chromemgo.Collection, error) {
	metadata := map[string]string{
		"hnsw:space": "cosine",
	}
	collection, err := db.GetOrCreateCollection(collectionName, metadata, nil)
	if err != nil {
		return nil, fmt.Errorf("open collection: %w", err)
	}
	return collection, nil
}

func (s *Store) Add(ctx context.Context, docs []rag.Document) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]string, 0, len(docs))
	vectors := make([][]float32, 0, len(docs))
	metadatas := make([]map[string]string, 0, len(docs))
	contents := make([]string, 0, len(docs))

	for _, d := range docs {
		if len(d.Embedding) == 0 {
			return fmt.Errorf("document %s has no embedding", d.ID)
		}
		ids = append(ids, d.ID)
		vectors = append(vectors, d.Embedding)
		metadatas = append(metadatas, map[string]string{
			"faculty":     string(d.Faculty),
			"source_type": string(d.SourceType),
			"title":       d.Title,
			"source_url":  d.SourceURL,
		})
		contents = append(contents, d.Content)
	}

	if err := s.collection.Add(ctx, ids, vectors, metadatas, contents); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, embedding []float32, topK int, filter rag.Filter) ([]rag.QueryResult, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK <= 0 {
		topK = rag.DefaultTopK
	}
	// chromem rejects nResults above the collection size.
	if topK > count {
		topK = count
	}

	var where map[string]string
	if filter.Faculty != "" || filter.SourceType != "" {
		where = make(map[string]string, 2)
		if filter.Faculty != "" {
			where["faculty"] = string(filter.Faculty)
		}
		if filter.SourceType != "" {
			where["source_type"] = string(filter.SourceType)
		}
	}

	results, err := s.collection.QueryEmbedding(ctx, embedding, topK, where, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	out := make([]rag.QueryResult, 0, len(results))
	for _, r := range results {
		// Raw cosine similarity ranges over [-1,1]; scores are [0,1].
		qr := rag.QueryResult{
			ID:      r.ID,
			Content: r.Content,
			Score:   math.Max(0, float64(r.Similarity)),
		}
		if r.Metadata != nil {
			qr.Faculty = rag.Faculty(r.Metadata["faculty"])
			qr.SourceType = rag.SourceType(r.Metadata["source_type"])
			qr.Title = r.Metadata["title"]
			qr.SourceURL = r.Metadata["source_url"]
		}
		out = append(out, qr)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	return s.collection.Count(), nil
}

// Reset drops and recreates the collection. Only the import command
// calls this.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	collection, err := getCollection(s.db)
	if err != nil {
		return err
	}
	s.collection = collection
	return nil
}

// Close is a no-op; chromem persists on every write.
func (s *Store) Close() {}

var _ rag.VectorStore = (*Store)(nil)
