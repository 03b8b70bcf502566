// Package pgvector stores document chunks and their embeddings in
// Postgres, with similarity search through the pgvector extension.
package pgvector

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvec "github.com/pgvector/pgvector-go"

	"github.com/vauassist/university-rag/internal/rag"
)

type Store struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Add(ctx context.Context, docs []rag.Document) error {
	for _, d := range docs {
		if len(d.Embedding) == 0 {
			return fmt.Errorf("document %s has no embedding", d.ID)
		}
		if err := s.addOne(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// addOne inserts the chunk and its embedding in one transaction, so a
// failed embedding insert cannot leave an orphan chunk row behind.
func (s *Store) addOne(ctx context.Context, d rag.Document) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO document_chunk (id, faculty, source_type, title, content, source_url)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		d.ID,
		d.Faculty,
		d.SourceType,
		d.Title,
		d.Content,
		d.SourceURL,
	)
	if err != nil {
		return fmt.Errorf("insert chunk %s: %w", d.ID, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO document_chunk_embedding (chunk_id, embedding)
		VALUES ($1, $2)
	`, d.ID, pgvec.NewVector(d.Embedding))
	if err != nil {
		return fmt.Errorf("insert embedding %s: %w", d.ID, err)
	}

	return tx.Commit(ctx)
}

// Search orders by cosine distance and reports 1-distance, clamped at
// zero, as the score, so scores are descending similarities in [0,1].
func (s *Store) Search(ctx context.Context, embedding []float32, topK int, filter rag.Filter) ([]rag.QueryResult, error) {
	if topK <= 0 {
		topK = rag.DefaultTopK
	}

	vec := pgvec.NewVector(embedding)

	rows, err := s.db.Query(ctx, `
		SELECT
			c.id, c.faculty, c.source_type, c.title, c.content, c.source_url,
			GREATEST(0, 1 - (e.embedding <=> $1)) AS score
		FROM document_chunk c
		JOIN document_chunk_embedding e ON c.id = e.chunk_id
		WHERE ($2 = '' OR c.faculty = $2)
		  AND ($3 = '' OR c.source_type = $3)
		ORDER BY e.embedding <=> $1
		LIMIT $4
	`, vec, string(filter.Faculty), string(filter.SourceType), topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []rag.QueryResult
	for rows.Next() {
		var r rag.QueryResult
		if err := rows.Scan(
			&r.ID,
			&r.Faculty,
			&r.SourceType,
			&r.Title,
			&r.Content,
			&r.SourceURL,
			&r.Score,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM document_chunk`).Scan(&count)
	return count, err
}

// Reset wipes the collection. Only the import command calls this.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `TRUNCATE document_chunk, document_chunk_embedding`)
	return err
}

func (s *Store) Close() {
	s.db.Close()
}

var _ rag.VectorStore = (*Store)(nil)
