package chromem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vauassist/university-rag/internal/rag"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func doc(id string, faculty rag.Faculty, embedding []float32) rag.Document {
	return rag.Document{
		ID:         id,
		Faculty:    faculty,
		SourceType: rag.SourceFacultyWeb,
		Title:      "Title " + id,
		Content:    "Content " + id,
		SourceURL:  "https://vau.ac.lk/" + id,
		Embedding:  embedding,
		CreatedAt:  time.Now(),
	}
}

func TestAddAndSearchRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Add(ctx, []rag.Document{
		doc("a", rag.FacultyTechnology, []float32{1, 0, 0}),
		doc("b", rag.FacultyBusiness, []float32{0, 1, 0}),
	}))

	results, err := s.Search(ctx, []float32{1, 0, 0}, 2, rag.Filter{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, rag.FacultyTechnology, results[0].Faculty)
	assert.Equal(t, rag.SourceFacultyWeb, results[0].SourceType)
	assert.Equal(t, "Title a", results[0].Title)
	assert.Equal(t, "Content a", results[0].Content)
	assert.Equal(t, "https://vau.ac.lk/a", results[0].SourceURL)
	assert.InDelta(t, 1.0, results[0].Score, 0.001)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestSearchFacultyFilter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Add(ctx, []rag.Document{
		doc("a", rag.FacultyTechnology, []float32{1, 0, 0}),
		doc("b", rag.FacultyBusiness, []float32{0.9, 0.1, 0}),
	}))

	results, err := s.Search(ctx, []float32{1, 0, 0}, 2, rag.Filter{Faculty: rag.FacultyBusiness})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].ID)
}

func TestSearchScoreClampedNonNegative(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Add(ctx, []rag.Document{
		doc("a", rag.FacultyTechnology, []float32{1, 0, 0}),
	}))

	// Opposite vectors have a raw cosine similarity of -1.
	results, err := s.Search(ctx, []float32{-1, 0, 0}, 1, rag.Filter{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.GreaterOrEqual(t, results[0].Score, 0.0)
	assert.LessOrEqual(t, results[0].Score, 1.0)
}

func TestSearchEmptyCollection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	results, err := s.Search(ctx, []float32{1, 0, 0}, 5, rag.Filter{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchClampsTopKToCollectionSize(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Add(ctx, []rag.Document{
		doc("a", rag.FacultyTechnology, []float32{1, 0, 0}),
	}))

	results, err := s.Search(ctx, []float32{1, 0, 0}, 10, rag.Filter{})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestResetClearsCollection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Add(ctx, []rag.Document{
		doc("a", rag.FacultyTechnology, []float32{1, 0, 0}),
	}))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, s.Reset(ctx))

	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAddRejectsMissingEmbedding(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.Add(ctx, []rag.Document{doc("a", rag.FacultyTechnology, nil)})
	assert.Error(t, err)
}
