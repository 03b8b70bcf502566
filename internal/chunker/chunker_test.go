package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkEmpty(t *testing.T) {
	c := NewSentenceChunker(800, 100)

	assert.Nil(t, c.Chunk(""))
	assert.Nil(t, c.Chunk("   \n\t  "))
}

func TestChunkShortTextSingleChunk(t *testing.T) {
	c := NewSentenceChunker(800, 100)

	chunks := c.Chunk("The Faculty of Technological Studies offers four degree programmes.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "The Faculty of Technological Studies offers four degree programmes.", chunks[0])
}

func TestChunkRespectsSizeBudget(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString("Students must register before the semester starts in October. ")
	}

	c := NewSentenceChunker(200, 50)
	chunks := c.Chunk(b.String())

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 200)
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestChunkOverlapCarriesSentences(t *testing.T) {
	text := "First sentence here. Second sentence here. Third sentence here. Fourth sentence here. Fifth sentence here."

	c := NewSentenceChunker(50, 25)
	chunks := c.Chunk(text)
	require.Greater(t, len(chunks), 1)

	// Each follow-up chunk starts with the tail of the previous one.
	for i := 1; i < len(chunks); i++ {
		first := strings.SplitN(chunks[i], ".", 2)[0] + "."
		assert.Contains(t, chunks[i-1], first)
	}
}

func TestChunkOverlapNeverExceedsBudget(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "Sentence number %d pads out here. ", i)
	}

	// Overlap near the chunk size: the carry plus the next sentence
	// would not fit, so the carry must be dropped.
	c := NewSentenceChunker(50, 40)
	chunks := c.Chunk(b.String())

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 50)
	}
}

func TestChunkKeepsTrailingTextWithoutPunctuation(t *testing.T) {
	c := NewSentenceChunker(800, 0)

	chunks := c.Chunk("A complete sentence. And a trailing fragment without a period")
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "trailing fragment")
}

func TestChunkHardSplitsOversizedRuns(t *testing.T) {
	long := strings.Repeat("x", 500)

	c := NewSentenceChunker(200, 0)
	chunks := c.Chunk(long)

	require.GreaterOrEqual(t, len(chunks), 3)
	total := 0
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 200)
		total += len(chunk)
	}
	assert.Equal(t, 500, total)
}

func TestSanitizeUTF8(t *testing.T) {
	assert.Equal(t, "ok", SanitizeUTF8("ok"))
	assert.Equal(t, "ab", SanitizeUTF8("a\xffb"))
	assert.Equal(t, "வணக்கம்", SanitizeUTF8("வணக்கம்"))
}
