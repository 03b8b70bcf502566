package prompt

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemLanguage(t *testing.T) {
	assert.Contains(t, System("en"), "English")
	assert.Contains(t, System("ta"), "Tamil")
	assert.Contains(t, System("si"), "Sinhala")
	assert.Contains(t, System("xx"), "English", "unknown codes fall back to English")
	assert.Contains(t, System("en"), "University of Vavuniya")
}

func TestBuildContextLabelsSources(t *testing.T) {
	sources := []Source{
		{Title: "Admissions", URL: "https://fts.vau.ac.lk/admissions", Content: "Admission requirements."},
		{Title: "Programmes", URL: "https://fts.vau.ac.lk/programmes", Content: "Degree programmes."},
	}

	ctx, used := BuildContext(sources)
	assert.Equal(t, 2, used)
	assert.Contains(t, ctx, "[Source 1]")
	assert.Contains(t, ctx, "[Source 2]")
	assert.Contains(t, ctx, "https://fts.vau.ac.lk/admissions")
	assert.Contains(t, ctx, "Admission requirements.")
}

func TestBuildContextCapsChunkCount(t *testing.T) {
	var sources []Source
	for i := 0; i < MaxContextChunks+5; i++ {
		sources = append(sources, Source{
			Title:   fmt.Sprintf("Page %d", i),
			URL:     fmt.Sprintf("https://vau.ac.lk/page-%d", i),
			Content: "content",
		})
	}

	ctx, used := BuildContext(sources)
	assert.Equal(t, MaxContextChunks, used)
	assert.Contains(t, ctx, fmt.Sprintf("[Source %d]", MaxContextChunks))
	assert.NotContains(t, ctx, fmt.Sprintf("[Source %d]", MaxContextChunks+1))
}

func TestBuildContextCapsChunkLength(t *testing.T) {
	long := strings.Repeat("a", MaxChunkChars+500)

	ctx, used := BuildContext([]Source{{Title: "Handbook", Content: long}})
	require.Equal(t, 1, used)
	assert.Contains(t, ctx, strings.Repeat("a", MaxChunkChars)+"...")
	assert.NotContains(t, ctx, strings.Repeat("a", MaxChunkChars+1))
}

func TestBuildContextTruncatesAtRuneBoundary(t *testing.T) {
	// The "ab" prefix shifts the 3-byte Tamil runes off the cut offsets,
	// so a byte-offset slice would split a rune.
	title := "ab" + strings.Repeat("த", 100)
	body := "ab" + strings.Repeat("த", 500)

	ctx, used := BuildContext([]Source{{Title: title, URL: "https://vau.ac.lk", Content: body}})
	require.Equal(t, 1, used)
	assert.True(t, utf8.ValidString(ctx))
	assert.Contains(t, ctx, "...")
}

func TestBuildUserPrompt(t *testing.T) {
	prompt, used := BuildUserPrompt("  When does registration open?  ", []Source{
		{Title: "Admissions", URL: "https://fts.vau.ac.lk/admissions", Content: "Registration opens in September."},
	})

	assert.Equal(t, 1, used)
	assert.True(t, strings.HasPrefix(prompt, "Question:\nWhen does registration open?"))
	assert.Contains(t, prompt, "Registration opens in September.")
}
