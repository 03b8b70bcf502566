// Package prompt assembles the system and user prompts sent to the
// chat-completion providers.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxContextChunks caps how many retrieved chunks go into context.
	MaxContextChunks = 10
	// MaxChunkChars caps the length of a single chunk in context.
	MaxChunkChars = 1200
)

// Source is one retrieved chunk offered to the model as context.
type Source struct {
	Title   string
	URL     string
	Content string
}

var languageNames = map[string]string{
	"en": "English",
	"ta": "Tamil",
	"si": "Sinhala",
}

// System returns the system prompt. language is an ISO code; unknown
// codes fall back to English.
func System(language string) string {
	target := languageNames[language]
	if target == "" {
		target = "English"
	}

	var b strings.Builder
	b.WriteString("You are an assistant for the University of Vavuniya in Sri Lanka, ")
	b.WriteString("helping students, staff and visitors with information about the university. ")
	b.WriteString("Your knowledge comes from the university website, the faculty websites ")
	b.WriteString("(FAS, FBS, FTS) and the student handbooks. ")
	b.WriteString(target)
	b.WriteString(" is the target language for the answer. ")
	b.WriteString("Answer ONLY from the provided excerpts. ")
	b.WriteString("If the answer is not clearly present, say it is not available in the indexed material. ")
	b.WriteString("Do not invent programmes, fees, dates or contact details. ")
	b.WriteString("Format the answer in markdown: short paragraphs, headers for separate aspects, ")
	b.WriteString("bullet points for lists, and cite excerpts inline as [Source N].")
	return b.String()
}

// BuildUserPrompt combines the question with the context block and
// reports how many sources were actually placed in context.
func BuildUserPrompt(question string, sources []Source) (string, int) {
	ctx, used := BuildContext(sources)

	var b strings.Builder
	b.WriteString("Question:\n")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\n\nRelevant excerpts from University of Vavuniya documents:\n")
	b.WriteString(ctx)
	return b.String(), used
}

// BuildContext concatenates sources into a labeled context block,
// capped at MaxContextChunks entries of MaxChunkChars each.
func BuildContext(sources []Source) (string, int) {
	n := len(sources)
	if n > MaxContextChunks {
		n = MaxContextChunks
	}

	var b strings.Builder
	for i := 0; i < n; i++ {
		s := sources[i]
		b.WriteString(fmt.Sprintf("\n[Source %d] title=%s url=%s\n", i+1, oneLine(s.Title), s.URL))
		b.WriteString(trimBody(s.Content, MaxChunkChars))
		b.WriteString("\n----\n")
	}
	return b.String(), n
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return truncate(strings.TrimSpace(s), 160)
}

func trimBody(s string, max int) string {
	return truncate(strings.TrimSpace(s), max)
}

// truncate cuts at a rune boundary so Tamil and Sinhala text stays
// valid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		cut = max
	}
	return s[:cut] + "..."
}
