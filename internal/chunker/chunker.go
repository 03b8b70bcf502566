// Package chunker splits extracted text into overlapping chunks sized
// for embedding and retrieval.
package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 100
)

// SentenceChunker groups sentences into chunks of roughly maxChars,
// carrying overlapChars of trailing sentences into the next chunk.
type SentenceChunker struct {
	maxChars     int
	overlapChars int
	splitter     *regexp.Regexp
}

func NewSentenceChunker(maxChars, overlapChars int) *SentenceChunker {
	if maxChars <= 0 {
		maxChars = DefaultChunkSize
	}
	if overlapChars < 0 || overlapChars >= maxChars {
		overlapChars = 0
	}
	return &SentenceChunker{
		maxChars:     maxChars,
		overlapChars: overlapChars,
		splitter:     regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
	}
}

func (c *SentenceChunker) Chunk(text string) []string {
	text = SanitizeUTF8(strings.TrimSpace(text))
	if text == "" {
		return nil
	}

	sentences := c.split(text)

	var flat []string
	for _, s := range sentences {
		if s == "" {
			continue
		}
		// A single run longer than the budget is hard-split.
		for len(s) > c.maxChars {
			cut := c.maxChars
			for cut > 0 && !utf8.RuneStart(s[cut]) {
				cut--
			}
			if cut == 0 {
				cut = c.maxChars
			}
			flat = append(flat, s[:cut])
			s = s[cut:]
		}
		if s != "" {
			flat = append(flat, s)
		}
	}

	var chunks []string
	var buf []string
	bufLen := 0

	flush := func() {
		if len(buf) == 0 {
			return
		}
		chunk := strings.TrimSpace(strings.Join(buf, " "))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		// Seed the next chunk with trailing sentences up to the overlap
		// budget.
		var carry []string
		carryLen := 0
		for i := len(buf) - 1; i >= 0; i-- {
			l := len(buf[i]) + 1
			if carryLen+l > c.overlapChars {
				break
			}
			carry = append([]string{buf[i]}, carry...)
			carryLen += l
		}
		buf = carry
		bufLen = carryLen
	}

	for _, s := range flat {
		if bufLen > 0 && bufLen+len(s)+1 > c.maxChars {
			flush()
			// Drop the carried overlap when it would still overflow the
			// budget together with the next sentence.
			if bufLen > 0 && bufLen+len(s)+1 > c.maxChars {
				buf = buf[:0]
				bufLen = 0
			}
		}
		buf = append(buf, s)
		bufLen += len(s) + 1
	}
	if len(buf) > 0 {
		chunk := strings.TrimSpace(strings.Join(buf, " "))
		if chunk != "" && (len(chunks) == 0 || !strings.HasSuffix(chunks[len(chunks)-1], chunk)) {
			chunks = append(chunks, chunk)
		}
	}

	return chunks
}

// split cuts text into sentences, keeping any trailing run that has no
// closing punctuation.
func (c *SentenceChunker) split(text string) []string {
	matches := c.splitter.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []string{text}
	}

	var sentences []string
	for _, m := range matches {
		s := strings.TrimSpace(text[m[0]:m[1]])
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	if tail := strings.TrimSpace(text[matches[len(matches)-1][1]:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// SanitizeUTF8 drops invalid bytes so chunk text is always valid UTF-8
// (Postgres rejects invalid byte sequences).
func SanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[1:]
			continue
		}
		b.WriteRune(r)
		s = s[size:]
	}
	return b.String()
}
