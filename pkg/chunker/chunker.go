package chunker

import (
	"strings"
	"unicode"
)

// Chunker turns extracted text into ordered retrieval units.
type Chunker interface {
	Split(text string) []string
}

// SentenceChunker cuts after full-width terminators (。！？) unconditionally and
// after ASCII terminators (.!?) only when followed by whitespace or end of text,
// so decimals and abbreviations like "3.14" stay intact.
type SentenceChunker struct{}

var _ Chunker = SentenceChunker{}

func NewSentenceChunker() SentenceChunker {
	return SentenceChunker{}
}

func (SentenceChunker) Split(text string) []string {
	return Split(text)
}

// Split returns the trimmed, non-empty sentences of text in document order.
// A run of terminators and closing quotes stays attached to its sentence.
func Split(text string) []string {
	runes := []rune(text)
	chunks := []string{}
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}

		fullWidth := isFullWidthTerminator(runes[i])
		end := i + 1
		for end < len(runes) && (isTerminator(runes[end]) || isClosing(runes[end])) {
			if isFullWidthTerminator(runes[end]) {
				fullWidth = true
			}
			end++
		}

		if fullWidth || end == len(runes) || unicode.IsSpace(runes[end]) {
			chunks = appendTrimmed(chunks, runes[start:end])
			start = end
		}
		i = end - 1
	}

	return appendTrimmed(chunks, runes[start:])
}

func appendTrimmed(chunks []string, piece []rune) []string {
	s := strings.TrimSpace(string(piece))
	if s == "" {
		return chunks
	}
	return append(chunks, s)
}

func isFullWidthTerminator(r rune) bool {
	return r == '。' || r == '！' || r == '？'
}

func isTerminator(r rune) bool {
	return isFullWidthTerminator(r) || r == '.' || r == '!' || r == '?'
}

func isClosing(r rune) bool {
	switch r {
	case '」', '』', '”', '’', '）', ')', '"', '\'':
		return true
	}
	return false
}
