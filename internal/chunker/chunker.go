// Package chunker splits raw content into retrieval-sized pieces along
// semantic boundaries: paragraphs first, then sentences, then words as
// a last resort. Consecutive chunks share a small overlap so meaning
// that straddles a boundary is still retrievable.
package chunker

import (
	"regexp"
	"strings"

	"github.com/echoes-os/echoes/internal/tokenizer"
)

const (
	// DefaultMaxTokens bounds the size of a single chunk.
	DefaultMaxTokens = 800
	// DefaultOverlapTokens is carried from the tail of one chunk into
	// the head of the next.
	DefaultOverlapTokens = 100
)

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// Chunker splits text under a token budget.
type Chunker struct {
	tok       *tokenizer.Tokenizer
	maxTokens int
	overlap   int
}

// New creates a Chunker. Non-positive limits fall back to the defaults.
func New(tok *tokenizer.Tokenizer, maxTokens, overlapTokens int) *Chunker {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if overlapTokens < 0 || overlapTokens >= maxTokens {
		overlapTokens = DefaultOverlapTokens
	}
	return &Chunker{tok: tok, maxTokens: maxTokens, overlap: overlapTokens}
}

// Chunk splits text into overlapping chunks. Empty or whitespace-only
// input yields nil. Chunking is deterministic: the same input always
// produces the same boundaries.
func (c *Chunker) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []string
	var current string

	for _, paragraph := range strings.Split(text, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		if c.tok.Count(current+paragraph) > c.maxTokens {
			if current != "" {
				chunks = append(chunks, strings.TrimSpace(current))
				current = c.overlapTail(current) + paragraph
			} else {
				// The paragraph alone blows the budget; descend to
				// sentence granularity.
				chunks = append(chunks, c.chunkBySentences(paragraph)...)
				current = ""
			}
			continue
		}

		if current != "" {
			current += "\n\n" + paragraph
		} else {
			current = paragraph
		}
	}

	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}
	return chunks
}

func (c *Chunker) chunkBySentences(text string) []string {
	var chunks []string
	var current string

	for _, sentence := range sentenceSplit.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		if c.tok.Count(current+sentence) > c.maxTokens {
			if current != "" {
				chunks = append(chunks, strings.TrimSpace(current))
				current = c.overlapTail(current) + sentence
			} else {
				chunks = append(chunks, c.chunkByWords(sentence)...)
				current = ""
			}
			continue
		}

		if current != "" {
			current += ". " + sentence
		} else {
			current = sentence
		}
	}

	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}
	return chunks
}

func (c *Chunker) chunkByWords(text string) []string {
	var chunks []string
	var current string

	for _, word := range strings.Fields(text) {
		if c.tok.Count(current+" "+word) > c.maxTokens {
			if current != "" {
				chunks = append(chunks, strings.TrimSpace(current))
				tail := c.overlapWords(current)
				if tail != "" {
					current = tail + " " + word
				} else {
					current = word
				}
			} else {
				// A single word over the budget. Store it whole; the
				// embedder truncates if it must.
				chunks = append(chunks, word)
				current = ""
			}
			continue
		}

		if current != "" {
			current += " " + word
		} else {
			current = word
		}
	}

	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}
	return chunks
}

// overlapTail returns the end of a finished chunk to seed the next one,
// preferring a sentence boundary when one falls in the back half of the
// overlap window.
func (c *Chunker) overlapTail(text string) string {
	if c.overlap == 0 {
		return ""
	}
	if c.tok.Count(text) <= c.overlap {
		return text
	}

	tail := c.tok.TruncateTail(text, c.overlap)

	boundary := -1
	for _, p := range []string{".", "!", "?"} {
		if i := strings.LastIndex(tail, p); i > boundary {
			boundary = i
		}
	}
	if boundary > len(tail)/2 {
		return strings.TrimSpace(tail[boundary+1:])
	}
	return strings.TrimSpace(tail)
}

// overlapWords collects whole words from the end of text up to the
// overlap budget.
func (c *Chunker) overlapWords(text string) string {
	if c.overlap == 0 {
		return ""
	}
	if c.tok.Count(text) <= c.overlap {
		return text
	}

	words := strings.Fields(text)
	var tail string
	for i := len(words) - 1; i >= 0; i-- {
		candidate := words[i]
		if tail != "" {
			candidate = words[i] + " " + tail
		}
		if c.tok.Count(candidate) > c.overlap {
			break
		}
		tail = candidate
	}
	return tail
}
