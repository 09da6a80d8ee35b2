package chunker

import (
	"strconv"

	"ytchat/internal/domain"
)

// RecursiveChunker splits text into fixed-size overlapping chunks,
// preferring paragraph, sentence, and word boundaries before falling
// back to a hard cut. Sizes are measured in runes. Splitting is
// deterministic: the same text and configuration always produce the
// same chunk sequence.
type RecursiveChunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewRecursiveChunker creates a chunker with the given size and overlap.
// Non-positive size falls back to 1000; negative overlap to 0. Overlap
// is capped below half the size so every window makes forward progress.
func NewRecursiveChunker(chunkSize, chunkOverlap int) *RecursiveChunker {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize/2 {
		chunkOverlap = chunkSize / 5
	}
	return &RecursiveChunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Chunk splits a transcript into ordered, overlapping chunks.
func (c *RecursiveChunker) Chunk(transcript domain.Transcript) ([]domain.Chunk, error) {
	texts := c.Split(transcript.Text)
	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			VideoID: transcript.VideoID,
			ChunkID: transcript.VideoID + ":" + strconv.Itoa(i),
			Text:    text,
			Index:   i,
		}
	}
	return chunks, nil
}

// Split returns the chunk texts for the given input. Text no longer
// than the chunk size yields exactly one chunk equal to the text.
// Consecutive chunks share the configured overlap: each window starts
// overlap runes before the previous cut.
func (c *RecursiveChunker) Split(text string) []string {
	runes := []rune(text)
	if len(runes) <= c.chunkSize {
		return []string{text}
	}
	var out []string
	start := 0
	for {
		end := start + c.chunkSize
		if end >= len(runes) {
			out = append(out, string(runes[start:]))
			break
		}
		cut := c.cutPoint(runes, start, end)
		out = append(out, string(runes[start:cut]))
		next := cut - c.chunkOverlap
		if next <= start {
			next = cut
		}
		start = next
	}
	return out
}

// cutPoint finds the best split position in the window [start, end).
// Boundaries in the first half of the window are ignored so chunks
// never shrink below half the configured size.
func (c *RecursiveChunker) cutPoint(runes []rune, start, end int) int {
	min := start + c.chunkSize/2
	// Paragraph break.
	for i := end - 1; i > min; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}
	// Line break.
	for i := end - 1; i > min; i-- {
		if runes[i] == '\n' {
			return i + 1
		}
	}
	// Sentence end followed by a space.
	for i := end - 2; i > min; i-- {
		if isSentenceEnd(runes[i]) && runes[i+1] == ' ' {
			return i + 1
		}
	}
	// Word boundary.
	for i := end - 1; i > min; i-- {
		if runes[i] == ' ' {
			return i + 1
		}
	}
	return end
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
