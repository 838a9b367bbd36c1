// Package chunker splits raw document text into overlapping fixed-size word
// windows ahead of embedding.
package chunker

import (
	"strings"
)

// Chunk is a bounded word-count slice of a larger document.
type Chunk struct {
	Text     string
	SourceID string
	Index    int
}

// ChunkText splits text into windows of size words, each window starting
// size-overlap words after the previous one. Whitespace runs are normalized
// to single spaces. Texts of at most size words come back as a single chunk.
// The final chunk may be shorter than size.
//
// ChunkText is pure: the same input always yields the same chunks. The
// size > overlap invariant is enforced by config validation at startup, not
// here.
func ChunkText(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	normalized := strings.Join(words, " ")
	if len(words) <= size {
		return []string{normalized}
	}

	stride := size - overlap
	chunks := make([]string, 0, (len(words)+stride-1)/stride)
	for start := 0; start < len(words); start += stride {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}

	return chunks
}

// ChunkDocument chunks a document body and tags each chunk with its source
// and position.
func ChunkDocument(sourceID, text string, size, overlap int) []Chunk {
	texts := ChunkText(text, size, overlap)
	chunks := make([]Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = Chunk{Text: t, SourceID: sourceID, Index: i}
	}
	return chunks
}
