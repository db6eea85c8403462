package splitter

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"script-split/internal/chunker"
)

var (
	ErrEmptyResult     = errors.New("delegate returned no chunks")
	ErrBlankChunk      = errors.New("delegate returned a blank chunk")
	ErrLimitExceeded   = errors.New("delegate chunk exceeds limit")
	ErrContentMismatch = errors.New("delegate chunks do not match input text")
)

// buildChunks turns delegate output into chunks and checks it against the same
// guarantees chunker.ChunkText gives: ids 1..N, trimmed non-blank content,
// derived char counts, the limit (a lone oversized word excepted) and the
// exact sequence of non-whitespace characters of text.
func buildChunks(text string, contents []string, limit int) ([]chunker.Chunk, error) {
	if len(contents) == 0 {
		if strings.TrimSpace(text) == "" {
			return []chunker.Chunk{}, nil
		}
		return nil, ErrEmptyResult
	}

	chunks := make([]chunker.Chunk, 0, len(contents))
	for i, content := range contents {
		content = strings.TrimSpace(content)
		if content == "" {
			return nil, fmt.Errorf("%w: chunk %d", ErrBlankChunk, i+1)
		}
		c := chunker.NewChunk(i+1, content)
		if c.CharCount > limit && strings.IndexFunc(content, unicode.IsSpace) >= 0 {
			return nil, fmt.Errorf("%w: chunk %d has %d characters, limit %d", ErrLimitExceeded, c.ID, c.CharCount, limit)
		}
		chunks = append(chunks, c)
	}

	if nonSpace(text) != nonSpace(contents...) {
		return nil, ErrContentMismatch
	}
	return chunks, nil
}

func nonSpace(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		for _, r := range p {
			if !unicode.IsSpace(r) {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
