package chunker

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidLimit is returned when the character limit is not a positive integer.
var ErrInvalidLimit = errors.New("limit must be a positive integer")

// Chunk represents one bounded segment of the split text.
type Chunk struct {
	ID        int    `json:"id" yaml:"id"`
	Content   string `json:"content" yaml:"content"`
	CharCount int    `json:"char_count" yaml:"char_count"`
}

// NewChunk builds a chunk whose CharCount is derived from content.
func NewChunk(id int, content string) Chunk {
	return Chunk{
		ID:        id,
		Content:   content,
		CharCount: utf8.RuneCountInString(content),
	}
}

// ValidateLimit reports ErrInvalidLimit for non-positive limits.
func ValidateLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}
	return nil
}

// ChunkText splits text into ordered chunks of at most limit characters.
// Sentences (ending in '.', '!' or '?' followed by whitespace) are packed greedily
// and joined with a single space. A sentence longer than limit is split at word
// boundaries instead; a single word longer than limit becomes its own chunk.
// Lengths are counted in runes.
func ChunkText(text string, limit int) ([]Chunk, error) {
	if err := ValidateLimit(limit); err != nil {
		return nil, err
	}
	p := packer{limit: limit, chunks: []Chunk{}}
	text = strings.TrimSpace(text)
	if text == "" {
		return p.chunks, nil
	}

	var current buffer
	for _, sentence := range splitSentences(text) {
		n := utf8.RuneCountInString(sentence)
		sep := 0
		if !current.empty() {
			sep = 1
		}
		if current.n+sep+n <= limit {
			if sep == 1 {
				current.write(" ", 1)
			}
			current.write(sentence, n)
			continue
		}

		p.emit(current.String())
		current.reset()
		if n > limit {
			// The trailing piece stays in current so later sentences can join it.
			p.splitWords(sentence, &current)
			continue
		}
		current.write(sentence, n)
	}
	p.emit(current.String())

	return p.chunks, nil
}

type packer struct {
	limit  int
	chunks []Chunk
}

// emit appends the trimmed content as the next chunk unless it is blank.
func (p *packer) emit(content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	p.chunks = append(p.chunks, NewChunk(len(p.chunks)+1, content))
}

// splitWords walks the word and whitespace runs of sentence, flushing sub
// whenever the next run would push it past the limit.
func (p *packer) splitWords(sentence string, sub *buffer) {
	for _, tok := range splitTokens(sentence) {
		n := utf8.RuneCountInString(tok)
		if sub.n+n > p.limit {
			p.emit(sub.String())
			sub.reset()
		}
		sub.write(tok, n)
	}
}

// buffer is a strings.Builder that also tracks its length in runes.
type buffer struct {
	sb strings.Builder
	n  int
}

func (b *buffer) write(s string, runes int) {
	b.sb.WriteString(s)
	b.n += runes
}

func (b *buffer) empty() bool { return b.sb.Len() == 0 }

func (b *buffer) reset() {
	b.sb.Reset()
	b.n = 0
}

func (b *buffer) String() string { return b.sb.String() }

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// splitSentences cuts text after every terminator that is followed by
// whitespace. The whitespace run itself is dropped; the terminator stays with
// the sentence it closes.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	var prev rune
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) || !isTerminator(prev) {
			prev = r
			i += size
			continue
		}
		end := i
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if !unicode.IsSpace(r) {
				break
			}
			i += size
		}
		sentences = append(sentences, text[start:end])
		start = i
		prev = 0
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

// splitTokens returns the alternating runs of non-whitespace and whitespace in s.
func splitTokens(s string) []string {
	var tokens []string
	start := 0
	inSpace := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if i > start && space != inSpace {
			tokens = append(tokens, s[start:i])
			start = i
		}
		inSpace = space
	}
	if start < len(s) {
		tokens = append(tokens, s[start:])
	}
	return tokens
}
