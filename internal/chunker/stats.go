package chunker

import (
	"strings"
	"unicode/utf8"
)

// Stats summarizes an input text and the chunks produced from it.
type Stats struct {
	Characters int `json:"characters" yaml:"characters"`
	Words      int `json:"words" yaml:"words"`
	Chunks     int `json:"chunks" yaml:"chunks"`
}

// Summarize counts the characters and words of text alongside the chunk count.
func Summarize(text string, chunks []Chunk) Stats {
	return Stats{
		Characters: utf8.RuneCountInString(text),
		Words:      len(strings.Fields(text)),
		Chunks:     len(chunks),
	}
}
