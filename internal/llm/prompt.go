package llm

import "fmt"

// SplitInstructions restates the chunking rules for a language model.
func SplitInstructions(limit int) string {
	return fmt.Sprintf(`You are a professional text-processing tool.
Your job is to split the script you are given into multiple chunks.

STRICT RULES:
1. Each chunk must be NO LONGER than %[1]d characters.
2. DO NOT BREAK SENTENCES. A sentence must stay entirely within one chunk.
3. The ONLY exception to Rule 2 is if a single sentence is longer than %[1]d characters. In that specific case, split that sentence at a word boundary.
4. Do NOT cut words in half.
5. Output chunks in their original chronological order.
6. Do not add, remove, or summarize ANY content.
7. Preserve all original punctuation and internal spacing.

Respond with a JSON array only, where every element is an object of the form {"content": "<the full text of this chunk>"}.`, limit)
}

// BuildSplitPrompt combines the instructions and the script into one prompt.
func BuildSplitPrompt(text string, limit int) string {
	return SplitInstructions(limit) + "\n\nSCRIPT:\n" + text
}
