// Package chunker performs the deterministic initial segmentation of a
// source text into ordered chunks, plus the token-level text helpers shared
// by the chunk mutation operations.
package chunker

import "strings"

// DefaultChunkSize is the target number of tokens per chunk.
const DefaultChunkSize = 500

// Tokens splits text on runs of whitespace.
func Tokens(text string) []string {
	return strings.Fields(text)
}

// Split segments text into groups of size consecutive whitespace-delimited
// tokens, each group rejoined with single spaces. The final group may be
// shorter. Purely syntactic: no sentence detection. Empty input yields nil;
// size below 1 is clamped to 1.
func Split(text string, size int) []string {
	if size < 1 {
		size = 1
	}
	tokens := Tokens(text)
	if len(tokens) == 0 {
		return nil
	}
	chunks := make([]string, 0, (len(tokens)+size-1)/size)
	for start := 0; start < len(tokens); start += size {
		end := start + size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, strings.Join(tokens[start:end], " "))
	}
	return chunks
}

// JoinBlankLine joins the non-empty parts with a blank line between them.
// Used when combining chunk annotations; downstream renderers must not rely
// on the separator for parsing.
func JoinBlankLine(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

// Midpoint returns the position for a chunk inserted between two neighbours.
// Halving converges on float64 precision after roughly 53 consecutive
// insertions between the same pair; renumbering is left to operators.
func Midpoint(prev, next float64) float64 {
	return (prev + next) / 2
}
