package tokenizer

import (
	"fmt"
	"strings"
)

// Model identifies the subword learning scheme.
type Model string

const (
	// BPE merges the most frequent adjacent pair and marks word starts.
	BPE Model = "bpe"
	// WordPiece merges the pair with the best normalized co-occurrence
	// score and marks word continuations.
	WordPiece Model = "wordpiece"
)

// ParseModel converts a model name into a Model.
func ParseModel(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bpe":
		return BPE, nil
	case "wordpiece", "word-piece", "wp":
		return WordPiece, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, s)
	}
}

// Pair is two adjacent symbols.
type Pair struct {
	A string
	B string
}

// String returns the pair key text, the two symbols joined by a space.
func (p Pair) String() string {
	return p.A + " " + p.B
}

// ParsePair splits a pair key produced by Pair.String.
func ParsePair(key string) (Pair, error) {
	a, b, ok := strings.Cut(key, " ")
	if !ok || a == "" || b == "" || strings.Contains(b, " ") {
		return Pair{}, fmt.Errorf("malformed pair %q", key)
	}
	return Pair{A: a, B: b}, nil
}

// Merge is one learned rule: Pair is replaced by Symbol.
type Merge struct {
	Pair   Pair
	Symbol string
}

func (m Merge) String() string {
	return m.Pair.String() + " -> " + m.Symbol
}
