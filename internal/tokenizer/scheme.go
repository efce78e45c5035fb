package tokenizer

import (
	"fmt"
	"strings"
)

// scheme holds everything that differs between BPE and WordPiece: how a
// word becomes its initial symbols, how a pair is merged and scored, and
// how tokens are joined back into text.
type scheme interface {
	marker() string
	encode(word string) []string
	merge(p Pair) string
	score(joint, left, right int) float64
	detokenize(tokens []string) string
}

func newScheme(model Model, marker string) (scheme, error) {
	if err := validateMarker(marker); err != nil {
		return nil, err
	}
	switch model {
	case BPE:
		return bpeScheme{eow: marker}, nil
	case WordPiece:
		return wordPieceScheme{cont: marker}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
}

// bpeScheme prefixes every word with a boundary symbol and scores pairs by
// raw frequency.
type bpeScheme struct {
	eow string
}

func (s bpeScheme) marker() string { return s.eow }

func (s bpeScheme) encode(word string) []string {
	return append([]string{s.eow}, splitRunes(word)...)
}

func (s bpeScheme) merge(p Pair) string {
	return p.A + p.B
}

func (s bpeScheme) score(joint, _, _ int) float64 {
	return float64(joint)
}

func (s bpeScheme) detokenize(tokens []string) string {
	doc := strings.ReplaceAll(strings.Join(tokens, ""), s.eow, " ")
	return strings.TrimSpace(doc)
}

// wordPieceScheme prefixes every non-initial character with a continuation
// marker and scores pairs by joint count over the product of marginals.
type wordPieceScheme struct {
	cont string
}

func (s wordPieceScheme) marker() string { return s.cont }

func (s wordPieceScheme) encode(word string) []string {
	chars := splitRunes(word)
	for i := 1; i < len(chars); i++ {
		chars[i] = s.cont + chars[i]
	}
	return chars
}

func (s wordPieceScheme) merge(p Pair) string {
	return p.A + strings.TrimPrefix(p.B, s.cont)
}

func (s wordPieceScheme) score(joint, left, right int) float64 {
	return float64(joint) / (float64(left) * float64(right))
}

func (s wordPieceScheme) detokenize(tokens []string) string {
	doc := strings.ReplaceAll(strings.Join(tokens, " "), " "+s.cont, "")
	return strings.TrimSpace(doc)
}
