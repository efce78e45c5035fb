// Package tokenizer learns BPE and WordPiece merge lists from a corpus and
// replays them to tokenize new text.
package tokenizer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samcharles93/subword/internal/pretokenize"
)

// Tokenizer applies a trained merge list. It is immutable and safe for
// concurrent use.
type Tokenizer struct {
	cfg    Config
	scheme scheme
	pretok *pretokenize.Pretokenizer
	merges []Merge
	keys   []string
	vocab  []string
}

// New builds a tokenizer from a previously learned merge list. Each merge
// must agree with the model's merge rule. vocab may be nil.
func New(cfg Config, merges []Merge, vocab []string) (*Tokenizer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	sc, err := newScheme(cfg.Model, cfg.Marker())
	if err != nil {
		return nil, err
	}
	pt, err := pretokenize.New(cfg.Pretokenize)
	if err != nil {
		return nil, err
	}
	for i, m := range merges {
		if m.Pair.A == "" || m.Pair.B == "" || strings.Contains(m.Pair.A, " ") || strings.Contains(m.Pair.B, " ") {
			return nil, fmt.Errorf("%w: merge %d has malformed pair %q", ErrCorruptArtifact, i, m.Pair.String())
		}
		if want := sc.merge(m.Pair); m.Symbol != want {
			return nil, fmt.Errorf("%w: merge %d maps %q to %q, want %q", ErrCorruptArtifact, i, m.Pair.String(), m.Symbol, want)
		}
	}
	return newTokenizer(cfg, sc, pt, slices.Clone(merges), slices.Clone(vocab)), nil
}

func newTokenizer(cfg Config, sc scheme, pt *pretokenize.Pretokenizer, merges []Merge, vocab []string) *Tokenizer {
	keys := make([]string, len(merges))
	for i, m := range merges {
		keys[i] = m.Pair.String()
	}
	cfg.MaxVocabSize = 0
	cfg.Verbose = false
	return &Tokenizer{
		cfg:    cfg,
		scheme: sc,
		pretok: pt,
		merges: merges,
		keys:   keys,
		vocab:  vocab,
	}
}

func (t *Tokenizer) Model() Model                  { return t.cfg.Model }
func (t *Tokenizer) Marker() string                { return t.scheme.marker() }
func (t *Tokenizer) Pretokenize() pretokenize.Mode { return t.cfg.Pretokenize }
func (t *Tokenizer) NumMerges() int                { return len(t.merges) }
func (t *Tokenizer) VocabSize() int                { return len(t.vocab) }

// Config returns the inference configuration of the tokenizer.
func (t *Tokenizer) Config() Config { return t.cfg }

// Merges returns a copy of the merge list in training order.
func (t *Tokenizer) Merges() []Merge {
	return slices.Clone(t.merges)
}

// Vocabulary returns a copy of the sorted vocabulary recorded at training
// time, or nil when none was recorded.
func (t *Tokenizer) Vocabulary() []string {
	return slices.Clone(t.vocab)
}

// Words pretokenizes doc the same way training did.
func (t *Tokenizer) Words(doc string) []string {
	return t.pretok.Words(doc)
}

// Tokenize splits doc into subword tokens.
func (t *Tokenizer) Tokenize(doc string) []string {
	var tokens []string
	for word := range t.pretok.Split(doc) {
		tokens = append(tokens, t.TokenizeWord(word)...)
	}
	return tokens
}

// TokenizeWord encodes a single pretokenized word and replays every merge
// in training order. Characters never seen in training stay single
// symbols.
func (t *Tokenizer) TokenizeWord(word string) []string {
	symbols := t.scheme.encode(word)
	seq := joinKey(symbols)
	for i, m := range t.merges {
		if !strings.Contains(seq, t.keys[i]) {
			continue
		}
		var n int
		symbols, n = mergePair(symbols, m.Pair, m.Symbol)
		if n > 0 {
			seq = joinKey(symbols)
		}
	}
	return symbols
}

// Detokenize joins tokens back into text, the inverse of Tokenize up to
// whitespace normalization.
func (t *Tokenizer) Detokenize(tokens []string) string {
	return t.scheme.detokenize(tokens)
}
