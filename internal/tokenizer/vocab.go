package tokenizer

import "github.com/emirpasic/gods/v2/sets/treeset"

// Vocabulary is the set of known symbols, kept in sorted order.
type Vocabulary struct {
	symbols *treeset.Set[string]
}

func newVocabulary(symbols ...string) *Vocabulary {
	return &Vocabulary{symbols: treeset.New(symbols...)}
}

// Add inserts symbol and reports whether it was new.
func (v *Vocabulary) Add(symbol string) bool {
	if v.symbols.Contains(symbol) {
		return false
	}
	v.symbols.Add(symbol)
	return true
}

func (v *Vocabulary) Contains(symbol string) bool {
	return v.symbols.Contains(symbol)
}

func (v *Vocabulary) Size() int {
	return v.symbols.Size()
}

// Symbols returns the symbols in sorted order.
func (v *Vocabulary) Symbols() []string {
	return v.symbols.Values()
}
