package tokenizer

import (
	"maps"
	"slices"
	"strings"
)

// CorpusState maps a serialized symbol sequence to the number of times the
// word it spells occurred in the training corpus.
type CorpusState struct {
	counts map[string]int
}

func newCorpusState() *CorpusState {
	return &CorpusState{counts: make(map[string]int)}
}

// add increments the count of key, inserting it when absent.
func (s *CorpusState) add(key string, n int) {
	s.counts[key] += n
}

// Len returns the number of distinct sequences.
func (s *CorpusState) Len() int { return len(s.counts) }

// Count returns the count stored under key.
func (s *CorpusState) Count(key string) int { return s.counts[key] }

// Total returns the sum of all counts.
func (s *CorpusState) Total() int {
	total := 0
	for _, n := range s.counts {
		total += n
	}
	return total
}

// Keys returns the sequence keys in sorted order.
func (s *CorpusState) Keys() []string {
	return slices.Sorted(maps.Keys(s.counts))
}

// apply rewrites every sequence containing pair as two whole symbols,
// replacing it with merged. Sequences that collide after rewriting have
// their counts summed. It returns the number of sequences rewritten.
func (s *CorpusState) apply(pair Pair, merged string) int {
	needle := pair.String()
	rewrites := make(map[string]string)
	for key := range s.counts {
		if !strings.Contains(key, needle) {
			continue
		}
		symbols, n := mergePair(splitKey(key), pair, merged)
		if n == 0 {
			continue
		}
		rewrites[key] = joinKey(symbols)
	}
	for old, updated := range rewrites {
		n := s.counts[old]
		delete(s.counts, old)
		s.counts[updated] += n
	}
	return len(rewrites)
}
