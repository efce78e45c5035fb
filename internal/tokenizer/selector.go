package tokenizer

import (
	"strings"

	"github.com/emirpasic/gods/v2/trees/binaryheap"
)

// candidate is a pair considered for merging.
type candidate struct {
	pair  Pair
	key   string
	joint int
	score float64
}

type pairStats struct {
	joint    map[Pair]int
	marginal map[string]int
}

// countPairs tallies, in one pass, how often each adjacent pair and each
// symbol occurs, weighted by sequence counts.
func countPairs(state *CorpusState) pairStats {
	st := pairStats{
		joint:    make(map[Pair]int),
		marginal: make(map[string]int),
	}
	for key, n := range state.counts {
		symbols := splitKey(key)
		for i, sym := range symbols {
			st.marginal[sym] += n
			if i+1 < len(symbols) {
				st.joint[Pair{A: sym, B: symbols[i+1]}] += n
			}
		}
	}
	return st
}

// compareCandidates orders the best candidate first: highest score, then
// the lexicographically smallest pair key.
func compareCandidates(a, b *candidate) int {
	switch {
	case a.score > b.score:
		return -1
	case a.score < b.score:
		return 1
	}
	return strings.Compare(a.key, b.key)
}

// rankPairs scores every adjacent pair in state and returns them in a heap
// whose head is the best merge.
func rankPairs(state *CorpusState, sc scheme) *binaryheap.Heap[*candidate] {
	st := countPairs(state)
	ranked := binaryheap.NewWith(compareCandidates)
	for p, joint := range st.joint {
		ranked.Push(&candidate{
			pair:  p,
			key:   p.String(),
			joint: joint,
			score: sc.score(joint, st.marginal[p.A], st.marginal[p.B]),
		})
	}
	return ranked
}

// selectBestPair returns the pair to merge next, or false when every
// sequence is a single symbol.
func selectBestPair(state *CorpusState, sc scheme) (candidate, bool) {
	best, ok := rankPairs(state, sc).Pop()
	if !ok {
		return candidate{}, false
	}
	return *best, true
}
