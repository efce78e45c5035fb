package tokenizer

import "strings"

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// splitKey returns the symbols of a sequence key.
func splitKey(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(key, " ")
}

func joinKey(symbols []string) string {
	return strings.Join(symbols, " ")
}

// mergePair replaces every non-overlapping occurrence of pair, scanning left
// to right, with merged. Only whole symbols match, so "a b" never matches
// inside "ab c". It returns the rewritten word and the number of
// replacements.
func mergePair(word []string, pair Pair, merged string) ([]string, int) {
	var (
		out []string
		n   int
	)
	for i := 0; i < len(word); i++ {
		if i < len(word)-1 && word[i] == pair.A && word[i+1] == pair.B {
			if out == nil {
				out = make([]string, 0, len(word)-1)
				out = append(out, word[:i]...)
			}
			out = append(out, merged)
			n++
			i++
			continue
		}
		if out != nil {
			out = append(out, word[i])
		}
	}
	if n == 0 {
		return word, 0
	}
	return out, n
}
