// Package pretokenize splits raw text into the word-like units that subword
// training and inference operate on.
package pretokenize

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
)

// Mode selects a pretokenization strategy.
type Mode string

const (
	// Whitespace splits on runs of Unicode whitespace.
	Whitespace Mode = "whitespace"
	// UnicodePattern groups contractions, letter runs, digit runs and symbol runs.
	UnicodePattern Mode = "unicode-pattern"
)

// ErrUnknownMode is returned for an unrecognised pretokenization mode.
var ErrUnknownMode = errors.New("unknown pretokenization mode")

// WordPattern matches English contraction suffixes, then runs of letters,
// digits, or anything that is neither whitespace, letter nor digit.
const WordPattern = `'s|'t|'re|'ve|'m|'ll|'d|\p{L}+|\p{N}+|[^\s\p{L}\p{N}]+`

var wordPattern = regexp2.MustCompile(WordPattern, regexp2.None)

// ParseMode converts a mode name into a Mode. The names "split" and "gpt2"
// are accepted as aliases of Whitespace and UnicodePattern.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "whitespace", "split", "":
		return Whitespace, nil
	case "unicode-pattern", "unicode", "gpt2":
		return UnicodePattern, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Modes lists the supported modes.
func Modes() []Mode {
	return []Mode{Whitespace, UnicodePattern}
}

// Pretokenizer splits text according to its Mode. The zero value is not
// usable; construct with New.
type Pretokenizer struct {
	mode Mode
}

// New returns a Pretokenizer for mode.
func New(mode Mode) (*Pretokenizer, error) {
	if !slices.Contains(Modes(), mode) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return &Pretokenizer{mode: mode}, nil
}

// Mode reports the strategy in use.
func (p *Pretokenizer) Mode() Mode { return p.mode }

// Split returns the words of text in order. The sequence is lazy and may be
// ranged over any number of times.
func (p *Pretokenizer) Split(text string) iter.Seq[string] {
	if p.mode == UnicodePattern {
		return patternWords(text)
	}
	return whitespaceWords(text)
}

// Words collects Split into a slice.
func (p *Pretokenizer) Words(text string) []string {
	return slices.Collect(p.Split(text))
}

func whitespaceWords(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, w := range strings.FieldsFunc(text, unicode.IsSpace) {
			if !yield(w) {
				return
			}
		}
	}
}

func patternWords(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		m, err := wordPattern.FindStringMatch(text)
		for m != nil && err == nil {
			if !yield(m.String()) {
				return
			}
			m, err = wordPattern.FindNextMatch(m)
		}
	}
}
