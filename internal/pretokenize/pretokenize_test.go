package pretokenize

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Mode
	}{
		{"whitespace", Whitespace},
		{"split", Whitespace},
		{"unicode-pattern", UnicodePattern},
		{"GPT2", UnicodePattern},
	}
	for _, tc := range tests {
		got, err := ParseMode(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseMode("sentencepiece")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownMode))
}

func TestNewRejectsUnknownMode(t *testing.T) {
	t.Parallel()

	_, err := New(Mode("bytes"))
	require.ErrorIs(t, err, ErrUnknownMode)
}

func TestWhitespaceSplit(t *testing.T) {
	t.Parallel()

	p, err := New(Whitespace)
	require.NoError(t, err)

	got := p.Words("  the quick\tbrown\n\nfox's  ")
	assert.Equal(t, []string{"the", "quick", "brown", "fox's"}, got)
	assert.Empty(t, p.Words("   \n\t"))
}

func TestUnicodePatternSplit(t *testing.T) {
	t.Parallel()

	p, err := New(UnicodePattern)
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"contraction", "I'll don't", []string{"I", "'ll", "don", "'t"}},
		{"digits and symbols", "room 101!!", []string{"room", "101", "!!"}},
		{"mixed run", "abc123def", []string{"abc", "123", "def"}},
		{"unicode letters", "naïve café", []string{"naïve", "café"}},
		{"symbols glued", "a+b=c", []string{"a", "+", "b", "=", "c"}},
		{"empty", "", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.Words(tc.text))
		})
	}
}

func TestSplitIsRestartable(t *testing.T) {
	t.Parallel()

	p, err := New(UnicodePattern)
	require.NoError(t, err)

	seq := p.Split("we're here, 42 times")
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"we", "'re", "here", ",", "42", "times"}, first)

	var early []string
	for w := range seq {
		early = append(early, w)
		if len(early) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"we", "'re"}, early)
}
