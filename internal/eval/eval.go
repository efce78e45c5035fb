// Package eval measures a trained tokenizer against a set of documents.
package eval

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkoukk/tiktoken-go"
	"golang.org/x/sync/errgroup"

	"github.com/samcharles93/subword/internal/tokenizer"
)

// Counter counts tokens under some other tokenizer, for comparison.
type Counter interface {
	Name() string
	Count(text string) int
}

// TikToken counts tokens with a tiktoken encoding such as cl100k_base.
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewTikToken loads the named encoding. The first load of an encoding
// fetches its ranks file unless a cache directory is configured through
// TIKTOKEN_CACHE_DIR.
func NewTikToken(encodingName string) (*TikToken, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding %q: %w", encodingName, err)
	}
	return &TikToken{encoding: encoding, name: encodingName}, nil
}

func (t *TikToken) Name() string { return t.name }

func (t *TikToken) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// Options controls an evaluation run.
type Options struct {
	// Workers bounds concurrent documents. Zero means GOMAXPROCS.
	Workers int
	// Reference, when set, is counted over the same text.
	Reference Counter
	// MaxExamples caps the recorded round-trip mismatches.
	MaxExamples int
}

// Mismatch is a document whose detokenized form differs from its
// whitespace-normalized words.
type Mismatch struct {
	Document int
	Want     string
	Got      string
}

// Summary aggregates an evaluation run.
type Summary struct {
	Model           tokenizer.Model
	Documents       int
	Words           int
	Tokens          int
	DistinctTokens  int
	Mismatches      int
	Examples        []Mismatch
	Reference       string
	ReferenceTokens int
}

// TokensPerWord is the mean number of tokens per pretokenized word.
func (s Summary) TokensPerWord() float64 {
	if s.Words == 0 {
		return 0
	}
	return float64(s.Tokens) / float64(s.Words)
}

type docResult struct {
	words     int
	tokens    []string
	want, got string
	reference int
}

// Evaluate tokenizes every document concurrently and aggregates the
// results in document order.
func Evaluate(ctx context.Context, tok *tokenizer.Tokenizer, docs []string, opts Options) (Summary, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if opts.MaxExamples <= 0 {
		opts.MaxExamples = 5
	}

	results := make([]docResult, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, doc := range docs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			words := tok.Words(doc)
			tokens := tok.Tokenize(doc)
			r := docResult{
				words:  len(words),
				tokens: tokens,
				want:   strings.Join(words, " "),
				got:    tok.Detokenize(tokens),
			}
			if opts.Reference != nil {
				r.reference = opts.Reference.Count(doc)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("evaluate: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, fmt.Errorf("evaluate: %w", err)
	}

	s := Summary{Model: tok.Model(), Documents: len(docs)}
	if opts.Reference != nil {
		s.Reference = opts.Reference.Name()
	}
	distinct := make(map[string]struct{})
	for i, r := range results {
		s.Words += r.words
		s.Tokens += len(r.tokens)
		s.ReferenceTokens += r.reference
		for _, t := range r.tokens {
			distinct[t] = struct{}{}
		}
		if r.want != r.got {
			s.Mismatches++
			if len(s.Examples) < opts.MaxExamples {
				s.Examples = append(s.Examples, Mismatch{Document: i, Want: r.want, Got: r.got})
			}
		}
	}
	s.DistinctTokens = len(distinct)
	return s, nil
}

// Render writes the summary as an aligned table.
func (s Summary) Render(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("  ")

	data := [][]string{
		{"Model:", string(s.Model)},
		{"Documents:", strconv.Itoa(s.Documents)},
		{"Words:", strconv.Itoa(s.Words)},
		{"Tokens:", strconv.Itoa(s.Tokens)},
		{"Tokens/word:", strconv.FormatFloat(s.TokensPerWord(), 'f', 3, 64)},
		{"Distinct tokens:", strconv.Itoa(s.DistinctTokens)},
		{"Round-trip mismatches:", strconv.Itoa(s.Mismatches)},
	}
	if s.Reference != "" {
		ratio := 0.0
		if s.ReferenceTokens > 0 {
			ratio = float64(s.Tokens) / float64(s.ReferenceTokens)
		}
		data = append(data,
			[]string{s.Reference + " tokens:", strconv.Itoa(s.ReferenceTokens)},
			[]string{"Ratio to " + s.Reference + ":", strconv.FormatFloat(ratio, 'f', 3, 64)},
		)
	}
	table.AppendBulk(data)
	table.Render()

	for _, m := range s.Examples {
		fmt.Fprintf(w, "mismatch in document %d:\n  want %q\n  got  %q\n", m.Document, m.Want, m.Got)
	}
}
