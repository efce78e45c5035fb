package tokenizer

import (
	"context"
	"fmt"
	"time"

	"github.com/samcharles93/subword/internal/logger"
	"github.com/samcharles93/subword/internal/pretokenize"
)

// progressEvery controls how often training progress is logged.
const progressEvery = 100

// Report summarises a training run.
type Report struct {
	Words              int
	Sequences          int
	InitialVocabSize   int
	FinalVocabSize     int
	RequestedMerges    int
	Merges             int
	StoppedEarly       bool
	Duration           time.Duration
	FinalSequenceCount int
}

// Step describes one completed merge iteration.
type Step struct {
	Iteration int
	Merge     Merge
	Score     float64
	Rewritten int
	Total     int
	VocabSize int
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithObserver registers fn to be called after every merge.
func WithObserver(fn func(Step)) Option {
	return func(t *Trainer) { t.observer = fn }
}

// Trainer learns a merge list from a corpus. Only the report of the last
// run survives between calls; a Trainer may be reused, but not concurrently.
type Trainer struct {
	cfg      Config
	scheme   scheme
	pretok   *pretokenize.Pretokenizer
	observer func(Step)
	last     Report
}

// NewTrainer validates cfg before any corpus is read.
func NewTrainer(cfg Config, opts ...Option) (*Trainer, error) {
	if err := cfg.validateTraining(); err != nil {
		return nil, fmt.Errorf("tokenizer config: %w", err)
	}
	sc, err := newScheme(cfg.Model, cfg.Marker())
	if err != nil {
		return nil, fmt.Errorf("tokenizer config: %w", err)
	}
	pt, err := pretokenize.New(cfg.Pretokenize)
	if err != nil {
		return nil, fmt.Errorf("tokenizer config: %w", err)
	}
	t := &Trainer{cfg: cfg, scheme: sc, pretok: pt}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Config returns the trainer configuration.
func (t *Trainer) Config() Config { return t.cfg }

// LastReport returns the report of the most recent Train or Fit call.
func (t *Trainer) LastReport() Report { return t.last }

// Fit trains on docs and returns the resulting tokenizer.
func (t *Trainer) Fit(ctx context.Context, docs []string) (*Tokenizer, error) {
	tok, _, err := t.Train(ctx, docs)
	return tok, err
}

// Train trains on docs and also returns a report of the run. Cancelling ctx
// stops training between iterations and returns the context error.
func (t *Trainer) Train(ctx context.Context, docs []string) (*Tokenizer, Report, error) {
	log := logger.FromContext(ctx).With("model", string(t.cfg.Model))
	progress := log.Debug
	if t.cfg.Verbose {
		progress = log.Info
	}
	start := time.Now()

	progress("initialising corpus and vocabulary", "documents", len(docs))
	state, vocab := t.init(docs)
	total := state.Total()

	report := Report{
		Words:            total,
		Sequences:        state.Len(),
		InitialVocabSize: vocab.Size(),
		RequestedMerges:  max(0, t.cfg.MaxVocabSize-vocab.Size()),
	}
	progress("performing merges", "iterations", report.RequestedMerges, "vocab_size", vocab.Size(), "words", total)

	merges := make([]Merge, 0, report.RequestedMerges)
	for i := range report.RequestedMerges {
		if err := ctx.Err(); err != nil {
			t.last = report
			return nil, report, fmt.Errorf("training interrupted after %d merges: %w", len(merges), err)
		}
		best, ok := selectBestPair(state, t.scheme)
		if !ok {
			report.StoppedEarly = true
			log.Warn("no mergeable pair remains; stopping early",
				"merges", len(merges), "requested", report.RequestedMerges, "vocab_size", vocab.Size())
			break
		}
		m := Merge{Pair: best.pair, Symbol: t.scheme.merge(best.pair)}
		if !vocab.Add(m.Symbol) {
			log.Warn("merged symbol already in vocabulary", "symbol", m.Symbol)
		}
		rewritten := state.apply(m.Pair, m.Symbol)
		merges = append(merges, m)

		if t.observer != nil {
			t.observer(Step{
				Iteration: i,
				Merge:     m,
				Score:     best.score,
				Rewritten: rewritten,
				Total:     state.Total(),
				VocabSize: vocab.Size(),
			})
		}
		if (i+1)%progressEvery == 0 {
			progress("merge progress", "done", i+1, "of", report.RequestedMerges, "last", m.String())
		}
	}

	report.Merges = len(merges)
	report.FinalVocabSize = vocab.Size()
	report.FinalSequenceCount = state.Len()
	report.Duration = time.Since(start)
	t.last = report
	progress("training finished", "merges", report.Merges, "vocab_size", report.FinalVocabSize,
		"elapsed", report.Duration.Round(time.Millisecond))

	return newTokenizer(t.cfg, t.scheme, t.pretok, merges, vocab.Symbols()), report, nil
}

// init builds the corpus state and seeds the vocabulary with every symbol
// of every encoded word. The BPE boundary marker is always present.
func (t *Trainer) init(docs []string) (*CorpusState, *Vocabulary) {
	state := newCorpusState()
	vocab := newVocabulary()
	if t.cfg.Model == BPE {
		vocab.Add(t.scheme.marker())
	}
	for _, doc := range docs {
		for word := range t.pretok.Split(doc) {
			symbols := t.scheme.encode(word)
			for _, sym := range symbols {
				vocab.Add(sym)
			}
			state.add(joinKey(symbols), 1)
		}
	}
	return state, vocab
}
