package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/subword/internal/logger"
	"github.com/samcharles93/subword/internal/pretokenize"
	"github.com/samcharles93/subword/internal/tokenizer"
)

func trainCmd() *cli.Command {
	var (
		model     string
		pretok    string
		vocabSize int64
		marker    string
		output    string
		verbose   bool
		timeout   time.Duration
	)

	return &cli.Command{
		Name:  "train",
		Usage: "Learn a merge list from a corpus",
		Flags: append(corpusFlags(),
			&cli.StringFlag{
				Name:        "model",
				Aliases:     []string{"m"},
				Usage:       "subword model (bpe, wordpiece)",
				Value:       string(tokenizer.BPE),
				Destination: &model,
			},
			&cli.StringFlag{
				Name:        "pretokenize",
				Usage:       "pretokenizer (whitespace, unicode-pattern)",
				Value:       string(pretokenize.Whitespace),
				Destination: &pretok,
			},
			&cli.Int64Flag{
				Name:        "vocab-size",
				Aliases:     []string{"n"},
				Usage:       "maximum vocabulary size",
				Value:       tokenizer.DefaultMaxVocabSize,
				Destination: &vocabSize,
			},
			&cli.StringFlag{
				Name:        "marker",
				Usage:       "boundary marker (bpe) or continuation marker (wordpiece); empty uses the model default",
				Destination: &marker,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "where to write the tokenizer; .cbor selects the binary format",
				Value:       "tokenizer.json",
				Destination: &output,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "log training progress at info level",
				Destination: &verbose,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "abort training after this long (0 disables)",
				Destination: &timeout,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyTrainConfig(cmd, fileConfig, &model, &pretok, &vocabSize, &marker)

			m, err := tokenizer.ParseModel(model)
			if err != nil {
				return err
			}
			mode, err := pretokenize.ParseMode(pretok)
			if err != nil {
				return err
			}
			cfg := tokenizer.DefaultConfig(m)
			cfg.Pretokenize = mode
			cfg.MaxVocabSize = int(vocabSize)
			cfg.Verbose = verbose
			if marker != "" {
				if m == tokenizer.WordPiece {
					cfg.ContinuationMarker = marker
				} else {
					cfg.BoundaryMarker = marker
				}
			}

			// Validate before reading the corpus.
			trainer, err := tokenizer.NewTrainer(cfg)
			if err != nil {
				return err
			}
			docs, err := readCorpus(cmd)
			if err != nil {
				return err
			}
			log.Info("corpus loaded", "documents", len(docs), "inputs", len(inputPaths))

			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			tok, report, err := trainer.Train(ctx, docs)
			if err != nil {
				return err
			}
			if err := tok.SaveFile(output); err != nil {
				return fmt.Errorf("save tokenizer: %w", err)
			}

			log.Info("tokenizer written",
				"path", output,
				"model", string(m),
				"words", report.Words,
				"merges", report.Merges,
				"vocab_size", report.FinalVocabSize,
				"stopped_early", report.StoppedEarly,
				"elapsed", report.Duration.Round(time.Millisecond),
			)
			return nil
		},
	}
}
