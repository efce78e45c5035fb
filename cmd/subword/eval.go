package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/subword/internal/eval"
	"github.com/samcharles93/subword/internal/logger"
)

func evalCmd() *cli.Command {
	var (
		reference string
		workers   int64
	)

	return &cli.Command{
		Name:  "eval",
		Usage: "Measure a tokenizer on a corpus",
		Flags: append(corpusFlags(),
			tokenizerFlag(),
			&cli.StringFlag{
				Name:        "reference",
				Usage:       "also count tokens with this tiktoken encoding (e.g. cl100k_base)",
				Destination: &reference,
			},
			&cli.Int64Flag{
				Name:        "workers",
				Usage:       "concurrent documents (0 = GOMAXPROCS)",
				Destination: &workers,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			tok, err := loadTokenizer()
			if err != nil {
				return err
			}
			docs, err := readCorpus(cmd)
			if err != nil {
				return err
			}

			opts := eval.Options{Workers: int(workers)}
			if reference != "" {
				ref, err := eval.NewTikToken(reference)
				if err != nil {
					return err
				}
				opts.Reference = ref
			}
			log.Debug("evaluating", "documents", len(docs), "tokenizer", tokenizerPath)
			summary, err := eval.Evaluate(ctx, tok, docs, opts)
			if err != nil {
				return err
			}
			summary.Render(stdout(cmd))
			return nil
		},
	}
}
