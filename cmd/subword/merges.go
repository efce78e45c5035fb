package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func mergesCmd() *cli.Command {
	var limit int64

	return &cli.Command{
		Name:  "merges",
		Usage: "List the learned merges in training order",
		Flags: []cli.Flag{
			tokenizerFlag(),
			&cli.Int64Flag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "print at most this many merges (0 = all)",
				Destination: &limit,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			tok, err := loadTokenizer()
			if err != nil {
				return err
			}
			merges := tok.Merges()
			if limit > 0 && int(limit) < len(merges) {
				merges = merges[:limit]
			}
			out := stdout(cmd)
			// Quoted, since markers may contain invisible characters.
			for i, m := range merges {
				if _, err := fmt.Fprintf(out, "%d\t%q %q -> %q\n", i, m.Pair.A, m.Pair.B, m.Symbol); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
