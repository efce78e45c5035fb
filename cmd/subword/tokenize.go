package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
)

type tokenizedLine struct {
	Text   string   `json:"text"`
	Tokens []string `json:"tokens"`
}

func tokenizeCmd() *cli.Command {
	var format string

	return &cli.Command{
		Name:      "tokenize",
		Usage:     "Split text into subword tokens",
		ArgsUsage: "[TEXT...]",
		Flags: []cli.Flag{
			tokenizerFlag(),
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &format,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown output format %q (want text or json)", format)
			}
			tok, err := loadTokenizer()
			if err != nil {
				return err
			}

			out := stdout(cmd)
			emit := func(text string) error {
				return writeTokens(out, format, text, tok.Tokenize(text))
			}
			if cmd.Args().Present() {
				return emit(strings.Join(cmd.Args().Slice(), " "))
			}
			scanner := bufio.NewScanner(stdin(cmd))
			scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
			for scanner.Scan() {
				if err := emit(scanner.Text()); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}
}

func writeTokens(w io.Writer, format, text string, tokens []string) error {
	if format == "json" {
		if tokens == nil {
			tokens = []string{}
		}
		return json.NewEncoder(w).Encode(tokenizedLine{Text: text, Tokens: tokens})
	}
	_, err := fmt.Fprintln(w, strings.Join(tokens, " "))
	return err
}

func detokenizeCmd() *cli.Command {
	return &cli.Command{
		Name:      "detokenize",
		Usage:     "Join subword tokens back into text",
		ArgsUsage: "[TOKEN...] (a JSON array on stdin when no tokens are given)",
		Flags:     []cli.Flag{tokenizerFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			tok, err := loadTokenizer()
			if err != nil {
				return err
			}
			tokens := restoreMarker(cmd.Args().Slice(), tok.Marker())
			if len(tokens) == 0 {
				tokens, err = readTokenArray(stdin(cmd))
				if err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(stdout(cmd), tok.Detokenize(tokens))
			return err
		},
	}
}

// restoreMarker undoes the whitespace trimming the CLI applies to
// positional arguments. A bare marker with surrounding whitespace, such as
// the default "Ä\u00a0", arrives trimmed; merged tokens keep their inner
// space and pass through unchanged.
func restoreMarker(args []string, marker string) []string {
	trimmed := strings.TrimSpace(marker)
	if trimmed == marker || trimmed == "" {
		return args
	}
	out := make([]string, len(args))
	for i, a := range args {
		if a == trimmed {
			a = marker
		}
		out[i] = a
	}
	return out
}

// readTokenArray accepts either a bare JSON array of strings or the JSON
// lines written by tokenize --format json.
func readTokenArray(r io.Reader) ([]string, error) {
	dec := json.NewDecoder(r)
	var tokens []string
	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return tokens, nil
			}
			return nil, fmt.Errorf("read tokens: %w", err)
		}
		var batch []string
		if err := json.Unmarshal(raw, &batch); err != nil {
			var line tokenizedLine
			if err2 := json.Unmarshal(raw, &line); err2 != nil {
				return nil, fmt.Errorf("read tokens: expected a JSON array of strings: %w", err)
			}
			batch = line.Tokens
		}
		tokens = append(tokens, batch...)
	}
}
