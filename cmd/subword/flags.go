package main

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/subword/internal/corpus"
	"github.com/samcharles93/subword/internal/logger"
	"github.com/samcharles93/subword/internal/tokenizer"
)

var (
	configFile    string
	logLevel      string
	logFormat     string
	debug         bool
	tokenizerPath string
	inputPaths    []string
	docMode       string

	// fileConfig holds the config file loaded by setup.
	fileConfig Config
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml (default ~/.config/subword/config.yaml)",
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (auto, pretty, json, text)",
			Value:       "auto",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func tokenizerFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "tokenizer",
		Aliases:     []string{"t"},
		Usage:       "path to a trained tokenizer (.json or .cbor)",
		Required:    true,
		Destination: &tokenizerPath,
	}
}

func corpusFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "corpus files to read; - reads stdin",
			Value:       []string{corpus.Stdin},
			Destination: &inputPaths,
		},
		&cli.StringFlag{
			Name:        "doc-mode",
			Usage:       "document split (line, file)",
			Value:       string(corpus.Lines),
			Destination: &docMode,
		},
	}
}

// setup loads the config file and installs the logger in the context.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return ctx, err
	}
	fileConfig = cfg
	applyLogConfig(cmd, cfg)

	level := logLevel
	if debug {
		level = "debug"
	}
	log, err := logger.Setup(os.Stderr, logFormat, level)
	if err != nil {
		return ctx, err
	}
	return logger.WithContext(ctx, log), nil
}

func loadTokenizer() (*tokenizer.Tokenizer, error) {
	return tokenizer.LoadFile(tokenizerPath)
}

func readCorpus(cmd *cli.Command) ([]string, error) {
	applyCorpusConfig(cmd, fileConfig)
	mode, err := corpus.ParseMode(docMode)
	if err != nil {
		return nil, err
	}
	return corpus.ReadPaths(inputPaths, mode, stdin(cmd))
}

func stdout(cmd *cli.Command) io.Writer {
	return cmd.Root().Writer
}

func stdin(cmd *cli.Command) io.Reader {
	return cmd.Root().Reader
}
