package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the subword configuration file
// (~/.config/subword/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	// Training defaults
	Model       string `yaml:"model"`
	Pretokenize string `yaml:"pretokenize"`
	VocabSize   *int64 `yaml:"vocab_size"`
	Marker      string `yaml:"marker"`
	DocMode     string `yaml:"doc_mode"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "subword", "config.yaml")
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing default file yields a zero Config; a missing
// explicit file is an error.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = configPath()
		if path == "" {
			return Config{}, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyLogConfig applies config file defaults to the logging flags when
// they were not explicitly set.
func applyLogConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

func applyCorpusConfig(c *cli.Command, cfg Config) {
	if cfg.DocMode != "" && !c.IsSet("doc-mode") {
		docMode = cfg.DocMode
	}
}

// applyTrainConfig applies config file defaults to train command
// variables.
func applyTrainConfig(c *cli.Command, cfg Config, model, pretok *string, vocabSize *int64, marker *string) {
	if cfg.Model != "" && !c.IsSet("model") {
		*model = cfg.Model
	}
	if cfg.Pretokenize != "" && !c.IsSet("pretokenize") {
		*pretok = cfg.Pretokenize
	}
	if cfg.VocabSize != nil && !c.IsSet("vocab-size") {
		*vocabSize = *cfg.VocabSize
	}
	if cfg.Marker != "" && !c.IsSet("marker") {
		*marker = cfg.Marker
	}
}

// applyServeConfig applies config file defaults to serve command
// variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}
