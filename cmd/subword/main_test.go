package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/samcharles93/subword/internal/pretokenize"
	"github.com/samcharles93/subword/internal/tokenizer"
)

// The commands share package-level flag destinations, so these tests do
// not run in parallel.

func runApp(t *testing.T, stdinText string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.Reader = strings.NewReader(stdinText)
	err := app.Run(context.Background(), append([]string{"subword"}, args...))
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// trainClassic trains the five-word corpus with the vocabulary size taken
// from the config file.
func trainClassic(t *testing.T, dir, output string) string {
	t.Helper()
	cfg := writeFile(t, dir, "config.yaml", "log_level: error\nvocab_size: 14\n")
	input := writeFile(t, dir, "corpus.txt", "low\nlower\nlowest\n\nnewest\nwidest\n")
	out := filepath.Join(dir, output)

	if _, err := runApp(t, "", "--config", cfg, "train", "--input", input, "--output", out); err != nil {
		t.Fatalf("train: %v", err)
	}
	return cfg
}

func TestTrainTokenizeDetokenize(t *testing.T) {
	dir := t.TempDir()
	cfg := trainClassic(t, dir, "tok.json")
	tokPath := filepath.Join(dir, "tok.json")

	out, err := runApp(t, "", "--config", cfg, "tokenize", "--tokenizer", tokPath, "lowest")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	m := tokenizer.DefaultBoundaryMarker
	if want := m + " lo w est\n"; out != want {
		t.Fatalf("tokenize: got %q want %q", out, want)
	}

	out, err = runApp(t, "lowest\nwidest\n", "--config", cfg, "tokenize", "-t", tokPath, "--format", "json")
	if err != nil {
		t.Fatalf("tokenize json: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 json lines, got %q", out)
	}
	var first tokenizedLine
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode line: %v", err)
	}
	if first.Text != "lowest" || strings.Join(first.Tokens, "|") != m+"|lo|w|est" {
		t.Fatalf("unexpected json line: %+v", first)
	}

	detok, err := runApp(t, lines[0], "--config", cfg, "detokenize", "-t", tokPath)
	if err != nil {
		t.Fatalf("detokenize: %v", err)
	}
	if detok != "lowest\n" {
		t.Fatalf("detokenize: got %q", detok)
	}

	detok, err = runApp(t, "", "--config", cfg, "detokenize", "-t", tokPath, m, "lo", "w", m, "est")
	if err != nil {
		t.Fatalf("detokenize args: %v", err)
	}
	if detok != "low est\n" {
		t.Fatalf("detokenize args: got %q", detok)
	}
}

func TestMergesCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := trainClassic(t, dir, "tok.cbor")

	out, err := runApp(t, "", "--config", cfg, "merges", "-t", filepath.Join(dir, "tok.cbor"), "--limit", "2")
	if err != nil {
		t.Fatalf("merges: %v", err)
	}
	want := "0\t\"e\" \"s\" -> \"es\"\n1\t\"es\" \"t\" -> \"est\"\n"
	if out != want {
		t.Fatalf("merges: got %q want %q", out, want)
	}
}

func TestEvalCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := trainClassic(t, dir, "tok.json")

	out, err := runApp(t, "low lower\nwidest\n", "--config", cfg,
		"eval", "-t", filepath.Join(dir, "tok.json"), "--input", "-", "--workers", "2")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	for _, want := range []string{"Documents:", "Words:", "Round-trip mismatches:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in eval output:\n%s", want, out)
		}
	}
}

func TestTrainWordPieceFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "log_level: error\nmodel: bpe\nvocab_size: 3\npretokenize: whitespace\n")
	input := writeFile(t, dir, "corpus.txt", "ab ab ac\n")
	out := filepath.Join(dir, "wp.json")

	_, err := runApp(t, "", "--config", cfg, "train", "-i", input, "-o", out,
		"--model", "wordpiece", "--vocab-size", "5", "--pretokenize", "unicode-pattern", "--marker", "@@")
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	tok, err := tokenizer.LoadFile(out)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tok.Model() != tokenizer.WordPiece || tok.Marker() != "@@" || tok.Pretokenize() != pretokenize.UnicodePattern {
		t.Fatalf("unexpected tokenizer: model=%s marker=%q pretokenize=%s", tok.Model(), tok.Marker(), tok.Pretokenize())
	}
	if tok.NumMerges() != 2 {
		t.Fatalf("merges: got %d want 2", tok.NumMerges())
	}
}

func TestTrainRejectsBadConfiguration(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "log_level: error\n")
	input := writeFile(t, dir, "corpus.txt", "low\n")

	_, err := runApp(t, "", "--config", cfg, "train", "-i", input, "-o", filepath.Join(dir, "x.json"), "--pretokenize", "bytes")
	if !errors.Is(err, pretokenize.ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
	_, err = runApp(t, "", "--config", cfg, "train", "-i", input, "-o", filepath.Join(dir, "x.json"), "--vocab-size", "0")
	if !errors.Is(err, tokenizer.ErrInvalidVocabSize) {
		t.Fatalf("expected ErrInvalidVocabSize, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "x.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("no artifact should be written, stat err=%v", err)
	}
}

func TestTokenizeRequiresTokenizer(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "log_level: error\n")
	if _, err := runApp(t, "", "--config", cfg, "tokenize", "hello"); err == nil {
		t.Fatal("expected an error without --tokenizer")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for a missing explicit config")
	}

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "empty"))
	t.Setenv("HOME", filepath.Join(dir, "home"))
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if cfg != (Config{}) {
		t.Fatalf("expected zero config, got %+v", cfg)
	}

	path := writeFile(t, dir, "config.yaml", "model: wordpiece\nvocab_size: 250\nserver_address: 0.0.0.0:9000\n")
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model != "wordpiece" || cfg.VocabSize == nil || *cfg.VocabSize != 250 || cfg.ServerAddress != "0.0.0.0:9000" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	bad := writeFile(t, dir, "bad.yaml", "vocab_size: [1, 2\n")
	if _, err := LoadConfig(bad); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestVersionCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "log_level: error\n")
	out, err := runApp(t, "", "--config", cfg, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "version:") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestDetokenizeArgsWithDefaultMarker(t *testing.T) {
	dir := t.TempDir()
	cfg := trainClassic(t, dir, "tok.json")
	tokPath := filepath.Join(dir, "tok.json")

	out, err := runApp(t, "", "--config", cfg, "tokenize", "-t", tokPath, "lowest newest")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	// Feed the printed tokens straight back as positional arguments.
	args := append([]string{"--config", cfg, "detokenize", "-t", tokPath}, strings.Fields(out)...)
	detok, err := runApp(t, "", args...)
	if err != nil {
		t.Fatalf("detokenize: %v", err)
	}
	if detok != "lowest newest\n" {
		t.Fatalf("detokenize: got %q want %q", detok, "lowest newest\n")
	}
}

func TestRestoreMarker(t *testing.T) {
	t.Parallel()

	m := tokenizer.DefaultBoundaryMarker
	got := restoreMarker([]string{"Ä", "lo", m + "w", m}, m)
	want := []string{m, "lo", m + "w", m}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q want %q", got, want)
	}

	args := []string{"a", "##b"}
	if got := restoreMarker(args, "##"); strings.Join(got, "|") != "a|##b" {
		t.Fatalf("markers without whitespace must pass through, got %q", got)
	}
}
