package tokenizer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-json"

	"github.com/samcharles93/subword/internal/pretokenize"
)

// FormatVersion is written into every saved artifact.
const FormatVersion = 1

// Format is an on-disk encoding of a trained tokenizer.
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// FormatForPath picks the encoding from a file extension, defaulting to
// JSON.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".cbor") {
		return FormatCBOR
	}
	return FormatJSON
}

// artifact is the persisted form of a Tokenizer: everything needed to
// replay the merges, and nothing from the training corpus.
type artifact struct {
	Version     int         `json:"format_version"`
	Model       string      `json:"model"`
	Marker      string      `json:"marker"`
	Pretokenize string      `json:"pretokenize"`
	Merges      [][]string  `json:"merges"`
	Vocab       []string    `json:"vocab,omitempty"`
}

func (t *Tokenizer) artifact() artifact {
	merges := make([][]string, len(t.merges))
	for i, m := range t.merges {
		merges[i] = []string{m.Pair.String(), m.Symbol}
	}
	return artifact{
		Version:     FormatVersion,
		Model:       string(t.cfg.Model),
		Marker:      t.scheme.marker(),
		Pretokenize: string(t.cfg.Pretokenize),
		Merges:      merges,
		Vocab:       t.vocab,
	}
}

// Save writes the tokenizer to w.
func (t *Tokenizer) Save(w io.Writer, format Format) error {
	a := t.artifact()
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(a); err != nil {
			return fmt.Errorf("encode tokenizer json: %w", err)
		}
	case FormatCBOR:
		if err := cbor.NewEncoder(w).Encode(a); err != nil {
			return fmt.Errorf("encode tokenizer cbor: %w", err)
		}
	default:
		return fmt.Errorf("unsupported artifact format %q", format)
	}
	return nil
}

// SaveFile writes the tokenizer to path, choosing the format from its
// extension.
func (t *Tokenizer) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.Save(f, FormatForPath(path)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Load reads a tokenizer written by Save.
func Load(r io.Reader, format Format) (*Tokenizer, error) {
	var a artifact
	switch format {
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&a); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", ErrCorruptArtifact, err)
		}
	case FormatCBOR:
		if err := cbor.NewDecoder(r).Decode(&a); err != nil {
			return nil, fmt.Errorf("%w: decode cbor: %v", ErrCorruptArtifact, err)
		}
	default:
		return nil, fmt.Errorf("unsupported artifact format %q", format)
	}
	return a.tokenizer()
}

// LoadFile reads a tokenizer from path.
func LoadFile(path string) (*Tokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok, err := Load(f, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return tok, nil
}

func (a artifact) tokenizer() (*Tokenizer, error) {
	if a.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", ErrCorruptArtifact, a.Version)
	}
	model, err := ParseModel(a.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptArtifact, err)
	}
	mode, err := pretokenize.ParseMode(a.Pretokenize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptArtifact, err)
	}
	cfg := DefaultConfig(model)
	cfg.Pretokenize = mode
	if model == WordPiece {
		cfg.ContinuationMarker = a.Marker
	} else {
		cfg.BoundaryMarker = a.Marker
	}

	merges := make([]Merge, len(a.Merges))
	for i, rec := range a.Merges {
		if len(rec) != 2 {
			return nil, fmt.Errorf("%w: merge %d has %d fields, want 2", ErrCorruptArtifact, i, len(rec))
		}
		p, err := ParsePair(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%w: merge %d: %w", ErrCorruptArtifact, i, err)
		}
		merges[i] = Merge{Pair: p, Symbol: rec[1]}
	}
	tok, err := New(cfg, merges, a.Vocab)
	if err != nil {
		if errors.Is(err, ErrCorruptArtifact) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrCorruptArtifact, err)
	}
	return tok, nil
}
