package tokenizer

import (
	"fmt"
	"strings"

	"github.com/samcharles93/subword/internal/pretokenize"
)

const (
	// DefaultBoundaryMarker is "Ä" followed by a no-break space.
	DefaultBoundaryMarker     = "Ä\u00a0"
	DefaultContinuationMarker = "##"
	DefaultMaxVocabSize       = 100
)

// Config describes a tokenizer. MaxVocabSize and Verbose only matter for
// training.
type Config struct {
	Model              Model
	Pretokenize        pretokenize.Mode
	BoundaryMarker     string
	ContinuationMarker string
	MaxVocabSize       int
	Verbose            bool
}

// DefaultConfig returns the default configuration for model.
func DefaultConfig(model Model) Config {
	return Config{
		Model:              model,
		Pretokenize:        pretokenize.Whitespace,
		BoundaryMarker:     DefaultBoundaryMarker,
		ContinuationMarker: DefaultContinuationMarker,
		MaxVocabSize:       DefaultMaxVocabSize,
	}
}

// Marker returns the marker the model uses: the boundary marker for BPE,
// the continuation marker for WordPiece.
func (c Config) Marker() string {
	if c.Model == WordPiece {
		return c.ContinuationMarker
	}
	return c.BoundaryMarker
}

func (c Config) validate() error {
	switch c.Model {
	case BPE, WordPiece:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownModel, c.Model)
	}
	if _, err := pretokenize.New(c.Pretokenize); err != nil {
		return err
	}
	return validateMarker(c.Marker())
}

func (c Config) validateTraining() error {
	if err := c.validate(); err != nil {
		return err
	}
	if c.MaxVocabSize < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidVocabSize, c.MaxVocabSize)
	}
	return nil
}

// Symbols are space separated inside sequence keys, so a marker may not
// contain one.
func validateMarker(marker string) error {
	if marker == "" {
		return fmt.Errorf("%w: empty", ErrInvalidMarker)
	}
	if strings.Contains(marker, " ") {
		return fmt.Errorf("%w: %q contains a space", ErrInvalidMarker, marker)
	}
	return nil
}
