package tokenizer

import "errors"

var (
	ErrUnknownModel     = errors.New("unknown tokenizer model")
	ErrInvalidMarker    = errors.New("invalid marker")
	ErrInvalidVocabSize = errors.New("max vocabulary size must be at least 1")
	ErrCorruptArtifact  = errors.New("corrupt tokenizer artifact")
)
