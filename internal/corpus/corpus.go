// Package corpus reads training and evaluation documents.
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLine bounds a single line in line mode.
const maxLine = 16 * 1024 * 1024

// Mode selects how input is split into documents.
type Mode string

const (
	// Lines treats every non-blank line as a document.
	Lines Mode = "line"
	// Files treats each whole input as one document.
	Files Mode = "file"
)

// Stdin is the path that reads standard input.
const Stdin = "-"

var ErrUnknownMode = errors.New("unknown document mode")

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "line", "lines", "":
		return Lines, nil
	case "file", "files", "doc", "document":
		return Files, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// ReadDocuments splits r into documents.
func ReadDocuments(r io.Reader, mode Mode) ([]string, error) {
	switch mode {
	case Lines:
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

		var docs []string
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			docs = append(docs, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("scan documents: %w", err)
		}
		return docs, nil
	case Files:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return nil, nil
		}
		return []string{string(data)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// ReadFiles reads every path in order and concatenates their documents.
// The path "-" reads standard input.
func ReadFiles(paths []string, mode Mode) ([]string, error) {
	return ReadPaths(paths, mode, os.Stdin)
}

// ReadPaths is ReadFiles with "-" reading from stdin.
func ReadPaths(paths []string, mode Mode, stdin io.Reader) ([]string, error) {
	var docs []string
	for _, path := range paths {
		var (
			got []string
			err error
		)
		if path == Stdin {
			got, err = ReadDocuments(stdin, mode)
		} else {
			got, err = readFile(path, mode)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		docs = append(docs, got...)
	}
	return docs, nil
}

func readFile(path string, mode Mode) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDocuments(f, mode)
}
