package term

import (
	"os"
	"testing"
)

func TestRegularFileIsNotTerminal(t *testing.T) {
	t.Parallel()

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatalf("create temp: %v", err)
	}
	defer f.Close()

	if IsTerminal(f.Fd()) {
		t.Fatalf("expected regular file not to be a terminal")
	}
}
