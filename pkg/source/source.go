// Package source opens running-config input: a local file, standard input,
// or the output of a show command run on a switch over SSH.
package source

import (
	"fmt"
	"io"
	"os"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// stdin is swapped out by tests.
var stdin io.Reader = os.Stdin

// Open returns a reader for path, or for standard input when path is "-".
// The caller closes the result; closing standard input is a no-op.
func Open(path string) (io.ReadCloser, error) {
	if path == Stdin {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening running-config: %w", err)
	}
	return f, nil
}

// Name returns a label for path suitable for log fields.
func Name(path string) string {
	if path == Stdin {
		return "stdin"
	}
	return path
}
