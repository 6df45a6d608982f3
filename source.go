package ordo

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
)

// ReadMappingSource loads precomputed mapping input from a file, from
// stdin when path is "-", or from the clipboard. Used when the operator
// supplies a mapping instead of asking the oracle for one.
func ReadMappingSource(path string, fromClipboard bool) (string, error) {
	if fromClipboard {
		c, err := clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("could not read clipboard: %w", err)
		}
		return c, nil
	}
	if path == "-" {
		c, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("could not read stdin: %w", err)
		}
		return string(c), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// StdinIsInteractive reports whether stdin is attached to a terminal.
// The confirmation prompt needs one; without it the run must be
// pre-confirmed or abort cleanly.
func StdinIsInteractive() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}
