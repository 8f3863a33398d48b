package sheet

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel errors. All are surfaced only by [Open]; no query can fail
// after a session is constructed.
var (
	// ErrNotFound is returned when the path does not exist.
	ErrNotFound = errors.New("sheet: file not found")

	// ErrPermission is returned when the path cannot be opened for reading.
	ErrPermission = errors.New("sheet: permission denied")

	// ErrMap is returned when the file opens but the byte view cannot be
	// established (mmap failure, truncated compressed stream).
	ErrMap = errors.New("sheet: mapping failed")
)

// classifyOpenError wraps an open failure with the matching sentinel.
// The original error stays in the chain, so errors.Is reports true for
// both the sentinel and the underlying fs error.
func classifyOpenError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermission, err)
	default:
		return fmt.Errorf("%w: %w", ErrMap, err)
	}
}
