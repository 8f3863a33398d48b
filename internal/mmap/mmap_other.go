//go:build !unix

package mmap

import (
	"io"
	"os"
)

// mapFile falls back to reading the whole file on platforms without a
// unix mmap. The Map contract (immutable, bounds-checked) is unchanged;
// only the zero-copy property is lost.
func mapFile(f *os.File, _ int64) ([]byte, error) {
	return io.ReadAll(f)
}

func unmapFile(_ []byte) error {
	return nil
}
