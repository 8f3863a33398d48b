//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapFile establishes a shared read-only mapping of the file.
func mapFile(f *os.File, size int64) ([]byte, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, &os.PathError{Op: "mmap", Path: f.Name(), Err: err}
	}
	return data, nil
}

func unmapFile(data []byte) error {
	return unix.Munmap(data)
}
