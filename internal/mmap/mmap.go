// Package mmap provides a read-only, zero-copy view of a file's bytes.
package mmap

import (
	"os"
)

// Map is an immutable view over a file's contents.
//
// The view is shared with the operating system's page cache: the backing
// file must not be modified by any other actor while the Map is alive.
// All access goes through bounds-checked slicing; a Map never hands out
// a range that exceeds the mapped region.
type Map struct {
	f    *os.File
	data []byte
	size int64
}

// Open maps the file at path read-only.
//
// A zero-length file yields a valid Map with no mapped region; mapping
// an empty file is not meaningful on most platforms.
func Open(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &Map{f: f}, nil
	}

	data, err := mapFile(f, size)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Map{f: f, data: data, size: size}, nil
}

// Len returns the size of the mapped region in bytes.
func (m *Map) Len() int64 {
	return m.size
}

// Slice returns the bytes in the half-open range [start, end).
//
// The range is clamped to the mapped region; a degenerate range returns
// nil. The returned slice aliases the mapping and is only valid while
// the Map remains open. Callers must treat it as read-only.
func (m *Map) Slice(start, end int64) []byte {
	if start < 0 {
		start = 0
	}
	if end > m.size {
		end = m.size
	}
	if start >= end {
		return nil
	}
	return m.data[start:end]
}

// Close unmaps the region and closes the backing file.
func (m *Map) Close() error {
	var unmapErr error
	if m.data != nil {
		unmapErr = unmapFile(m.data)
		m.data = nil
		m.size = 0
	}
	closeErr := m.f.Close()
	if unmapErr != nil {
		return unmapErr
	}
	return closeErr
}
