// Package source abstracts where a grid's bytes live.
//
// Plain files are memory-mapped; gzip and zstd inputs are decompressed
// into memory at open since a compressed stream cannot be usefully
// mapped. Either way the caller sees the same immutable, bounds-checked
// byte view.
package source

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/meigma/sheet/internal/mmap"
)

// Source is an immutable view of a file's (decoded) bytes.
type Source interface {
	// Slice returns the bytes in the half-open range [start, end),
	// clamped to the source's length. The result aliases the source's
	// buffer and must be treated as read-only.
	Slice(start, end int64) []byte

	// Len returns the total number of bytes.
	Len() int64

	// Close releases the underlying mapping or buffer.
	Close() error
}

// Open returns a Source for the file at path.
//
// Files ending in ".gz", ".zst", or ".zstd" are decompressed fully into
// memory; maxDecoderMemory caps the zstd decoder's window allocation
// (0 means the decoder default). Everything else is memory-mapped.
func Open(path string, maxDecoderMemory uint64) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return openGzip(path)
	case ".zst", ".zstd":
		return openZstd(path, maxDecoderMemory)
	default:
		m, err := mmap.Open(path)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

// memSource holds fully-decoded bytes in memory.
type memSource struct {
	data []byte
}

func (s *memSource) Slice(start, end int64) []byte {
	size := int64(len(s.data))
	if start < 0 {
		start = 0
	}
	if end > size {
		end = size
	}
	if start >= end {
		return nil
	}
	return s.data[start:end]
}

func (s *memSource) Len() int64 {
	return int64(len(s.data))
}

func (s *memSource) Close() error {
	s.data = nil
	return nil
}

func openGzip(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, &os.PathError{Op: "decompress", Path: path, Err: err}
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, &os.PathError{Op: "decompress", Path: path, Err: err}
	}
	return &memSource{data: data}, nil
}

func openZstd(path string, maxDecoderMemory uint64) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	opts := []zstd.DOption{zstd.WithDecoderConcurrency(1)}
	if maxDecoderMemory > 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(maxDecoderMemory))
	}
	dec, err := zstd.NewReader(f, opts...)
	if err != nil {
		return nil, &os.PathError{Op: "decompress", Path: path, Err: err}
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, &os.PathError{Op: "decompress", Path: path, Err: err}
	}
	return &memSource{data: data}, nil
}
