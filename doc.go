// Package sheet provides random access to delimited text files via a
// memory-mapped view and a one-time line index.
//
// A [Session] maps the file once, scans it once to record row start
// offsets, and thereafter answers rectangular window queries (a row
// range crossed with a column range) in time proportional to the window
// size rather than the file size. The mapping and index are immutable
// after construction, so queries need no locking and may run
// concurrently.
//
// # Quick Start
//
// Open a file and read a window:
//
//	s, err := sheet.Open("data.csv")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	rows := s.GetGridChunk(0, 50, 0, 10)
//	names := s.GetHeaderChunk(0, 10)
//
// Gzip and zstd compressed inputs (".gz", ".zst", ".zstd") are
// decompressed into memory at open; everything else is memory-mapped.
//
// # File Format
//
// Rows are separated by a single line-feed byte and fields by a single
// delimiter byte (comma unless [WithDelimiter] says otherwise). There is
// no quoting or escaping: a field cannot contain the delimiter or a
// line feed. Carriage returns are not stripped. Malformed content never
// fails a query; short rows pad with empty strings, invalid UTF-8
// decodes to replacement runes.
//
// # Sharing
//
// The backing file must not be modified while a Session is alive; the
// mapping is a frozen snapshot and external writes are undefined
// behavior. Sessions are reference counted: [Session.Retain] lets a
// second holder keep the mapping alive past the creator's Close.
package sheet
