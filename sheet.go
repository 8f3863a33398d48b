package sheet

import (
	"bytes"
	"log/slog"
	"sync/atomic"

	"github.com/meigma/sheet/internal/source"
)

// Session provides window queries over one delimited text file.
//
// A Session owns a frozen byte view of the file and a line index built
// once at open. Both are immutable afterwards, so [Session.GetGridChunk]
// and [Session.GetHeaderChunk] are safe for concurrent use without
// locking. Query results are freshly allocated and never alias the
// mapping.
type Session struct {
	src      source.Source
	index    []int64
	rows     int64
	cols     int64
	delim    byte
	delimStr string

	maxDecoderMemory uint64
	logger           *slog.Logger
	refs             atomic.Int64
}

// RowData is a transient window-query result: one row's index plus its
// cell contents in column order.
type RowData struct {
	Index int64    `json:"index"`
	Cells []string `json:"cells"`
}

// Open maps the file at path, scans it once to index row starts, and
// returns a query-ready Session.
//
// Construction cost is O(file size); dispatch it off latency-sensitive
// paths for large files (see [Session.Warm]). Open fails with
// [ErrNotFound], [ErrPermission], or [ErrMap]; no error is retried.
// The backing file must not be modified while the Session is alive.
func Open(path string, opts ...Option) (*Session, error) {
	s := &Session{delim: ','}
	for _, opt := range opts {
		opt(s)
	}
	s.delimStr = string([]byte{s.delim})

	src, err := source.Open(path, s.maxDecoderMemory)
	if err != nil {
		return nil, classifyOpenError(err)
	}

	s.src = src
	s.index = buildLineIndex(src)
	s.rows = int64(len(s.index))
	s.cols = s.countColumns()
	s.refs.Store(1)

	s.log().Debug("session opened",
		"path", path,
		"bytes", src.Len(),
		"rows", s.rows,
		"cols", s.cols,
	)
	return s, nil
}

// countColumns estimates the column count as the delimiter count in
// row 0 plus one. A file with no rows has zero columns.
func (s *Session) countColumns() int64 {
	if s.rows == 0 {
		return 0
	}
	start, end := s.rowRange(0)
	return int64(bytes.Count(s.src.Slice(start, end), []byte{s.delim})) + 1
}

// TotalRows returns the number of rows, fixed at construction.
func (s *Session) TotalRows() int64 {
	return s.rows
}

// TotalCols returns the column-count estimate taken from row 0, fixed
// at construction. Individual rows may carry more or fewer fields.
func (s *Session) TotalCols() int64 {
	return s.cols
}

// Retain adds a reference to the session so a second holder can keep
// the mapping alive past the creator's Close. Every Retain must be
// paired with a Close.
func (s *Session) Retain() {
	s.refs.Add(1)
}

// Close drops one reference; the mapping is released when the last
// reference is dropped. Queries must not run concurrently with or after
// the final Close.
func (s *Session) Close() error {
	if s.refs.Add(-1) > 0 {
		return nil
	}
	return s.src.Close()
}

// log returns the logger, falling back to a discard logger if nil.
func (s *Session) log() *slog.Logger {
	if s.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.logger
}
