package sheet

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestFile writes content to a temp file and returns its path.
func writeTestFile(tb testing.TB, name, content string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	require.NoError(tb, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func openTestSession(tb testing.TB, content string, opts ...Option) *Session {
	tb.Helper()
	s, err := Open(writeTestFile(tb, "data.csv", content), opts...)
	require.NoError(tb, err)
	tb.Cleanup(func() { s.Close() })
	return s
}

func TestOpenBasic(t *testing.T) {
	s := openTestSession(t, "a,b,c\n1,2,3\n4,5\n")

	assert.Equal(t, int64(3), s.TotalRows())
	assert.Equal(t, int64(3), s.TotalCols())

	got := s.GetGridChunk(0, 3, 0, 3)
	want := []RowData{
		{Index: 0, Cells: []string{"a", "b", "c"}},
		{Index: 1, Cells: []string{"1", "2", "3"}},
		{Index: 2, Cells: []string{"4", "5", ""}},
	}
	assert.Equal(t, want, got)
}

func TestOpenEmptyFile(t *testing.T) {
	s := openTestSession(t, "")

	assert.Equal(t, int64(0), s.TotalRows())
	assert.Equal(t, int64(0), s.TotalCols())
	assert.Empty(t, s.GetGridChunk(0, 10, 0, 10))
	assert.Empty(t, s.GetHeaderChunk(0, 10))
}

func TestOpenNotFound(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, s)
}

func TestOpenPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root; permission bits are not enforced")
	}

	path := writeTestFile(t, "locked.csv", "a,b\n")
	require.NoError(t, os.Chmod(path, 0o000))

	s, err := Open(path)
	require.ErrorIs(t, err, ErrPermission)
	assert.Nil(t, s)
}

func TestGetHeaderChunk(t *testing.T) {
	s := openTestSession(t, "a,b,c,d,e\n")

	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, s.GetHeaderChunk(0, 5))
	assert.Equal(t, []string{"C", "D"}, s.GetHeaderChunk(2, 2))

	// Truncated at TotalCols, not padded.
	assert.Equal(t, []string{"D", "E"}, s.GetHeaderChunk(3, 10))
	assert.Empty(t, s.GetHeaderChunk(5, 3))
	assert.Empty(t, s.GetHeaderChunk(100, 3))

	// Degenerate counts yield empty results.
	assert.Empty(t, s.GetHeaderChunk(0, 0))
	assert.Empty(t, s.GetHeaderChunk(0, -1))
}

func TestGetHeaderChunkMatchesColumnName(t *testing.T) {
	s := openTestSession(t, "a,b,c\n")

	names := s.GetHeaderChunk(0, int(s.TotalCols()))
	require.Len(t, names, int(s.TotalCols()))
	for i, name := range names {
		assert.Equal(t, ColumnName(int64(i)), name)
	}
}

func TestGetGridChunkTruncation(t *testing.T) {
	s := openTestSession(t, "a\nb\nc\nd\n")

	assert.Len(t, s.GetGridChunk(0, 4, 0, 1), 4)
	assert.Len(t, s.GetGridChunk(0, 10, 0, 1), 4)
	assert.Len(t, s.GetGridChunk(2, 10, 0, 1), 2)
	assert.Len(t, s.GetGridChunk(3, 1, 0, 1), 1)
	assert.Empty(t, s.GetGridChunk(4, 1, 0, 1))
	assert.Empty(t, s.GetGridChunk(100, 5, 0, 1))
}

func TestGetGridChunkRaggedRows(t *testing.T) {
	// Row 1 is wider than the row-0 estimate; its real data must still
	// be reachable beyond TotalCols.
	s := openTestSession(t, "a,b\n1,2,3,4\n")

	assert.Equal(t, int64(2), s.TotalCols())

	got := s.GetGridChunk(1, 1, 2, 2)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"3", "4"}, got[0].Cells)

	// The header window is still bounded by the global estimate.
	assert.Empty(t, s.GetHeaderChunk(2, 2))
}

func TestGetGridChunkEmptyLines(t *testing.T) {
	s := openTestSession(t, "a,b\n\nc,d\n")

	got := s.GetGridChunk(0, 3, 0, 2)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b"}, got[0].Cells)
	assert.Empty(t, got[1].Cells, "empty line must yield no cells, not padding")
	assert.Equal(t, []string{"c", "d"}, got[2].Cells)
}

func TestGetGridChunkNoTrailingNewline(t *testing.T) {
	s := openTestSession(t, "a,b\nc,d")

	got := s.GetGridChunk(1, 1, 0, 2)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"c", "d"}, got[0].Cells)
}

func TestGetGridChunkCarriageReturnRetained(t *testing.T) {
	s := openTestSession(t, "a,b\r\nc,d\r\n")

	got := s.GetGridChunk(0, 2, 0, 2)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"a", "b\r"}, got[0].Cells)
	assert.Equal(t, []string{"c", "d\r"}, got[1].Cells)
}

func TestGetGridChunkInvalidUTF8(t *testing.T) {
	s := openTestSession(t, "ok,\xff\xfe\n")

	got := s.GetGridChunk(0, 1, 0, 2)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].Cells[0])
	assert.Equal(t, "�", got[0].Cells[1])
}

func TestGetGridChunkNegativeStarts(t *testing.T) {
	s := openTestSession(t, "a,b\nc,d\n")

	// Rows before row 0 are skipped, not an error.
	got := s.GetGridChunk(-1, 3, 0, 2)
	require.Len(t, got, 2)
	assert.Equal(t, int64(0), got[0].Index)

	// Columns before column 0 pad with empty strings.
	got = s.GetGridChunk(0, 1, -1, 3)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"", "a", "b"}, got[0].Cells)
}

func TestWithDelimiter(t *testing.T) {
	s := openTestSession(t, "a\tb\tc\n1\t2\t3\n", WithDelimiter('\t'))

	assert.Equal(t, int64(3), s.TotalCols())
	got := s.GetGridChunk(1, 1, 0, 3)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"1", "2", "3"}, got[0].Cells)
}

func TestSingleColumn(t *testing.T) {
	s := openTestSession(t, "x\ny\n")

	assert.Equal(t, int64(2), s.TotalRows())
	assert.Equal(t, int64(1), s.TotalCols())
	assert.Equal(t, []string{"A"}, s.GetHeaderChunk(0, 5))
}

func TestConcurrentQueries(t *testing.T) {
	s := openTestSession(t, "a,b,c\n1,2,3\n4,5\n")

	want := s.GetGridChunk(0, 3, 0, 3)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, s.GetGridChunk(0, 3, 0, 3))
			assert.Equal(t, []string{"A", "B", "C"}, s.GetHeaderChunk(0, 3))
		}()
	}
	wg.Wait()
}

func TestRetainRelease(t *testing.T) {
	s := openTestSession(t, "a,b\n")

	s.Retain()
	require.NoError(t, s.Close())

	// Still one reference outstanding; queries must keep working.
	got := s.GetGridChunk(0, 1, 0, 2)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"a", "b"}, got[0].Cells)
}

func TestOpenGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte("a,b,c\n1,2,3\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, int64(2), s.TotalRows())
	got := s.GetGridChunk(1, 1, 0, 3)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"1", "2", "3"}, got[0].Cells)
}

func TestOpenZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv.zst")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = zw.Write([]byte("a,b\nc,d\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, int64(2), s.TotalRows())
	assert.Equal(t, int64(2), s.TotalCols())
}

func TestOpenZstdCorrupt(t *testing.T) {
	path := writeTestFile(t, "data.csv.zst", "not a zstd stream")

	s, err := Open(path)
	require.ErrorIs(t, err, ErrMap)
	assert.Nil(t, s)
}

func TestWarm(t *testing.T) {
	s := openTestSession(t, "a,b,c\n1,2,3\n4,5\n")

	require.NoError(t, s.Warm(context.Background(), 4))
	require.NoError(t, s.Warm(context.Background(), 0))
}

func TestWarmCancelled(t *testing.T) {
	s := openTestSession(t, "a,b\nc,d\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Warm(ctx, 2), context.Canceled)
}

func TestWarmEmpty(t *testing.T) {
	s := openTestSession(t, "")
	require.NoError(t, s.Warm(context.Background(), 4))
}
