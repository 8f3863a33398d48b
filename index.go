package sheet

import (
	"bytes"

	"github.com/meigma/sheet/internal/source"
)

// buildLineIndex scans the source once and records the byte offset of
// every row start. Entry i is the offset of row i's first byte; entries
// are strictly increasing and entry 0 is always 0.
//
// An empty source yields an empty index (row 0 of an empty file does
// not exist), and a trailing line feed does not open a phantom final
// row: an offset is only recorded when at least one byte follows it.
func buildLineIndex(src source.Source) []int64 {
	size := src.Len()
	if size == 0 {
		return nil
	}

	data := src.Slice(0, size)
	offsets := make([]int64, 0, bytes.Count(data, []byte{'\n'})+1)
	offsets = append(offsets, 0)

	var pos int64
	for {
		i := bytes.IndexByte(data[pos:], '\n')
		if i < 0 {
			break
		}
		next := pos + int64(i) + 1
		if next >= size {
			break
		}
		offsets = append(offsets, next)
		pos = next
	}
	return offsets
}

// rowRange resolves row's half-open byte range [start, end), excluding
// the row's line feed. The end of the last row is resolved here rather
// than recorded in the index, so files without a trailing line feed
// still report their final row correctly.
func (s *Session) rowRange(row int64) (start, end int64) {
	start = s.index[row]
	if row+1 < s.rows {
		return start, s.index[row+1] - 1
	}

	end = s.src.Len()
	if end > start {
		if b := s.src.Slice(end-1, end); len(b) == 1 && b[0] == '\n' {
			end--
		}
	}
	return start, end
}
