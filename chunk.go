package sheet

import "strings"

// GetHeaderChunk returns the alphabetic column names for the window
// [colStart, colStart+colCount), truncated at [Session.TotalCols].
//
// Running past the last column is a normal condition: the result is
// short, never padded and never an error. A degenerate colCount yields
// an empty result.
func (s *Session) GetHeaderChunk(colStart int64, colCount int) []string {
	if colCount <= 0 {
		return nil
	}

	names := make([]string, 0, colCount)
	for i := range colCount {
		idx := colStart + int64(i)
		if idx >= s.cols {
			break
		}
		if idx < 0 {
			continue
		}
		names = append(names, ColumnName(idx))
	}
	return names
}

// GetGridChunk returns cell data for the window
// [rowStart, rowStart+rowCount) x [colStart, colStart+colCount).
//
// The result is truncated at [Session.TotalRows]; hitting end-of-data
// during a windowed scroll is a normal condition, never an error. Within
// a row, missing trailing fields pad with empty strings up to colCount.
// Unlike GetHeaderChunk, column bounds follow the row's own field count
// rather than TotalCols, so a ragged row wider than row 0 still yields
// its real data. An empty line yields a RowData with no cells.
//
// Invalid UTF-8 decodes to replacement runes; no content ever fails a
// query. Degenerate counts yield an empty result.
func (s *Session) GetGridChunk(rowStart int64, rowCount int, colStart int64, colCount int) []RowData {
	if rowCount <= 0 || colCount <= 0 {
		return nil
	}

	rows := make([]RowData, 0, rowCount)
	for r := range rowCount {
		idx := rowStart + int64(r)
		if idx >= s.rows {
			break
		}
		if idx < 0 {
			continue
		}
		rows = append(rows, s.readRow(idx, colStart, colCount))
	}
	return rows
}

// readRow materializes one row of the window. The byte slice aliases
// the mapping; the string conversion is the copy that detaches the
// result from it.
func (s *Session) readRow(row, colStart int64, colCount int) RowData {
	start, end := s.rowRange(row)
	if start >= end {
		return RowData{Index: row}
	}

	text := strings.ToValidUTF8(string(s.src.Slice(start, end)), "�")
	fields := strings.Split(text, s.delimStr)

	cells := make([]string, colCount)
	for c := range cells {
		target := colStart + int64(c)
		if target >= 0 && target < int64(len(fields)) {
			cells[c] = fields[target]
		}
	}
	return RowData{Index: row, Cells: cells}
}
