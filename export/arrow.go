// Package export bridges window queries into Apache Arrow records.
//
// Arrow is the lingua franca for columnar tooling; converting a window
// here lets callers hand query results to parquet writers, dataframe
// libraries, or IPC transports without re-plumbing cell data.
package export

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/meigma/sheet"
)

// Record materializes the window [rowStart, rowStart+rowCount) x
// [colStart, colStart+colCount) as an Arrow record.
//
// The schema carries an int64 "row" field followed by one string field
// per window column, named with the column's alphabetic name. Rows with
// fewer cells than the window (empty lines) pad with empty strings so
// the record stays rectangular. The caller owns the record and must
// Release it.
func Record(s *sheet.Session, rowStart int64, rowCount int, colStart int64, colCount int) arrow.Record {
	return RecordWithAllocator(memory.DefaultAllocator, s, rowStart, rowCount, colStart, colCount)
}

// RecordWithAllocator is Record with an explicit allocator, for callers
// tracking Arrow allocations.
func RecordWithAllocator(mem memory.Allocator, s *sheet.Session, rowStart int64, rowCount int, colStart int64, colCount int) arrow.Record {
	if colCount < 0 {
		colCount = 0
	}

	fields := make([]arrow.Field, 0, colCount+1)
	fields = append(fields, arrow.Field{Name: "row", Type: arrow.PrimitiveTypes.Int64})
	for i := range colCount {
		fields = append(fields, arrow.Field{
			Name: sheet.ColumnName(colStart + int64(i)),
			Type: arrow.BinaryTypes.String,
		})
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for _, row := range s.GetGridChunk(rowStart, rowCount, colStart, colCount) {
		b.Field(0).(*array.Int64Builder).Append(row.Index)
		for c := range colCount {
			var cell string
			if c < len(row.Cells) {
				cell = row.Cells[c]
			}
			b.Field(c + 1).(*array.StringBuilder).Append(cell)
		}
	}

	return b.NewRecord()
}
