package sheet

// ColumnName returns the spreadsheet-style name for a zero-based column
// index: 0 is "A", 25 is "Z", 26 is "AA", 701 is "ZZ", 702 is "AAA".
//
// The scheme is bijective base-26: past the first letter no digit can
// represent zero, so n = n/26 - 1 after each step rather than n/26.
func ColumnName(index int64) string {
	// 14 letters cover the full int64 range.
	var buf [14]byte
	i := len(buf)
	n := index
	for {
		i--
		buf[i] = byte('A' + n%26)
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	return string(buf[i:])
}
