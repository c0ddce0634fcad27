package rowkit

import (
	"strings"
)

func (ds *Dataset) resetWithError(err error) {
	ds.cols = nil
	ds.rows = nil
	ds.name = ""
	ds.err = err
}

func datasetWithError(err error) *Dataset {
	return &Dataset{
		err: err,
	}
}

func makeIntRange(min, max int) []int {
	ret := make([]int, max-min)
	for i := range ret {
		ret[i] = i + min
	}
	return ret
}

// findColumn returns the position of the column called `name`, or a *ColumnNotFoundError.
func findColumn(name string, cols []string) (int, error) {
	for k := range cols {
		if cols[k] == name {
			return k, nil
		}
	}
	return 0, &ColumnNotFoundError{Name: name}
}

func isNullString(s string) bool {
	for _, ns := range optionNullStrings {
		if s == ns {
			return true
		}
	}
	return false
}

func copyStrings(s []string) []string {
	ret := make([]string, len(s))
	copy(ret, s)
	return ret
}

func copyRows(rows [][]Cell) [][]Cell {
	ret := make([][]Cell, len(rows))
	for i := range rows {
		ret[i] = make([]Cell, len(rows[i]))
		for k := range rows[i] {
			ret[i][k] = rows[i][k].copy()
		}
	}
	return ret
}

func subsetRows(rows [][]Cell, index []int) [][]Cell {
	ret := make([][]Cell, len(index))
	for i, pos := range index {
		ret[i] = rows[pos]
	}
	return ret
}

// withColumn returns the position of the column `name`,
// appending it to `cols` (and a null cell to every row) if it does not exist yet.
func withColumn(cols []string, rows [][]Cell, name string) ([]string, [][]Cell, int) {
	if k, err := findColumn(name, cols); err == nil {
		return cols, rows, k
	}
	cols = append(cols, name)
	for i := range rows {
		rows[i] = append(rows[i], NullCell())
	}
	return cols, rows, len(cols) - 1
}

// normalizeSliceBounds converts slice bounds to positions within [0, n]:
// negative bounds count back from n, and out-of-range bounds are clamped.
func normalizeSliceBounds(start, end, n int) (int, int) {
	if start < 0 {
		start += n
		if start < 0 {
			start = 0
		}
	}
	if end < 0 {
		end += n
		if end < 0 {
			end = 0
		}
	}
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}

// quoteField wraps s in double quotes if it contains the delimiter, a double quote, or a line break.
// Embedded double quotes are doubled.
func quoteField(s string, delimiter rune) string {
	if !strings.ContainsRune(s, delimiter) && !strings.ContainsAny(s, "\"\r\n") {
		return s
	}
	return `"` + strings.Replace(s, `"`, `""`, -1) + `"`
}

func joinFields(cells []string, delimiter rune) string {
	var b strings.Builder
	for k := range cells {
		if k > 0 {
			b.WriteRune(delimiter)
		}
		b.WriteString(quoteField(cells[k], delimiter))
	}
	return b.String()
}
