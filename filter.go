package rowkit

import (
	"fmt"
	"regexp"
)

// Between returns a Range including every integer from `from` through `to`.
// If `from` is greater than `to`, the Range includes nothing.
func Between(from, to int64) Range {
	return Range{from: from, to: to, hasFrom: true, hasTo: true}
}

// AtLeast returns a Range including every integer greater than or equal to `from`.
func AtLeast(from int64) Range {
	return Range{from: from, hasFrom: true}
}

// AtMost returns a Range including every integer less than or equal to `to`.
func AtMost(to int64) Range {
	return Range{to: to, hasTo: true}
}

// Unbounded returns a Range with no bounds, which includes every row (even null ones).
func Unbounded() Range {
	return Range{}
}

func (r Range) bounded() bool {
	return r.hasFrom || r.hasTo
}

func (r Range) contains(v int64) bool {
	if r.hasFrom && v < r.from {
		return false
	}
	if r.hasTo && v > r.to {
		return false
	}
	return true
}

func (r Range) String() string {
	from, to := "-inf", "+inf"
	if r.hasFrom {
		from = fmt.Sprint(r.from)
	}
	if r.hasTo {
		to = fmt.Sprint(r.to)
	}
	return fmt.Sprintf("[%s, %s]", from, to)
}

// compilePattern compiles `pattern` as a regular expression, or as a literal substring if it is not a valid expression.
func compilePattern(pattern string) *regexp.Regexp {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return regexp.MustCompile(regexp.QuoteMeta(pattern))
	}
	return re
}

func cellMatches(c Cell, re *regexp.Regexp) bool {
	if c.IsNull {
		return false
	}
	if vals, ok := c.Val.([]string); ok {
		for _, v := range vals {
			if re.MatchString(v) {
				return true
			}
		}
		return false
	}
	return re.MatchString(c.String())
}

// filter returns the positions of the rows for which `fn` is true for the cell in column `k`.
func filter(rows [][]Cell, k int, fn func(Cell) bool) []int {
	index := make([]int, 0)
	for i := range rows {
		if fn(rows[i][k]) {
			index = append(index, i)
		}
	}
	return index
}

// -- FILTERS

// FilterContains returns the rows whose value in `column` matches `pattern`.
// `pattern` is a regular expression; if it is not a valid one, it is matched as a literal substring.
// A multi-valued cell matches if any of its values matches. Null values never match.
// Returns a new Dataset.
func (ds *Dataset) FilterContains(column, pattern string) *Dataset {
	ds = ds.Copy()
	ds.InPlace().FilterContains(column, pattern)
	return ds
}

// FilterContains keeps the rows whose value in `column` matches `pattern`.
// See Dataset.FilterContains for details.
// Modifies the underlying Dataset in place.
func (ds *DatasetMutator) FilterContains(column, pattern string) {
	d := ds.dataset
	if d.err != nil {
		return
	}
	k, err := findColumn(column, d.cols)
	if err != nil {
		d.resetWithError(fmt.Errorf("FilterContains(): %w", err))
		return
	}
	re := compilePattern(pattern)
	index := filter(d.rows, k, func(c Cell) bool {
		return cellMatches(c, re)
	})
	d.rows = subsetRows(d.rows, index)
}

// FilterRange returns the rows whose value in `column`, parsed as an integer, is within the inclusive range `r`.
// If `r` has any bound, rows with null or non-integer values are excluded.
// If `r` has no bounds, every row is returned.
// Returns a new Dataset.
func (ds *Dataset) FilterRange(column string, r Range) *Dataset {
	ds = ds.Copy()
	ds.InPlace().FilterRange(column, r)
	return ds
}

// FilterRange keeps the rows whose value in `column`, parsed as an integer, is within the inclusive range `r`.
// See Dataset.FilterRange for details.
// Modifies the underlying Dataset in place.
func (ds *DatasetMutator) FilterRange(column string, r Range) {
	d := ds.dataset
	if d.err != nil {
		return
	}
	k, err := findColumn(column, d.cols)
	if err != nil {
		d.resetWithError(fmt.Errorf("FilterRange(): %w", err))
		return
	}
	if !r.bounded() {
		return
	}
	index := filter(d.rows, k, func(c Cell) bool {
		v, ok := c.Int()
		return ok && r.contains(v)
	})
	d.rows = subsetRows(d.rows, index)
}
