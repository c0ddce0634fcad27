package rowkit

import (
	"fmt"
	"sort"
	"time"
)

// sortKey is one row's comparison key: (valid, value), where invalid (null) keys are the lowest.
type sortKey struct {
	valid bool
	f     float64
	s     string
	t     time.Time
}

// keyContainer sorts comparison keys while tracking the original row position of each key.
type keyContainer struct {
	keys       []sortKey
	index      []int
	dtype      DType
	descending bool
}

func (vc keyContainer) Len() int {
	return len(vc.keys)
}

func (vc keyContainer) Swap(i, j int) {
	vc.keys[i], vc.keys[j] = vc.keys[j], vc.keys[i]
	vc.index[i], vc.index[j] = vc.index[j], vc.index[i]
}

// Less compares the (valid, value) tuples as a unit, and reverses the whole comparison if descending.
func (vc keyContainer) Less(i, j int) bool {
	if vc.descending {
		return vc.tupleLess(j, i)
	}
	return vc.tupleLess(i, j)
}

func (vc keyContainer) tupleLess(i, j int) bool {
	a, b := vc.keys[i], vc.keys[j]
	if a.valid != b.valid {
		return b.valid
	}
	if !a.valid {
		return false
	}
	switch vc.dtype {
	case Float64:
		return a.f < b.f
	case DateTime:
		return a.t.Before(b.t)
	default:
		return a.s < b.s
	}
}

// resolveDType returns Float64 if most non-null cells in column `k` are numeric, otherwise String.
// A column with no non-null cells resolves to String.
func resolveDType(rows [][]Cell, k int) DType {
	var numeric, text int
	for i := range rows {
		if rows[i][k].IsNull {
			continue
		}
		if _, ok := rows[i][k].Float(); ok {
			numeric++
		} else {
			text++
		}
	}
	if numeric > text {
		return Float64
	}
	return String
}

func makeSortKey(c Cell, dtype DType) sortKey {
	switch dtype {
	case Float64:
		f, ok := c.Float()
		return sortKey{valid: ok, f: f}
	case DateTime:
		t, ok := c.Time()
		return sortKey{valid: ok, t: t}
	default:
		return sortKey{valid: !c.IsNull, s: c.String()}
	}
}

// sortRows returns the row positions of `rows` in sorted order.
// Sorters are applied from last to first with a stable sort, so the first Sorter is the primary key.
func sortRows(cols []string, rows [][]Cell, sorters []Sorter) ([]int, error) {
	index := makeIntRange(0, len(rows))
	for s := len(sorters) - 1; s >= 0; s-- {
		k, err := findColumn(sorters[s].Name, cols)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", s, err)
		}
		dtype := sorters[s].DType
		if dtype == Auto {
			dtype = resolveDType(rows, k)
		}
		vc := keyContainer{
			keys:       make([]sortKey, len(index)),
			index:      index,
			dtype:      dtype,
			descending: sorters[s].Descending,
		}
		for i, pos := range index {
			vc.keys[i] = makeSortKey(rows[pos][k], dtype)
		}
		sort.Stable(vc)
		index = vc.index
	}
	return index, nil
}

// -- SORTERS

// Sort sorts the rows `by` one or more Sorter specifications; the first Sorter is the primary key.
// Rows with equal keys keep their relative order.
// Null values (and values that cannot be coerced to the Sorter's DType) are the lowest key:
// they sort first in ascending order and last in descending order.
// If no DType is supplied for a Sorter, values are compared as numbers when most non-null values in the column are numeric
// (the others then sort like nulls), and as strings otherwise.
// Supply DType: Float64 to compare as numbers regardless of the mix.
// DType is only used for the process of sorting; values retain their original type.
// Returns a new Dataset.
func (ds *Dataset) Sort(by ...Sorter) *Dataset {
	ds = ds.Copy()
	ds.InPlace().Sort(by...)
	return ds
}

// Sort sorts the rows `by` one or more Sorter specifications; the first Sorter is the primary key.
// See Dataset.Sort for details.
// Modifies the underlying Dataset in place.
func (ds *DatasetMutator) Sort(by ...Sorter) {
	d := ds.dataset
	if d.err != nil {
		return
	}
	if len(by) == 0 {
		d.resetWithError(fmt.Errorf("Sort(): must supply at least one Sorter"))
		return
	}
	index, err := sortRows(d.cols, d.rows, by)
	if err != nil {
		d.resetWithError(fmt.Errorf("Sort(): %w", err))
		return
	}
	d.rows = subsetRows(d.rows, index)
}
