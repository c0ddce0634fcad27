package rowkit

import (
	"bytes"
	"fmt"
	"math"

	"github.com/olekukonko/tablewriter"
	"github.com/ptiger10/tablediff"
)

// End may be supplied as the `end` of Slice() to mean "through the last row".
const End = math.MaxInt

// -- CONSTRUCTORS

// NewDataset creates a new Dataset with the column names `cols` and `rows` of cells.
// Column names must be unique, and every row must have one cell per column.
// The input is copied, so later changes to `rows` do not affect the Dataset.
func NewDataset(cols []string, rows [][]Cell) *Dataset {
	seen := make(map[string]bool, len(cols))
	for _, name := range cols {
		if seen[name] {
			return datasetWithError(fmt.Errorf("NewDataset(): duplicate column name: %s", name))
		}
		seen[name] = true
	}
	for i := range rows {
		if len(rows[i]) != len(cols) {
			return datasetWithError(fmt.Errorf("NewDataset(): row %d: wrong number of cells (%d != %d)",
				i, len(rows[i]), len(cols)))
		}
	}
	return &Dataset{cols: copyStrings(cols), rows: copyRows(rows)}
}

// Copy returns a new Dataset with identical values as the original but no shared objects
// (i.e., all internals are newly allocated).
func (ds *Dataset) Copy() *Dataset {
	return &Dataset{
		cols: copyStrings(ds.cols),
		rows: copyRows(ds.rows),
		name: ds.name,
		err:  ds.err,
	}
}

// -- GETTERS

// Err returns the most recent error attached to the Dataset, if any.
func (ds *Dataset) Err() error {
	return ds.err
}

// Len returns the number of rows in the Dataset.
func (ds *Dataset) Len() int {
	return len(ds.rows)
}

// NumColumns returns the number of columns in the Dataset.
func (ds *Dataset) NumColumns() int {
	return len(ds.cols)
}

// ListColNames returns the column names in order.
func (ds *Dataset) ListColNames() []string {
	return copyStrings(ds.cols)
}

// HasCols returns an error if any of the `names` is not a column in the Dataset.
func (ds *Dataset) HasCols(names ...string) error {
	for _, name := range names {
		if _, err := findColumn(name, ds.cols); err != nil {
			return fmt.Errorf("HasCols(): %w", err)
		}
	}
	return nil
}

// At returns the Cell at `row` in column `name`.
// If `row` is out of range or `name` is not a column, returns a null Cell.
func (ds *Dataset) At(row int, name string) Cell {
	if row < 0 || row >= ds.Len() {
		return NullCell()
	}
	k, err := findColumn(name, ds.cols)
	if err != nil {
		return NullCell()
	}
	return ds.rows[row][k]
}

// Row returns the Row at position `i`. Panics if `i` is out of range.
func (ds *Dataset) Row(i int) Row {
	return Row{names: ds.cols, cells: ds.rows[i]}
}

// Col returns a copy of the cells in column `name`, or nil if `name` is not a column.
func (ds *Dataset) Col(name string) []Cell {
	k, err := findColumn(name, ds.cols)
	if err != nil {
		return nil
	}
	ret := make([]Cell, len(ds.rows))
	for i := range ds.rows {
		ret[i] = ds.rows[i][k].copy()
	}
	return ret
}

// SetName sets the name of the Dataset, which is printed as a caption by String().
func (ds *Dataset) SetName(name string) *Dataset {
	ds.name = name
	return ds
}

// Name returns the name of the Dataset.
func (ds *Dataset) Name() string {
	return ds.name
}

// InPlace returns a DatasetMutator, which contains most of the same methods as Dataset
// but never returns a new Dataset.
// If you want to save memory and improve performance and do not need to preserve the original Dataset,
// consider using InPlace().
func (ds *Dataset) InPlace() *DatasetMutator {
	return &DatasetMutator{dataset: ds}
}

// -- SUBSETTERS

// Subset returns only the rows at the positions in `index`, in that order.
// Returns a new Dataset.
func (ds *Dataset) Subset(index []int) *Dataset {
	ds = ds.Copy()
	ds.InPlace().Subset(index)
	return ds
}

// Subset keeps only the rows at the positions in `index`, in that order.
// Modifies the underlying Dataset in place.
func (ds *DatasetMutator) Subset(index []int) {
	if ds.dataset.err != nil {
		return
	}
	for _, i := range index {
		if i < 0 || i >= ds.dataset.Len() {
			ds.dataset.resetWithError(fmt.Errorf("Subset(): index %d out of range for %d rows", i, ds.dataset.Len()))
			return
		}
	}
	ds.dataset.rows = subsetRows(ds.dataset.rows, index)
}

// Slice returns the rows from position `start` up to but not including `end`.
// Negative positions count back from the last row, and positions out of range are clamped
// (so Slice(0, End) returns every row and Slice(5, 2) returns no rows).
// Returns a new Dataset.
func (ds *Dataset) Slice(start, end int) *Dataset {
	ds = ds.Copy()
	ds.InPlace().Slice(start, end)
	return ds
}

// Slice keeps the rows from position `start` up to but not including `end`.
// Negative positions count back from the last row, and positions out of range are clamped.
// Modifies the underlying Dataset in place.
func (ds *DatasetMutator) Slice(start, end int) {
	if ds.dataset.err != nil {
		return
	}
	start, end = normalizeSliceBounds(start, end, ds.dataset.Len())
	ds.dataset.rows = ds.dataset.rows[start:end]
}

// Head returns the first `n` rows of the Dataset (or every row, if there are fewer than `n`).
func (ds *Dataset) Head(n int) *Dataset {
	if n < 0 {
		n = 0
	}
	return ds.Slice(0, n)
}

// Tail returns the last `n` rows of the Dataset (or every row, if there are fewer than `n`).
func (ds *Dataset) Tail(n int) *Dataset {
	if n <= 0 {
		return ds.Slice(ds.Len(), End)
	}
	return ds.Slice(-n, End)
}

// -- COMBINERS

// Stack returns a new Dataset with the rows of `top` followed by the rows of `bottom`.
// Both must have the same set of column names; if the order differs, `bottom` is aligned to the order in `top`.
func Stack(top, bottom *Dataset) *Dataset {
	ret := top.Copy()
	ret.InPlace().Append(bottom)
	return ret
}

// Append adds the rows of `other` after the rows of the Dataset.
// `other` must have the same set of column names; if the order differs, it is aligned to the Dataset's order.
// Modifies the underlying Dataset in place.
func (ds *DatasetMutator) Append(other *Dataset) {
	if ds.dataset.err != nil {
		return
	}
	if other.err != nil {
		ds.dataset.resetWithError(fmt.Errorf("Append(): `other`: %w", other.err))
		return
	}
	if len(other.cols) != len(ds.dataset.cols) {
		ds.dataset.resetWithError(fmt.Errorf("Append(): `other` must have same number of columns (%d != %d)",
			len(other.cols), len(ds.dataset.cols)))
		return
	}
	positions := make([]int, len(ds.dataset.cols))
	for k, name := range ds.dataset.cols {
		pos, err := findColumn(name, other.cols)
		if err != nil {
			ds.dataset.resetWithError(fmt.Errorf("Append(): `other`: %w", err))
			return
		}
		positions[k] = pos
	}
	for i := range other.rows {
		row := make([]Cell, len(positions))
		for k, pos := range positions {
			row[k] = other.rows[i][pos].copy()
		}
		ds.dataset.rows = append(ds.dataset.rows, row)
	}
}

// -- ITERATORS

// Iterator returns an iterator which may be used to access the rows in the Dataset.
func (ds *Dataset) Iterator() *DatasetIterator {
	return &DatasetIterator{
		current: -1,
		ds:      ds,
	}
}

// Next advances to next row. Returns false at end of iteration.
func (iter *DatasetIterator) Next() bool {
	iter.current++
	return iter.current < iter.ds.Len()
}

// Row returns the current row in the Dataset.
func (iter *DatasetIterator) Row() Row {
	return iter.ds.Row(iter.current)
}

// -- ROWS

// Get returns the Cell in column `name` and whether the column exists.
func (r Row) Get(name string) (Cell, bool) {
	k, err := findColumn(name, r.names)
	if err != nil {
		return NullCell(), false
	}
	return r.cells[k], true
}

// Names returns the column names of the Row in order.
func (r Row) Names() []string {
	return copyStrings(r.names)
}

// Cells returns the cells of the Row in column order.
func (r Row) Cells() []Cell {
	ret := make([]Cell, len(r.cells))
	for k := range r.cells {
		ret[k] = r.cells[k].copy()
	}
	return ret
}

// Map returns the Row as a map of column names to cells.
func (r Row) Map() map[string]Cell {
	ret := make(map[string]Cell, len(r.names))
	for k, name := range r.names {
		ret[name] = r.cells[k].copy()
	}
	return ret
}

// -- PRINTERS

// String prints the Dataset in table form, with the number of rows constrained by optionMaxRows,
// which may be configured with SetOptionMaxRows(n).
func (ds *Dataset) String() string {
	if ds.err != nil {
		return fmt.Sprintf("Error: %v", ds.err)
	}
	var data [][]string
	if ds.Len() <= optionMaxRows {
		data = ds.records()
	} else {
		// truncate rows
		n := optionMaxRows / 2
		filler := make([]string, ds.NumColumns())
		for k := range filler {
			filler[k] = "..."
		}
		data = append(
			append(ds.Head(n).records(), filler),
			ds.Tail(n).records()...)
	}
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader(ds.cols)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.AppendBulk(data)
	table.Render()
	ret := buf.String()
	// append optional caption
	if ds.name != "" {
		ret += fmt.Sprintf("name: %v\n", ds.name)
	}
	return ret
}

// EqualsCSV reduces the Dataset to [][]string records (with the header as the first record)
// and evaluates whether the stringified values match `records`.
// If they do not match, returns a tablediff.Differences object that can be printed to isolate their differences.
func (ds *Dataset) EqualsCSV(records [][]string) (bool, *tablediff.Differences, error) {
	if ds.err != nil {
		return false, nil, fmt.Errorf("EqualsCSV(): %w", ds.err)
	}
	diffs, eq := tablediff.Diff(ds.ToCSV(), records)
	return eq, diffs, nil
}
