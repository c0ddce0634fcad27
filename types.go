// Package rowkit (ROW toolKIT) performs relational operations on tabular data held in memory.
//
// rowkit reimplements the handful of operations a movie-ratings pipeline needs without a database engine:
// loading delimited text, splitting and factorizing composite columns, null-aware stable sorting,
// merge-style group-by aggregation, left outer joins, filtering, slicing, and printing back to delimited text.
//
// The key data type is the Dataset, an ordered sequence of Rows sharing one ordered list of column names.
// Each value in a Row is a Cell, which holds a string, int64, float64, []string (multi-valued), or null.
//
// Every transformation is available in two forms:
// ds.Sort(...) returns a new Dataset and leaves ds untouched,
// while ds.InPlace().Sort(...) modifies ds.
// Errors are attached to the Dataset they occur on and returned by Err();
// operations on a Dataset with an error return that same error.
package rowkit

// A Cell is one value in a Dataset.
// Val is a string, int64, float64, []string, or nil if IsNull is true.
type Cell struct {
	Val    interface{}
	IsNull bool
}

// A Row is one record in a Dataset: an ordered mapping from column name to Cell.
type Row struct {
	names []string
	cells []Cell
}

// A Dataset is an ordered sequence of rows sharing the same ordered set of column names.
type Dataset struct {
	cols []string
	rows [][]Cell
	name string
	err  error
}

// A DatasetIterator iterates over the rows in a Dataset.
type DatasetIterator struct {
	current int
	ds      *Dataset
}

// A DatasetMutator is used to change Dataset values in place.
type DatasetMutator struct {
	dataset *Dataset
}

// A Sorter supplies details to the Sort() function.
// `Name` specifies the column to sort.
// If `Descending` is true, values are sorted in descending order.
// `DType` specifies the data type to which values will be coerced before they are sorted (default: Auto).
// Null values, and values that cannot be coerced to the DType, sort as the lowest key:
// first when ascending, last when descending.
type Sorter struct {
	Name       string
	Descending bool
	DType      DType
}

// DType is a DataType that may be used in Sort().
type DType int

const (
	// Auto compares as float64 if most non-null values are numeric, otherwise as string
	Auto DType = iota
	// Float64 -> float64
	Float64
	// String -> string
	String
	// DateTime -> time.Time
	DateTime
)

// An AggFunc reduces the numeric values of one group to a single value.
// It is never called with an empty slice.
type AggFunc func(vals []float64) float64

// A Range supplies inclusive integer bounds to FilterRange().
// Construct it with Between, AtLeast, AtMost, or Unbounded.
type Range struct {
	from, to       int64
	hasFrom, hasTo bool
}

// A ReadOption configures a read function.
// Available read options: ReadOptionDelimiter, ReadOptionTrimSpace.
type ReadOption func(*readConfig)

// A readConfig configures a read function.
// All read functions accept zero or more modifiers that alter the default read config, which is:
// "," as field delimiter and no whitespace trimming.
type readConfig struct {
	Delimiter rune
	TrimSpace bool
}

// A WriteOption configures a write function.
// Available write options: WriteOptionDelimiter, WriteOptionMaxRows.
type WriteOption func(*writeConfig)

// A writeConfig configures a write function.
// All write functions accept zero or more modifiers that alter the default write config, which is:
// "," as field delimiter and no limit on the number of rows.
type writeConfig struct {
	Delimiter rune
	MaxRows   int
}
