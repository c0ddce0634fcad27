package rowkit

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Mean returns the arithmetic mean of `vals`.
func Mean(vals []float64) float64 {
	return Sum(vals) / float64(len(vals))
}

// Sum returns the sum of `vals`.
func Sum(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum
}

// Median returns the median of `vals` (the mean of the middle two values if there is an even number of values).
func Median(vals []float64) float64 {
	data := make([]float64, len(vals))
	copy(data, vals)
	sort.Float64s(data)
	mid := len(data) / 2
	if len(data)%2 != 0 {
		return data[mid]
	}
	return (data[mid-1] + data[mid]) / 2
}

// Min returns the smallest value in `vals`.
func Min(vals []float64) float64 {
	ret := math.Inf(1)
	for _, v := range vals {
		if v < ret {
			ret = v
		}
	}
	return ret
}

// Max returns the largest value in `vals`.
func Max(vals []float64) float64 {
	ret := math.Inf(-1)
	for _, v := range vals {
		if v > ret {
			ret = v
		}
	}
	return ret
}

// Count returns the number of values in `vals`.
func Count(vals []float64) float64 {
	return float64(len(vals))
}

// roundOneDecimal rounds half away from zero to one decimal place.
func roundOneDecimal(f float64) float64 {
	ret, _ := decimal.NewFromFloat(f).Round(1).Float64()
	return ret
}

// aggregateRun applies fn to the numeric values in column `k` of `run`.
// Values that are null or not numeric are excluded; if none are left, the result is null.
func aggregateRun(run [][]Cell, k int, fn AggFunc) Cell {
	vals := make([]float64, 0, len(run))
	for i := range run {
		if f, ok := run[i][k].Float(); ok {
			vals = append(vals, f)
		}
	}
	if len(vals) == 0 {
		return NullCell()
	}
	ret := fn(vals)
	if math.IsNaN(ret) || math.IsInf(ret, 0) {
		return NullCell()
	}
	return FloatCell(roundOneDecimal(ret))
}

// sameGroup reports whether two group keys are equal. Null keys are equal to each other.
func sameGroup(a, b Cell) bool {
	aKey, aValid := a.key()
	bKey, bValid := b.key()
	return aValid == bValid && aKey == bKey
}

// -- GROUPERS

// GroupAggregate collapses each contiguous run of rows sharing the same value in `groupBy`
// into one row with two columns: the group value and the aggregate of the `aggColumn` values in the run,
// computed by `fn` (Mean if `fn` is nil) and rounded to one decimal place.
// Values in `aggColumn` are parsed as numbers; null and non-numeric values are excluded,
// and a run with no numeric values has a null aggregate.
//
// The Dataset must already be sorted by `groupBy`: a new group starts whenever the value changes from the previous row,
// so an unsorted Dataset produces more than one group for the same value.
// Groups are returned in the order they are first encountered.
// Returns a new Dataset.
func (ds *Dataset) GroupAggregate(groupBy, aggColumn string, fn AggFunc) *Dataset {
	if ds.err != nil {
		return datasetWithError(ds.err)
	}
	if fn == nil {
		fn = Mean
	}
	keyPos, err := findColumn(groupBy, ds.cols)
	if err != nil {
		return datasetWithError(fmt.Errorf("GroupAggregate(): `groupBy`: %w", err))
	}
	aggPos, err := findColumn(aggColumn, ds.cols)
	if err != nil {
		return datasetWithError(fmt.Errorf("GroupAggregate(): `aggColumn`: %w", err))
	}
	if keyPos == aggPos {
		return datasetWithError(fmt.Errorf("GroupAggregate(): `groupBy` and `aggColumn` must be different columns"))
	}
	ret := &Dataset{
		cols: []string{groupBy, aggColumn},
		rows: make([][]Cell, 0),
		name: ds.name,
	}
	var start int
	for i := 1; i <= len(ds.rows); i++ {
		if i < len(ds.rows) && sameGroup(ds.rows[i][keyPos], ds.rows[start][keyPos]) {
			continue
		}
		run := ds.rows[start:i]
		ret.rows = append(ret.rows, []Cell{
			ds.rows[start][keyPos].copy(),
			aggregateRun(run, aggPos, fn),
		})
		start = i
	}
	return ret
}
