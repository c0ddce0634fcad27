package rowkit

import (
	"fmt"
)

// joinLayout describes where each right column lands in the joined row.
type joinLayout struct {
	cols []string
	// positions in the joined row of right columns, by right column position (-1 for the key)
	targets []int
}

// makeJoinLayout appends the right non-key columns that are not already in `left` after the left columns.
// Right columns whose names collide with left columns reuse the left position.
func makeJoinLayout(left, right []string, rightKey int) joinLayout {
	cols := copyStrings(left)
	targets := make([]int, len(right))
	for k, name := range right {
		if k == rightKey {
			targets[k] = -1
			continue
		}
		if pos, err := findColumn(name, cols); err == nil {
			targets[k] = pos
			continue
		}
		cols = append(cols, name)
		targets[k] = len(cols) - 1
	}
	return joinLayout{cols: cols, targets: targets}
}

// firstMatch returns the position of the first row in `rows` whose cell at `k` has the same stringified value as `key`,
// or -1 if there is none. Null keys never match.
func firstMatch(key Cell, rows [][]Cell, k int) int {
	want, ok := key.key()
	if !ok {
		return -1
	}
	for j := range rows {
		if got, ok := rows[j][k].key(); ok && got == want {
			return j
		}
	}
	return -1
}

// -- JOINERS

// LeftOuterJoin joins `right` onto the Dataset using the column `key`, which must exist in both.
// For every row in the Dataset, `right` is scanned for the first row with the same stringified `key` value
// (if `right` has duplicate keys, only the first is used; null keys never match).
// The joined row has every column of the Dataset, followed by the non-key columns of `right` that are not already present.
// On a match, the values from `right` override values in columns with the same name.
// Without a match, every non-key column from `right` is null.
//
// Every row in the Dataset appears exactly once in the result, in its original order.
// The scan is a nested loop, so neither Dataset needs to be sorted.
// Returns a new Dataset.
func (ds *Dataset) LeftOuterJoin(right *Dataset, key string) *Dataset {
	ds = ds.Copy()
	ds.InPlace().LeftOuterJoin(right, key)
	return ds
}

// LeftOuterJoin joins `right` onto the Dataset using the column `key`, which must exist in both.
// See Dataset.LeftOuterJoin for details.
// Modifies the underlying Dataset in place.
func (ds *DatasetMutator) LeftOuterJoin(right *Dataset, key string) {
	d := ds.dataset
	if d.err != nil {
		return
	}
	if right.err != nil {
		d.resetWithError(fmt.Errorf("LeftOuterJoin(): `right`: %w", right.err))
		return
	}
	leftKey, err := findColumn(key, d.cols)
	if err != nil {
		d.resetWithError(fmt.Errorf("LeftOuterJoin(): left: %w", err))
		return
	}
	rightKey, err := findColumn(key, right.cols)
	if err != nil {
		d.resetWithError(fmt.Errorf("LeftOuterJoin(): `right`: %w", err))
		return
	}
	layout := makeJoinLayout(d.cols, right.cols, rightKey)
	for i := range d.rows {
		row := make([]Cell, len(layout.cols))
		copy(row, d.rows[i])
		for k := len(d.rows[i]); k < len(row); k++ {
			row[k] = NullCell()
		}
		match := firstMatch(d.rows[i][leftKey], right.rows, rightKey)
		for k, target := range layout.targets {
			if target == -1 {
				continue
			}
			if match == -1 {
				row[target] = NullCell()
			} else {
				row[target] = right.rows[match][k].copy()
			}
		}
		d.rows[i] = row
	}
	d.cols = layout.cols
}
