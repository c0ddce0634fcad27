package rowkit

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

type arrowKind int

const (
	arrowString arrowKind = iota
	arrowInt64
	arrowFloat64
	arrowList
)

func cellArrowKind(c Cell) arrowKind {
	switch c.Val.(type) {
	case int64:
		return arrowInt64
	case float64:
		return arrowFloat64
	case []string:
		return arrowList
	default:
		return arrowString
	}
}

// columnArrowKind returns the kind shared by every non-null cell in column `k`, or arrowString if they differ.
func columnArrowKind(rows [][]Cell, k int) arrowKind {
	kind := arrowString
	var seen bool
	for i := range rows {
		if rows[i][k].IsNull {
			continue
		}
		cellKind := cellArrowKind(rows[i][k])
		if !seen {
			kind = cellKind
			seen = true
			continue
		}
		if cellKind != kind {
			return arrowString
		}
	}
	return kind
}

func columnToArrowArray(rows [][]Cell, k int, mem memory.Allocator) arrow.Array {
	switch columnArrowKind(rows, k) {
	case arrowInt64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		for i := range rows {
			if rows[i][k].IsNull {
				builder.AppendNull()
				continue
			}
			builder.Append(rows[i][k].Val.(int64))
		}
		return builder.NewArray()

	case arrowFloat64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		for i := range rows {
			if rows[i][k].IsNull {
				builder.AppendNull()
				continue
			}
			builder.Append(rows[i][k].Val.(float64))
		}
		return builder.NewArray()

	case arrowList:
		builder := array.NewListBuilder(mem, arrow.BinaryTypes.String)
		defer builder.Release()
		values := builder.ValueBuilder().(*array.StringBuilder)
		for i := range rows {
			if rows[i][k].IsNull {
				builder.AppendNull()
				continue
			}
			builder.Append(true)
			for _, v := range rows[i][k].Val.([]string) {
				values.Append(v)
			}
		}
		return builder.NewArray()

	default:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		for i := range rows {
			if rows[i][k].IsNull {
				builder.AppendNull()
				continue
			}
			builder.Append(rows[i][k].String())
		}
		return builder.NewArray()
	}
}

// ToArrow exports the Dataset to an Arrow Record, for interoperability with other dataframe tools.
// Each column becomes a nullable Arrow column: Int64 if every non-null cell is an int, Float64 if every non-null cell is a float,
// List<String> if every non-null cell is multi-valued, and String otherwise.
// If `mem` is nil, memory.DefaultAllocator is used.
// The caller is responsible for calling Release() on the returned Record.
func (ds *Dataset) ToArrow(mem memory.Allocator) (arrow.Record, error) {
	if ds.err != nil {
		return nil, fmt.Errorf("ToArrow(): %w", ds.err)
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	fields := make([]arrow.Field, len(ds.cols))
	arrays := make([]arrow.Array, len(ds.cols))
	for k, name := range ds.cols {
		arrays[k] = columnToArrowArray(ds.rows, k, mem)
		fields[k] = arrow.Field{Name: name, Type: arrays[k].DataType(), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)
	record := array.NewRecord(schema, arrays, int64(ds.Len()))
	// the Record retains the arrays
	for _, arr := range arrays {
		arr.Release()
	}
	return record, nil
}
