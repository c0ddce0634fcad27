package rowkit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// StringCell returns a Cell holding `s`.
func StringCell(s string) Cell {
	return Cell{Val: s}
}

// IntCell returns a Cell holding `i`.
func IntCell(i int64) Cell {
	return Cell{Val: i}
}

// FloatCell returns a Cell holding `f`. NaN is stored as null.
func FloatCell(f float64) Cell {
	if math.IsNaN(f) {
		return NullCell()
	}
	return Cell{Val: f}
}

// MultiCell returns a multi-valued Cell holding `vals`.
func MultiCell(vals []string) Cell {
	return Cell{Val: vals}
}

// NullCell returns a null Cell.
func NullCell() Cell {
	return Cell{IsNull: true}
}

// parseCell converts a text field into a Cell, replacing null sentinels with a null Cell.
func parseCell(s string) Cell {
	if isNullString(s) {
		return NullCell()
	}
	return StringCell(s)
}

// String renders the Cell as text.
// Null cells are rendered as the null string set by SetOptionNullString (default: ""),
// floats are rendered with at least one decimal place,
// and multi-valued cells are joined by the separator set by SetOptionMultiValueSeparator (default: "|").
func (c Cell) String() string {
	if c.IsNull {
		return optionNullString
	}
	switch v := c.Val.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatFloat(v)
	case []string:
		return strings.Join(v, optionMultiValueSeparator)
	case nil:
		return optionNullString
	default:
		return fmt.Sprint(v)
	}
}

// Float returns the Cell as a float64.
// Returns false if the Cell is null or cannot be parsed as a number.
func (c Cell) Float() (float64, bool) {
	if c.IsNull {
		return 0, false
	}
	switch v := c.Val.(type) {
	case float64:
		return v, !math.IsNaN(v)
	case int64:
		return float64(v), true
	case string:
		return convertStringToFloat(v)
	}
	return 0, false
}

// Int returns the Cell as an int64.
// Floats are accepted only if they have no fractional part.
// Returns false if the Cell is null or cannot be parsed as an integer.
func (c Cell) Int() (int64, bool) {
	if c.IsNull {
		return 0, false
	}
	switch v := c.Val.(type) {
	case int64:
		return v, true
	case float64:
		return convertFloatToInt(v)
	case string:
		s := strings.TrimSpace(v)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		if f, ok := convertStringToFloat(s); ok {
			return convertFloatToInt(f)
		}
	}
	return 0, false
}

// Time returns the Cell as a time.Time, parsing text in any common date format.
// Returns false if the Cell is null, multi-valued, or cannot be parsed as a date.
func (c Cell) Time() (time.Time, bool) {
	if c.IsNull {
		return time.Time{}, false
	}
	if _, ok := c.Val.([]string); ok {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(strings.TrimSpace(c.String()))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Multi returns the values of a multi-valued Cell.
// A single-valued Cell is returned as a slice of one string; a null Cell returns false.
func (c Cell) Multi() ([]string, bool) {
	if c.IsNull {
		return nil, false
	}
	if v, ok := c.Val.([]string); ok {
		return v, true
	}
	return []string{c.String()}, true
}

// key returns the stringified value used to compare cells for equality in joins and groups.
func (c Cell) key() (string, bool) {
	if c.IsNull {
		return "", false
	}
	return c.String(), true
}

func (c Cell) copy() Cell {
	if v, ok := c.Val.([]string); ok {
		vals := make([]string, len(v))
		copy(vals, v)
		return Cell{Val: vals, IsNull: c.IsNull}
	}
	return c
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsInf(f, 0) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}

func convertStringToFloat(val string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// convertFloatToInt returns false unless `f` is integral and within the int64 range.
func convertFloatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// -2^63 is exact as a float64, and so is 2^63, the first value past math.MaxInt64
	if f < math.MinInt64 || f >= -math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
