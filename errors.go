package rowkit

import "fmt"

// A MalformedRowError is returned when a data line has a different number of fields than the header.
type MalformedRowError struct {
	Line int
	Got  int
	Want int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("line %d: wrong number of fields (%d != %d)", e.Line, e.Got, e.Want)
}

// A ColumnNotFoundError is returned when an operation refers to a column that is not in the Dataset.
type ColumnNotFoundError struct {
	Name string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %s", e.Name)
}
