package rowkit

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// -- READ OPTIONS

// ReadOptionDelimiter configures a read function to use `sep` as a field delimiter (default: ",").
func ReadOptionDelimiter(sep rune) ReadOption {
	return func(r *readConfig) {
		r.Delimiter = sep
	}
}

// ReadOptionTrimSpace configures a read function to remove leading and trailing whitespace from every field
// (default: fields are read as-is).
func ReadOptionTrimSpace() ReadOption {
	return func(r *readConfig) {
		r.TrimSpace = true
	}
}

func setReadConfig(options []ReadOption) *readConfig {
	config := &readConfig{Delimiter: ','}
	for _, option := range options {
		option(config)
	}
	return config
}

// -- READERS

// ImportCSV reads the delimited text file at `path` into a Dataset (configured by `options`).
// The first line is the header, which defines the column names and their order.
// Every following line becomes one row. Fields may be quoted according to standard csv rules.
// Null sentinels (by default "" and "NULL") are read as null cells; every other field is read as a string cell.
//
// If any line has a different number of fields than the header, the whole read is aborted
// and the returned error wraps a *MalformedRowError.
// Available options: ReadOptionDelimiter, ReadOptionTrimSpace.
func ImportCSV(path string, options ...ReadOption) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ImportCSV(): %w", err)
	}
	defer f.Close()
	ds, err := readCSV(bufio.NewReader(f), setReadConfig(options))
	if err != nil {
		return nil, fmt.Errorf("ImportCSV(): %s: %w", path, err)
	}
	return ds, nil
}

// ReadCSV reads delimited text from `r` into a Dataset (configured by `options`).
// See ImportCSV for the expected format.
// Available options: ReadOptionDelimiter, ReadOptionTrimSpace.
func ReadCSV(r io.Reader, options ...ReadOption) (*Dataset, error) {
	ds, err := readCSV(r, setReadConfig(options))
	if err != nil {
		return nil, fmt.Errorf("ReadCSV(): %w", err)
	}
	return ds, nil
}

// ReadCSVFromString reads a stringified csv table into a Dataset (configured by `options`).
// This function is most commonly used to set up fixtures within a test.
// Available options: ReadOptionDelimiter, ReadOptionTrimSpace.
func ReadCSVFromString(data string, options ...ReadOption) (*Dataset, error) {
	ds, err := readCSV(strings.NewReader(data), setReadConfig(options))
	if err != nil {
		return nil, fmt.Errorf("ReadCSVFromString(): %w", err)
	}
	return ds, nil
}

// ReadRecords reads [][]string `records` into a Dataset. The first record is the header.
// Often used with (encoding/csv) csv.NewReader().ReadAll().
func ReadRecords(records [][]string) (*Dataset, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("ReadRecords(): must have at least one record")
	}
	ds, err := newDatasetFromHeader(records[0])
	if err != nil {
		return nil, fmt.Errorf("ReadRecords(): %w", err)
	}
	for i, record := range records[1:] {
		if len(record) != len(ds.cols) {
			return nil, fmt.Errorf("ReadRecords(): %w",
				&MalformedRowError{Line: i + 2, Got: len(record), Want: len(ds.cols)})
		}
		ds.rows = append(ds.rows, parseRecord(record, false))
	}
	return ds, nil
}

func readCSV(r io.Reader, config *readConfig) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = config.Delimiter
	// field counts are checked against the header below to return a *MalformedRowError
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("must have at least one line")
	}
	if err != nil {
		return nil, err
	}
	if config.TrimSpace {
		for k := range header {
			header[k] = strings.TrimSpace(header[k])
		}
	}
	ds, err := newDatasetFromHeader(header)
	if err != nil {
		return nil, err
	}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) != len(ds.cols) {
			line, _ := reader.FieldPos(0)
			return nil, &MalformedRowError{Line: line, Got: len(record), Want: len(ds.cols)}
		}
		ds.rows = append(ds.rows, parseRecord(record, config.TrimSpace))
	}
	return ds, nil
}

func newDatasetFromHeader(header []string) (*Dataset, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("header cannot be empty")
	}
	ds := NewDataset(header, nil)
	if ds.err != nil {
		return nil, fmt.Errorf("reading header: %w", ds.err)
	}
	ds.rows = make([][]Cell, 0)
	return ds, nil
}

func parseRecord(record []string, trimSpace bool) []Cell {
	row := make([]Cell, len(record))
	for k, field := range record {
		if trimSpace {
			field = strings.TrimSpace(field)
		}
		row[k] = parseCell(field)
	}
	return row
}

// A RowScanner is a database cursor that yields each row as a slice of values.
// *sqlx.Rows satisfies RowScanner.
type RowScanner interface {
	Columns() ([]string, error)
	Next() bool
	SliceScan() ([]interface{}, error)
	Err() error
}

var _ RowScanner = (*sqlx.Rows)(nil)

// ReadSQL runs `query` (with placeholder `args`) on `db` and reads the result into a Dataset.
// See ReadSQLRows for how values are converted.
func ReadSQL(db *sqlx.DB, query string, args ...interface{}) (*Dataset, error) {
	return ReadSQLContext(context.Background(), db, query, args...)
}

// ReadSQLContext is ReadSQL with a context that may cancel the query.
func ReadSQLContext(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) (*Dataset, error) {
	rows, err := db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ReadSQL(): %w", err)
	}
	defer rows.Close()
	ds, err := ReadSQLRows(rows)
	if err != nil {
		return nil, fmt.Errorf("ReadSQL(): %w", err)
	}
	return ds, nil
}

// ReadSQLRows reads every row remaining in `rows` into a Dataset, using the cursor's column names as the header.
// Text values are read like csv fields (null sentinels become null cells),
// integers become int cells, floats become float cells, nil becomes null,
// and timestamps are formatted as RFC 3339 strings.
// ReadSQLRows does not close `rows`.
func ReadSQLRows(rows RowScanner) (*Dataset, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("ReadSQLRows(): reading columns: %w", err)
	}
	ds, err := newDatasetFromHeader(cols)
	if err != nil {
		return nil, fmt.Errorf("ReadSQLRows(): %w", err)
	}
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("ReadSQLRows(): row %d: %w", ds.Len(), err)
		}
		if len(vals) != len(cols) {
			return nil, fmt.Errorf("ReadSQLRows(): %w",
				&MalformedRowError{Line: ds.Len() + 1, Got: len(vals), Want: len(cols)})
		}
		row := make([]Cell, len(vals))
		for k := range vals {
			row[k] = cellFromInterface(vals[k])
		}
		ds.rows = append(ds.rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ReadSQLRows(): %w", err)
	}
	return ds, nil
}

func cellFromInterface(v interface{}) Cell {
	switch val := v.(type) {
	case nil:
		return NullCell()
	case []byte:
		return parseCell(string(val))
	case string:
		return parseCell(val)
	case int64:
		return IntCell(val)
	case int32:
		return IntCell(int64(val))
	case int:
		return IntCell(int64(val))
	case float64:
		return FloatCell(val)
	case float32:
		return FloatCell(float64(val))
	case bool:
		return StringCell(strconv.FormatBool(val))
	case time.Time:
		return StringCell(val.Format(time.RFC3339))
	default:
		return StringCell(fmt.Sprint(val))
	}
}

// -- WRITE OPTIONS

// WriteOptionDelimiter configures a write function to use `sep` as a field delimiter (default: ",").
func WriteOptionDelimiter(sep rune) WriteOption {
	return func(w *writeConfig) {
		w.Delimiter = sep
	}
}

// WriteOptionMaxRows configures a write function to write at most `n` rows after the header (default: all rows).
func WriteOptionMaxRows(n int) WriteOption {
	return func(w *writeConfig) {
		w.MaxRows = n
	}
}

func setWriteConfig(options []WriteOption) *writeConfig {
	config := &writeConfig{Delimiter: ',', MaxRows: -1}
	for _, option := range options {
		option(config)
	}
	return config
}

// -- WRITERS

// ToCSV converts the Dataset to [][]string records, with the column names as the first record.
// Unlike Lines(), an empty Dataset still returns its header.
func (ds *Dataset) ToCSV() [][]string {
	if ds.err != nil {
		return nil
	}
	return append([][]string{copyStrings(ds.cols)}, ds.records()...)
}

// records stringifies every row, without the header.
func (ds *Dataset) records() [][]string {
	ret := make([][]string, len(ds.rows))
	for i := range ds.rows {
		ret[i] = make([]string, len(ds.rows[i]))
		for k := range ds.rows[i] {
			ret[i][k] = ds.rows[i][k].String()
		}
	}
	return ret
}

// Lines serializes the Dataset to delimited text: one header line with the column names,
// then one line per row with values in the same order, up to `maxRows` rows (all rows if `maxRows` is negative).
// A field is wrapped in double quotes if it contains `delimiter`, a double quote, or a line break,
// and embedded double quotes are doubled.
//
// An empty Dataset produces no lines at all, not even a header.
func (ds *Dataset) Lines(delimiter rune, maxRows int) []string {
	if ds.err != nil || ds.Len() == 0 {
		return nil
	}
	n := ds.Len()
	if maxRows >= 0 && maxRows < n {
		n = maxRows
	}
	ret := make([]string, 0, n+1)
	ret = append(ret, joinFields(ds.cols, delimiter))
	for _, record := range ds.Slice(0, n).records() {
		ret = append(ret, joinFields(record, delimiter))
	}
	return ret
}

// WriteCSV writes the lines produced by Lines() to `w`, each followed by a newline (configured by `options`).
// Available options: WriteOptionDelimiter, WriteOptionMaxRows.
func (ds *Dataset) WriteCSV(w io.Writer, options ...WriteOption) error {
	if ds.err != nil {
		return fmt.Errorf("WriteCSV(): %w", ds.err)
	}
	config := setWriteConfig(options)
	bw := bufio.NewWriter(w)
	for _, line := range ds.Lines(config.Delimiter, config.MaxRows) {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("WriteCSV(): %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("WriteCSV(): %w", err)
	}
	return nil
}

// ExportCSV writes the Dataset to the file at `path` (configured by `options`), replacing any existing file.
// Available options: WriteOptionDelimiter, WriteOptionMaxRows.
func (ds *Dataset) ExportCSV(path string, options ...WriteOption) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ExportCSV(): %w", err)
	}
	if err := ds.WriteCSV(f, options...); err != nil {
		f.Close()
		return fmt.Errorf("ExportCSV(): %w", err)
	}
	return f.Close()
}
