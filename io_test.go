package rowkit

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
)

func TestReadCSVFromString(t *testing.T) {
	type args struct {
		data    string
		options []ReadOption
	}
	tests := []struct {
		name    string
		args    args
		want    *Dataset
		wantErr bool
	}{
		{"pass", args{"movieId,title\n1,Heat (1995)\n", nil},
			&Dataset{
				cols: []string{"movieId", "title"},
				rows: [][]Cell{{StringCell("1"), StringCell("Heat (1995)")}}},
			false},
		{"quoted delimiter", args{"movieId,title\n7,\"American President, The (1995)\"\n", nil},
			&Dataset{
				cols: []string{"movieId", "title"},
				rows: [][]Cell{{StringCell("7"), StringCell("American President, The (1995)")}}},
			false},
		{"null sentinels", args{"a,b,c\n,NULL,x\n", nil},
			&Dataset{
				cols: []string{"a", "b", "c"},
				rows: [][]Cell{{NullCell(), NullCell(), StringCell("x")}}},
			false},
		{"header only", args{"a,b\n", nil},
			&Dataset{cols: []string{"a", "b"}, rows: [][]Cell{}},
			false},
		{"delimiter", args{"a;b\n1;x,y\n", []ReadOption{ReadOptionDelimiter(';')}},
			&Dataset{
				cols: []string{"a", "b"},
				rows: [][]Cell{{StringCell("1"), StringCell("x,y")}}},
			false},
		{"trim space", args{" a , b \n 1 , x \n", []ReadOption{ReadOptionTrimSpace()}},
			&Dataset{
				cols: []string{"a", "b"},
				rows: [][]Cell{{StringCell("1"), StringCell("x")}}},
			false},
		{"fail: empty", args{"", nil}, nil, true},
		{"fail: duplicate header", args{"a,a\n1,2\n", nil}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadCSVFromString(tt.args.data, tt.args.options...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadCSVFromString() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadCSVFromString() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestReadCSV_malformedRow(t *testing.T) {
	tests := []struct {
		name string
		data string
		want MalformedRowError
	}{
		{"too few fields", "a,b\n1,2\n3\n", MalformedRowError{Line: 3, Got: 1, Want: 2}},
		{"too many fields", "a,b\n1,2,3\n", MalformedRowError{Line: 2, Got: 3, Want: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.data))
			var got *MalformedRowError
			if !errors.As(err, &got) {
				t.Fatalf("ReadCSV() error = %v, want *MalformedRowError", err)
			}
			if *got != tt.want {
				t.Errorf("ReadCSV() error = %v, want %v", *got, tt.want)
			}
		})
	}
}

func TestReadRecords(t *testing.T) {
	got, err := ReadRecords([][]string{{"a", "b"}, {"1", ""}})
	if err != nil {
		t.Fatalf("ReadRecords() error = %v", err)
	}
	want := &Dataset{cols: []string{"a", "b"}, rows: [][]Cell{{StringCell("1"), NullCell()}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadRecords() = %#v, want %#v", got, want)
	}

	_, err = ReadRecords([][]string{{"a", "b"}, {"1"}})
	var malformed *MalformedRowError
	if !errors.As(err, &malformed) || malformed.Line != 2 {
		t.Errorf("ReadRecords() error = %v, want *MalformedRowError on line 2", err)
	}
	if _, err := ReadRecords(nil); err == nil {
		t.Errorf("ReadRecords(nil) error = nil, want error")
	}
}

func TestImportCSV(t *testing.T) {
	ds, err := ImportCSV(filepath.Join("testdata", "movies.csv"))
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if got := ds.ListColNames(); !reflect.DeepEqual(got, []string{"movieId", "title", "genres"}) {
		t.Errorf("ImportCSV() columns = %v, want [movieId title genres]", got)
	}
	if ds.Len() != 10 {
		t.Errorf("ImportCSV() Len() = %v, want 10", ds.Len())
	}

	_, err = ImportCSV(filepath.Join("testdata", "missing.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ImportCSV() error = %v, want os.ErrNotExist", err)
	}
}

func TestDataset_Lines(t *testing.T) {
	type args struct {
		delimiter rune
		maxRows   int
	}
	tests := []struct {
		name string
		data string
		args args
		want []string
	}{
		{"pass", "a,b\n1,x\n2,\n", args{',', -1},
			[]string{"a,b", "1,x", "2,"}},
		{"quotes delimiter", "title,year\n\"American President, The\",1995\n", args{',', -1},
			[]string{"title,year", `"American President, The",1995`}},
		{"quotes embedded quote", "title\n\"Say \"\"Anything\"\"\"\n", args{',', -1},
			[]string{"title", `"Say ""Anything"""`}},
		{"other delimiter", "title,year\n\"American President, The\",1995\n", args{';', -1},
			[]string{"title;year", "American President, The;1995"}},
		{"max rows", "a\n1\n2\n3\n", args{',', 2},
			[]string{"a", "1", "2"}},
		{"empty", "a,b\n", args{',', -1}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := mustReadCSV(t, tt.data)
			if got := ds.Lines(tt.args.delimiter, tt.args.maxRows); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Dataset.Lines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDataset_Lines_nullString(t *testing.T) {
	archive := optionNullString
	defer func() { optionNullString = archive }()
	SetOptionNullString("NULL")

	ds := mustReadCSV(t, "a,b\n1,\n")
	want := []string{"a,b", "1,NULL"}
	if got := ds.Lines(',', -1); !reflect.DeepEqual(got, want) {
		t.Errorf("Dataset.Lines() = %q, want %q", got, want)
	}
}

func TestDataset_WriteCSV_roundTrip(t *testing.T) {
	data := "movieId,title,genres\n" +
		"7,\"American President, The\",Comedy|Drama\n" +
		"9,\"Say \"\"Anything\"\"\",\n"
	ds := mustReadCSV(t, data)
	var buf bytes.Buffer
	if err := ds.WriteCSV(&buf); err != nil {
		t.Fatalf("Dataset.WriteCSV() error = %v", err)
	}
	got := mustReadCSV(t, buf.String())
	if !reflect.DeepEqual(got, ds) {
		t.Errorf("round trip = %v, want %v", got, ds)
	}
}

func TestDataset_WriteCSV_options(t *testing.T) {
	ds := mustReadCSV(t, "a,b\n1,x\n2,y\n")
	var buf bytes.Buffer
	if err := ds.WriteCSV(&buf, WriteOptionDelimiter('\t'), WriteOptionMaxRows(1)); err != nil {
		t.Fatalf("Dataset.WriteCSV() error = %v", err)
	}
	if got, want := buf.String(), "a\tb\n1\tx\n"; got != want {
		t.Errorf("Dataset.WriteCSV() = %q, want %q", got, want)
	}
}

func TestDataset_ExportCSV(t *testing.T) {
	ds := mustReadCSV(t, "a,b\n1,x\n")
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := ds.ExportCSV(path); err != nil {
		t.Fatalf("Dataset.ExportCSV() error = %v", err)
	}
	got, err := ImportCSV(path)
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if !reflect.DeepEqual(got, ds) {
		t.Errorf("ExportCSV() then ImportCSV() = %v, want %v", got, ds)
	}
}

// fakeRows is an in-memory RowScanner.
type fakeRows struct {
	cols []string
	vals [][]interface{}
	pos  int
	err  error
}

func (r *fakeRows) Columns() ([]string, error) { return r.cols, nil }

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos <= len(r.vals)
}

func (r *fakeRows) SliceScan() ([]interface{}, error) { return r.vals[r.pos-1], nil }

func (r *fakeRows) Err() error { return r.err }

func TestReadSQLRows(t *testing.T) {
	ts := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := &fakeRows{
		cols: []string{"movieId", "title", "rating", "watched", "at"},
		vals: [][]interface{}{
			{int64(1), []byte("Toy Story"), 4.5, true, ts},
			{int64(2), "NULL", nil, false, nil},
		},
	}
	got, err := ReadSQLRows(rows)
	if err != nil {
		t.Fatalf("ReadSQLRows() error = %v", err)
	}
	want := &Dataset{
		cols: []string{"movieId", "title", "rating", "watched", "at"},
		rows: [][]Cell{
			{IntCell(1), StringCell("Toy Story"), FloatCell(4.5), StringCell("true"), StringCell("2020-01-02T03:04:05Z")},
			{IntCell(2), NullCell(), NullCell(), StringCell("false"), NullCell()},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadSQLRows() = %#v, want %#v", got, want)
	}
}

func TestReadSQLRows_err(t *testing.T) {
	rows := &fakeRows{cols: []string{"a"}, err: sql.ErrConnDone}
	_, err := ReadSQLRows(rows)
	if !errors.Is(err, sql.ErrConnDone) {
		t.Errorf("ReadSQLRows() error = %v, want %v", err, sql.ErrConnDone)
	}
}

// memDriver is a read-only database/sql driver serving the tables in memTables, keyed by query text.
// A query with one argument returns only the rows whose first value equals it.
type memDriver struct{}

type memTable struct {
	cols []string
	vals [][]driver.Value
}

var memTables = map[string]memTable{
	"SELECT movieId, title, rating FROM movies": {
		cols: []string{"movieId", "title", "rating"},
		vals: [][]driver.Value{
			{int64(1), []byte("Toy Story"), 4.5},
			{int64(2), "Jumanji", nil},
		},
	},
	"SELECT movieId, title, rating FROM movies WHERE movieId = ?": {
		cols: []string{"movieId", "title", "rating"},
		vals: [][]driver.Value{
			{int64(1), []byte("Toy Story"), 4.5},
			{int64(2), "Jumanji", nil},
		},
	},
}

func init() {
	sql.Register("rowkit_mem", memDriver{})
}

func (memDriver) Open(name string) (driver.Conn, error) { return memConn{}, nil }

type memConn struct{}

func (memConn) Prepare(query string) (driver.Stmt, error) { return memStmt{query: query}, nil }

func (memConn) Close() error { return nil }

func (memConn) Begin() (driver.Tx, error) { return nil, errors.New("transactions not supported") }

type memStmt struct {
	query string
}

func (memStmt) Close() error { return nil }

func (memStmt) NumInput() int { return -1 }

func (memStmt) Exec(args []driver.Value) (driver.Result, error) {
	return nil, errors.New("read only")
}

func (s memStmt) Query(args []driver.Value) (driver.Rows, error) {
	table, ok := memTables[s.query]
	if !ok {
		return nil, fmt.Errorf("no such table: %s", s.query)
	}
	rows := &memRows{cols: table.cols}
	for _, vals := range table.vals {
		if len(args) == 1 && vals[0] != args[0] {
			continue
		}
		rows.vals = append(rows.vals, vals)
	}
	return rows, nil
}

type memRows struct {
	cols []string
	vals [][]driver.Value
	pos  int
}

func (r *memRows) Columns() []string { return r.cols }

func (r *memRows) Close() error { return nil }

func (r *memRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.vals) {
		return io.EOF
	}
	copy(dest, r.vals[r.pos])
	r.pos++
	return nil
}

func openMemDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sql.Open("rowkit_mem", "")
	if err != nil {
		t.Fatalf("sql.Open(): %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "rowkit_mem")
}

func TestReadSQL(t *testing.T) {
	type args struct {
		query string
		args  []interface{}
	}
	tests := []struct {
		name    string
		args    args
		want    [][]string
		wantErr bool
	}{
		{"all rows", args{"SELECT movieId, title, rating FROM movies", nil},
			[][]string{{"movieId", "title", "rating"}, {"1", "Toy Story", "4.5"}, {"2", "Jumanji", ""}}, false},
		{"placeholder", args{"SELECT movieId, title, rating FROM movies WHERE movieId = ?", []interface{}{2}},
			[][]string{{"movieId", "title", "rating"}, {"2", "Jumanji", ""}}, false},
		{"fail: bad query", args{"SELECT * FROM users", nil}, nil, true},
	}
	db := openMemDB(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadSQL(db, tt.args.query, tt.args.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadSQL() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				checkCSV(t, "ReadSQL()", got, tt.want)
			}
		})
	}
}

func TestReadSQL_typedCells(t *testing.T) {
	got, err := ReadSQL(openMemDB(t), "SELECT movieId, title, rating FROM movies")
	if err != nil {
		t.Fatalf("ReadSQL() error = %v", err)
	}
	want := []Cell{IntCell(1), StringCell("Toy Story"), FloatCell(4.5)}
	if row := got.Row(0).Cells(); !reflect.DeepEqual(row, want) {
		t.Errorf("ReadSQL() first row = %#v, want %#v", row, want)
	}
}

func TestReadSQLContext_canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReadSQLContext(ctx, openMemDB(t), "SELECT movieId, title, rating FROM movies")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ReadSQLContext() error = %v, want %v", err, context.Canceled)
	}
}

func ExampleDataset_WriteCSV() {
	ds, _ := ReadCSVFromString("title,rating\n\"American President, The\",4.3\nHeat,\n")
	ds.WriteCSV(os.Stdout, WriteOptionDelimiter(','))
	fmt.Println(ds.Len())
	// Output:
	// title,rating
	// "American President, The",4.3
	// Heat,
	// 2
}
