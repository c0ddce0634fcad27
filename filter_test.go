package rowkit

import (
	"testing"
)

func TestDataset_FilterContains(t *testing.T) {
	data := "id,genres\n1,Comedy|Drama\n2,\n3,Action\n4,Dark Comedy\n"
	tests := []struct {
		name    string
		column  string
		pattern string
		want    [][]string
		wantErr bool
	}{
		{"substring", "genres", "Comedy",
			[][]string{{"id", "genres"}, {"1", "Comedy|Drama"}, {"4", "Dark Comedy"}}, false},
		{"regexp", "genres", "^(Action|Dark)",
			[][]string{{"id", "genres"}, {"3", "Action"}, {"4", "Dark Comedy"}}, false},
		{"invalid regexp is literal", "genres", "Comedy|(",
			[][]string{{"id", "genres"}}, false},
		{"no match", "genres", "Western",
			[][]string{{"id", "genres"}}, false},
		{"fail: missing column", "title", "x", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustReadCSV(t, data).FilterContains(tt.column, tt.pattern)
			if (got.Err() != nil) != tt.wantErr {
				t.Errorf("Dataset.FilterContains() error = %v, wantErr %v", got.Err(), tt.wantErr)
				return
			}
			if !tt.wantErr {
				checkCSV(t, "Dataset.FilterContains()", got, tt.want)
			}
		})
	}
}

func TestDataset_FilterContains_multiValued(t *testing.T) {
	ds := mustReadCSV(t, "id,genres\n1,Comedy|Drama\n2,Dramatic\n3,\n").Factorize("genres", "|")
	got := ds.FilterContains("genres", "^Drama$")
	checkCSV(t, "Dataset.FilterContains()", got, [][]string{{"id", "genres"}, {"1", "Comedy|Drama"}})
}

func TestDataset_FilterRange(t *testing.T) {
	data := "id,year\na,1989\nb,1990\nc,1991\nd,\ne,unknown\nf,1990.0\n"
	tests := []struct {
		name string
		r    Range
		want [][]string
	}{
		{"single year", Between(1990, 1990),
			[][]string{{"id", "year"}, {"b", "1990"}, {"f", "1990.0"}}},
		{"inclusive", Between(1989, 1991),
			[][]string{{"id", "year"}, {"a", "1989"}, {"b", "1990"}, {"c", "1991"}, {"f", "1990.0"}}},
		{"inverted", Between(1991, 1989),
			[][]string{{"id", "year"}}},
		{"at least", AtLeast(1991),
			[][]string{{"id", "year"}, {"c", "1991"}}},
		{"at most", AtMost(1989),
			[][]string{{"id", "year"}, {"a", "1989"}}},
		{"unbounded keeps every row", Unbounded(),
			[][]string{{"id", "year"}, {"a", "1989"}, {"b", "1990"}, {"c", "1991"}, {"d", ""}, {"e", "unknown"}, {"f", "1990.0"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustReadCSV(t, data).FilterRange("year", tt.r)
			checkCSV(t, "Dataset.FilterRange()", got, tt.want)
		})
	}
	if got := mustReadCSV(t, data).FilterRange("release", Between(1, 2)); got.Err() == nil {
		t.Errorf("Dataset.FilterRange() missing column: want error, got nil")
	}
}

func TestDataset_FilterRange_outOfIntRange(t *testing.T) {
	data := "id,year\na,1990\nb,1e30\nc,9223372036854775808\nd,-1e19\ne,-9223372036854775808\n"
	tests := []struct {
		name string
		r    Range
		want [][]string
	}{
		{"at most", AtMost(2000),
			[][]string{{"id", "year"}, {"a", "1990"}, {"e", "-9223372036854775808"}}},
		{"at least", AtLeast(0),
			[][]string{{"id", "year"}, {"a", "1990"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustReadCSV(t, data).FilterRange("year", tt.r)
			checkCSV(t, "Dataset.FilterRange()", got, tt.want)
		})
	}
}

func TestRange_String(t *testing.T) {
	tests := []struct {
		r    Range
		want string
	}{
		{Between(1990, 2000), "[1990, 2000]"},
		{AtLeast(1990), "[1990, +inf]"},
		{AtMost(2000), "[-inf, 2000]"},
		{Unbounded(), "[-inf, +inf]"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("Range.String() = %v, want %v", got, tt.want)
		}
	}
}

func TestDatasetMutator_FilterContains(t *testing.T) {
	ds := mustReadCSV(t, "id,title\n1,Heat\n2,Jumanji\n")
	ds.InPlace().FilterContains("title", "ea")
	checkCSV(t, "DatasetMutator.FilterContains()", ds, [][]string{{"id", "title"}, {"1", "Heat"}})
}
