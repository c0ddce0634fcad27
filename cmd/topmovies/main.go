// Command topmovies prints the top rated movies of a MovieLens-style dataset.
//
// Usage:
//
//	topmovies [-config config.yaml] [-table] [-n N] [-g "Comedy|Drama"] [-f YEAR] [-t YEAR] [-r REGEXP]
//
// The movies and ratings files are read from the data folder named in the config file.
// Output is one delimited line per movie (movieId, title, genres, year, rating),
// sorted from highest to lowest rating within each genre.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/ptiger10/rowkit"
)

var (
	fConfig = flag.String("config", "", "path to a YAML config file")
	fTable  = flag.Bool("table", false, "print an ASCII table instead of delimited lines")
)

var (
	fTopN     int
	fGenres   string
	fYearFrom int
	fYearTo   int
	fRegexp   string
)

func init() {
	flag.IntVar(&fTopN, "n", 0, "the number of top rated movies for each genre (example: 3)")
	flag.IntVar(&fTopN, "topN", 0, "same as -n")
	flag.StringVar(&fGenres, "g", "", `genres to filter by, separated by "|" (example: "Comedy|Adventure")`)
	flag.StringVar(&fGenres, "genres", "", "same as -g")
	flag.IntVar(&fYearFrom, "f", 0, "the first release year (example: 1980)")
	flag.IntVar(&fYearFrom, "year_from", 0, "same as -f")
	flag.IntVar(&fYearTo, "t", 0, "the last release year (example: 2010)")
	flag.IntVar(&fYearTo, "year_to", 0, "same as -t")
	flag.StringVar(&fRegexp, "r", "", "a regular expression to filter titles by (example: Love)")
	flag.StringVar(&fRegexp, "regexp", "", "same as -r")
}

func oops(stage string, err error) {
	color.New(color.FgRed).Fprintf(os.Stderr, "ERROR [%s] %s\n", stage, err)
	os.Exit(1)
}

// options are the query arguments passed on the command line.
type options struct {
	TopN        int
	Genres      string
	YearFrom    int
	YearTo      int
	TitleRegexp string
}

func (o options) hasQuery() bool {
	return o.TopN != 0 || o.Genres != "" || o.YearFrom != 0 || o.YearTo != 0 || o.TitleRegexp != ""
}

func newQuery(cfg Config, opts options) (rowkit.Query, error) {
	delim, err := cfg.delimiter()
	if err != nil {
		return rowkit.Query{}, err
	}
	if opts.TopN < 0 {
		return rowkit.Query{}, fmt.Errorf("topN must not be negative: %d", opts.TopN)
	}
	return rowkit.Query{
		MoviesPath:  cfg.moviesPath(),
		RatingsPath: cfg.ratingsPath(),
		TopN:        opts.TopN,
		Genres:      opts.Genres,
		YearFrom:    opts.YearFrom,
		YearTo:      opts.YearTo,
		TitleRegexp: opts.TitleRegexp,
		Delimiter:   delim,
	}, nil
}

// run writes the result of `q` to `w`, as delimited lines or, if `table` is true, as an ASCII table.
func run(q rowkit.Query, table bool, w io.Writer) error {
	if table {
		ds, err := q.Dataset()
		if err != nil {
			return err
		}
		rowkit.SetOptionMaxRows(ds.Len())
		_, err = fmt.Fprint(w, ds)
		return err
	}
	lines, err := rowkit.RunQuery(q)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	flag.Parse()
	opts := options{
		TopN:        fTopN,
		Genres:      fGenres,
		YearFrom:    fYearFrom,
		YearTo:      fYearTo,
		TitleRegexp: fRegexp,
	}
	if !opts.hasQuery() {
		fmt.Println("Pass arguments")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*fConfig)
	if err != nil {
		oops("config", err)
	}
	logs, err := openLoggers(cfg.Logging)
	if err != nil {
		oops("logging", err)
	}
	defer logs.Close()

	q, err := newQuery(cfg, opts)
	if err != nil {
		oops("arguments", err)
	}
	q.Logger = logs.debug

	start := time.Now()
	logs.info.Printf("Start: %+v", opts)
	if err := run(q, *fTable, os.Stdout); err != nil {
		logs.info.Printf("Failed: %v", err)
		logs.Close()
		oops("query", err)
	}
	logs.info.Printf("Finish in %.4f secs", time.Since(start).Seconds())
}
