package rowkit

import (
	"fmt"
	"log"
	"regexp"
	"strings"
)

// Column names used by the top-rated movies query.
const (
	ColMovieID = "movieId"
	ColTitle   = "title"
	ColGenres  = "genres"
	ColYear    = "year"
	ColRating  = "rating"
)

// GenreSeparator separates the genres of a movie, and the genres in Query.Genres.
const GenreSeparator = "|"

// NoGenres is the genres value of a movie without genres; it is read as null.
const NoGenres = "(no genres listed)"

// A Query finds the top rated movies from a movies file (movieId, title, genres) and a ratings file (movieId, rating, ...).
// Zero values mean the option was not given.
type Query struct {
	MoviesPath  string
	RatingsPath string
	// TopN is the number of top rated movies returned for each genre.
	TopN int
	// Genres is a GenreSeparator-separated list of genres to return, e.g. "Comedy|Adventure".
	Genres string
	// YearFrom and YearTo are the inclusive bounds of the release year.
	YearFrom int
	YearTo   int
	// TitleRegexp filters on the title (without the release year).
	TitleRegexp string
	// Delimiter separates fields in both input files and in the output (default: ',').
	Delimiter rune
	// Logger, if not nil, receives a message as each stage starts.
	Logger *log.Logger
}

func (q Query) delimiter() rune {
	if q.Delimiter == 0 {
		return ','
	}
	return q.Delimiter
}

func (q Query) logf(format string, args ...interface{}) {
	if q.Logger != nil {
		q.Logger.Printf(format, args...)
	}
}

// fail logs `err` and returns it with the name of the stage that failed.
func (q Query) fail(stage string, err error) error {
	err = fmt.Errorf("%s: %w", stage, err)
	q.logf("error: %v", err)
	return err
}

func (q Query) yearRange() Range {
	switch {
	case q.YearFrom != 0 && q.YearTo != 0:
		return Between(int64(q.YearFrom), int64(q.YearTo))
	case q.YearFrom != 0:
		return AtLeast(int64(q.YearFrom))
	case q.YearTo != 0:
		return AtMost(int64(q.YearTo))
	default:
		return Unbounded()
	}
}

// genrePattern matches `genre` as a whole token in a GenreSeparator-separated list.
func genrePattern(genre string) string {
	sep := regexp.QuoteMeta(GenreSeparator)
	return fmt.Sprintf("(^|%s)%s(%s|$)", sep, regexp.QuoteMeta(genre), sep)
}

func splitGenres(genres string) []string {
	ret := make([]string, 0)
	for _, g := range strings.Split(genres, GenreSeparator) {
		if g = strings.TrimSpace(g); g != "" {
			ret = append(ret, g)
		}
	}
	return ret
}

// RunQuery runs `q` and returns the result as delimited text lines: a header
// (movieId, title, genres, year, rating) followed by one line per movie.
// If the result is empty, no lines are returned.
func RunQuery(q Query) ([]string, error) {
	ds, err := q.Dataset()
	if err != nil {
		return nil, fmt.Errorf("RunQuery(): %w", err)
	}
	q.logf("printing %d movies", ds.Len())
	return ds.Lines(q.delimiter(), -1), nil
}

// Dataset runs `q` and returns the result as a Dataset.
//
// Movies have their release year split out of the title and are joined with the mean rating of each movie
// (rounded to one decimal place; null if the movie has no ratings), then sorted from highest to lowest rating.
// The title and year filters are applied next.
// Finally, if Genres or TopN is given, the result is split by genre
// (each genre in Genres, or else every genre in the result, in order of first appearance),
// each genre keeps its TopN highest rated movies (all of them if TopN is 0),
// and the genres are stacked in order.
func (q Query) Dataset() (*Dataset, error) {
	readOptions := []ReadOption{ReadOptionDelimiter(q.delimiter())}

	q.logf("loading movies from %s", q.MoviesPath)
	movies, err := ImportCSV(q.MoviesPath, readOptions...)
	if err != nil {
		return nil, q.fail("loading movies", err)
	}
	movies.InPlace().SplitColumn(ColTitle, ColYear, YearInTitle)
	movies.InPlace().NullIf(ColGenres, NoGenres)
	movies.InPlace().Sort(Sorter{Name: ColMovieID})
	if err := movies.Err(); err != nil {
		return nil, q.fail("preparing movies", err)
	}

	q.logf("loading ratings from %s", q.RatingsPath)
	ratings, err := ImportCSV(q.RatingsPath, readOptions...)
	if err != nil {
		return nil, q.fail("loading ratings", err)
	}
	ratings.InPlace().Sort(Sorter{Name: ColMovieID})
	ratings = ratings.GroupAggregate(ColMovieID, ColRating, Mean)
	if err := ratings.Err(); err != nil {
		return nil, q.fail("aggregating ratings", err)
	}

	q.logf("joining %d movies with %d rated movies", movies.Len(), ratings.Len())
	ret := movies.LeftOuterJoin(ratings, ColMovieID)
	ret.InPlace().Sort(Sorter{Name: ColRating, Descending: true})
	if err := ret.Err(); err != nil {
		return nil, q.fail("joining ratings", err)
	}

	if q.TitleRegexp != "" {
		q.logf("filtering title by %q", q.TitleRegexp)
		ret.InPlace().FilterContains(ColTitle, q.TitleRegexp)
	}
	if r := q.yearRange(); r.bounded() {
		q.logf("filtering year by %v", r)
		ret.InPlace().FilterRange(ColYear, r)
	}
	if err := ret.Err(); err != nil {
		return nil, q.fail("filtering", err)
	}

	if q.Genres == "" && q.TopN <= 0 {
		return ret, nil
	}
	ret, err = q.topPerGenre(ret)
	if err != nil {
		return nil, q.fail("selecting top movies per genre", err)
	}
	return ret, nil
}

// topPerGenre stacks, for each genre, the first TopN rows of `ds` that have that genre.
// Each branch filters its own copy of `ds`.
func (q Query) topPerGenre(ds *Dataset) (*Dataset, error) {
	genres := splitGenres(q.Genres)
	if len(genres) == 0 {
		var err error
		genres, err = ds.DistinctCategories(ColGenres, GenreSeparator)
		if err != nil {
			return nil, err
		}
	}
	ret := NewDataset(ds.ListColNames(), nil)
	for _, genre := range genres {
		branch := ds.FilterContains(ColGenres, genrePattern(genre))
		if q.TopN > 0 {
			branch.InPlace().Slice(0, q.TopN)
		}
		q.logf("genre %s: %d movies", genre, branch.Len())
		ret.InPlace().Append(branch)
	}
	return ret, ret.Err()
}
