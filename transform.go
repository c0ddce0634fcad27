package rowkit

import (
	"fmt"
	"regexp"
	"strings"
)

// An ExtractRule derives a new column from text in an existing column.
// Strip finds the text to move out of the existing column.
// Extract, if not nil, narrows the text found by Strip to the value stored in the new column.
type ExtractRule struct {
	Strip   *regexp.Regexp
	Extract *regexp.Regexp
}

// YearInTitle moves a trailing release year out of a title: "Toy Story (1995)" -> "Toy Story", "1995".
var YearInTitle = ExtractRule{
	Strip:   regexp.MustCompile(`\s\(\d{4}\)`),
	Extract: regexp.MustCompile(`\d{4}`),
}

// NewExtractRule compiles the `strip` and `extract` patterns into an ExtractRule.
// If `extract` is empty, the whole text matched by `strip` is extracted.
func NewExtractRule(strip, extract string) (ExtractRule, error) {
	var rule ExtractRule
	var err error
	rule.Strip, err = regexp.Compile(strip)
	if err != nil {
		return ExtractRule{}, fmt.Errorf("NewExtractRule(): `strip`: %w", err)
	}
	if extract != "" {
		rule.Extract, err = regexp.Compile(extract)
		if err != nil {
			return ExtractRule{}, fmt.Errorf("NewExtractRule(): `extract`: %w", err)
		}
	}
	return rule, nil
}

// apply returns the cleaned value and the extracted value (null if nothing was extracted).
func (rule ExtractRule) apply(val string) (string, Cell) {
	match := rule.Strip.FindString(val)
	if match == "" {
		return val, NullCell()
	}
	cleaned := rule.Strip.ReplaceAllString(val, "")
	if rule.Extract == nil {
		return cleaned, StringCell(match)
	}
	extracted := rule.Extract.FindString(match)
	if extracted == "" {
		return cleaned, NullCell()
	}
	return cleaned, StringCell(extracted)
}

// -- SPLIT

// SplitColumn searches each value in `column` for `rule.Strip`.
// If it matches, the extracted text becomes the value of `newColumn` and every match of `rule.Strip` is removed from `column`.
// If it does not match (or the value is null), `newColumn` is null and `column` is unchanged.
// `newColumn` is added after the last column, unless it already exists, in which case its values are replaced.
// Returns a new Dataset.
func (ds *Dataset) SplitColumn(column, newColumn string, rule ExtractRule) *Dataset {
	ds = ds.Copy()
	ds.InPlace().SplitColumn(column, newColumn, rule)
	return ds
}

// SplitColumn searches each value in `column` for `rule.Strip`.
// If it matches, the extracted text becomes the value of `newColumn` and every match of `rule.Strip` is removed from `column`.
// If it does not match (or the value is null), `newColumn` is null and `column` is unchanged.
// Modifies the underlying Dataset in place.
func (ds *DatasetMutator) SplitColumn(column, newColumn string, rule ExtractRule) {
	d := ds.dataset
	if d.err != nil {
		return
	}
	if rule.Strip == nil {
		d.resetWithError(fmt.Errorf("SplitColumn(): `rule` must have a Strip pattern"))
		return
	}
	src, err := findColumn(column, d.cols)
	if err != nil {
		d.resetWithError(fmt.Errorf("SplitColumn(): %w", err))
		return
	}
	var dst int
	d.cols, d.rows, dst = withColumn(d.cols, d.rows, newColumn)
	for i := range d.rows {
		cell := d.rows[i][src]
		if cell.IsNull {
			d.rows[i][dst] = NullCell()
			continue
		}
		cleaned, extracted := rule.apply(cell.String())
		if !extracted.IsNull {
			d.rows[i][src] = StringCell(cleaned)
		}
		d.rows[i][dst] = extracted
	}
}

// -- FACTORIZE

// Factorize replaces each value in `column` with the multi-valued cell obtained by splitting the value on `delimiter`.
// Null values remain null, and values that are already multi-valued are left unchanged.
// Returns a new Dataset.
func (ds *Dataset) Factorize(column, delimiter string) *Dataset {
	ds = ds.Copy()
	ds.InPlace().Factorize(column, delimiter)
	return ds
}

// Factorize replaces each value in `column` with the multi-valued cell obtained by splitting the value on `delimiter`.
// Null values remain null, and values that are already multi-valued are left unchanged.
// Modifies the underlying Dataset in place.
func (ds *DatasetMutator) Factorize(column, delimiter string) {
	d := ds.dataset
	if d.err != nil {
		return
	}
	k, err := findColumn(column, d.cols)
	if err != nil {
		d.resetWithError(fmt.Errorf("Factorize(): %w", err))
		return
	}
	if delimiter == "" {
		d.resetWithError(fmt.Errorf("Factorize(): `delimiter` cannot be empty"))
		return
	}
	for i := range d.rows {
		cell := d.rows[i][k]
		if cell.IsNull {
			continue
		}
		if _, ok := cell.Val.([]string); ok {
			continue
		}
		d.rows[i][k] = MultiCell(strings.Split(cell.String(), delimiter))
	}
}

// DistinctCategories returns every distinct token in `column`, in the order each is first encountered,
// where a token is a `delimiter`-separated part of a value (or an element of a multi-valued cell).
// Null values and empty tokens are ignored.
func (ds *Dataset) DistinctCategories(column, delimiter string) ([]string, error) {
	if ds.err != nil {
		return nil, fmt.Errorf("DistinctCategories(): %w", ds.err)
	}
	k, err := findColumn(column, ds.cols)
	if err != nil {
		return nil, fmt.Errorf("DistinctCategories(): %w", err)
	}
	if delimiter == "" {
		return nil, fmt.Errorf("DistinctCategories(): `delimiter` cannot be empty")
	}
	seen := make(map[string]bool)
	ret := make([]string, 0)
	for i := range ds.rows {
		cell := ds.rows[i][k]
		if cell.IsNull {
			continue
		}
		tokens, ok := cell.Val.([]string)
		if !ok {
			tokens = strings.Split(cell.String(), delimiter)
		}
		for _, token := range tokens {
			if token == "" || seen[token] {
				continue
			}
			seen[token] = true
			ret = append(ret, token)
		}
	}
	return ret, nil
}

// -- NULLS

// NullIf replaces every value in `column` whose text equals `value` with null.
// Returns a new Dataset.
func (ds *Dataset) NullIf(column, value string) *Dataset {
	ds = ds.Copy()
	ds.InPlace().NullIf(column, value)
	return ds
}

// NullIf replaces every value in `column` whose text equals `value` with null.
// Modifies the underlying Dataset in place.
func (ds *DatasetMutator) NullIf(column, value string) {
	d := ds.dataset
	if d.err != nil {
		return
	}
	k, err := findColumn(column, d.cols)
	if err != nil {
		d.resetWithError(fmt.Errorf("NullIf(): %w", err))
		return
	}
	for i := range d.rows {
		if !d.rows[i][k].IsNull && d.rows[i][k].String() == value {
			d.rows[i][k] = NullCell()
		}
	}
}
