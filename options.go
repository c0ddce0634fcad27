package rowkit

var optionMaxRows = 50
var optionMultiValueSeparator = "|"
var optionNullStrings = []string{"", "NULL"}
var optionNullString = ""

// SetOptionMaxRows sets the number of rows rendered by String() before the table is truncated (default: 50).
func SetOptionMaxRows(n int) {
	optionMaxRows = n
}

// SetOptionMultiValueSeparator sets the separator used to render multi-valued cells as text (default: "|").
func SetOptionMultiValueSeparator(sep string) {
	optionMultiValueSeparator = sep
}

// SetOptionNullStrings sets the text values that are read as null (default: "" and "NULL").
func SetOptionNullStrings(s []string) {
	optionNullStrings = s
}

// SetOptionNullString sets the text that null cells are written as (default: "").
func SetOptionNullString(s string) {
	optionNullString = s
}
