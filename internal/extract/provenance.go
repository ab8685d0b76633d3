package extract

import "regexp"

// faqVersionPattern matches source references of the shape
// "FAQ, v.1.7, March 2020" in fragment or segment text. A few accepted
// document names, flexible version punctuation, month-year date.
var faqVersionPattern = regexp.MustCompile(
	`(?i)(FAQ|Official FAQ|Errata Sheet)[,\s]*v?\.?\s*(\d+\.\d+[\w.-]*)\s*,\s*([\w\s]+\s\d{4})`)

// SourceName extracts a canonical "name v.version, month year" source
// name from text, or "" when no reference is present.
func SourceName(text string) string {
	m := faqVersionPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1] + " v." + m[2] + ", " + m[3]
}
