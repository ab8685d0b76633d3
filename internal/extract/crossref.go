package extract

import (
	"regexp"
	"sort"
)

// cardLinkPattern matches card deep links in raw markup; the scraper
// rewrites absolute catalog links to the relative "/card/<code>" form,
// but absolute ones are accepted too.
var cardLinkPattern = regexp.MustCompile(`(?:arkhamdb\.com)?/card/(\d{5})`)

// RelatedCodes collects card codes linked from the given markup,
// excluding the source card's own code. The result is deduplicated and
// sorted lexicographically; it is never nil so the serialized field is
// always an array.
func RelatedCodes(markup, sourceCode string) []string {
	codes := []string{}
	seen := make(map[string]bool)
	for _, m := range cardLinkPattern.FindAllStringSubmatch(markup, -1) {
		code := m[1]
		if code == sourceCode || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
