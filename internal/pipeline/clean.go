package pipeline

import (
	"regexp"
	"strings"
)

// Cleanup rules applied to raw FAQ HTML before it is stored: game
// symbol spans become bracket tokens the extractor can pass through as
// text, catalog links become relative, paragraph tags are unwrapped.
var (
	iconSpanPattern  = regexp.MustCompile(`<span class="icon-([^"]+)"( title="[^"]*")?></span>`)
	cardLinkPattern  = regexp.MustCompile(`https?://arkhamdb\.com/card/`)
	rulesLinkPattern = regexp.MustCompile(`https?://arkhamdb\.com/rules#`)
)

// CleanHTML normalizes one FAQ payload's HTML into the form the
// extraction engine expects.
func CleanHTML(s string) string {
	s = iconSpanPattern.ReplaceAllString(s, "[$1]")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = cardLinkPattern.ReplaceAllString(s, "/card/")
	s = rulesLinkPattern.ReplaceAllString(s, "/rules#")
	s = strings.ReplaceAll(s, "<p>", "")
	s = strings.ReplaceAll(s, "</p>", "")
	return s
}
