package scraper

import (
	"regexp"
	"strings"
)

// DefaultMaxChars caps normalized page text handed to the model.
const DefaultMaxChars = 8000

var (
	scriptBlock = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	styleBlock  = regexp.MustCompile(`(?is)<style\b.*?</style>`)
	anyTag      = regexp.MustCompile(`<[^>]+>`)
	// ASCII whitespace, vertical tab, Unicode separators (NBSP, ideographic space) and BOM.
	whitespaceRun = regexp.MustCompile(`[\s\x0B\p{Z}\x{FEFF}]+`)
)

// NormalizeHTML reduces an HTML document to plain text: script and style
// blocks are dropped, tags become spaces, whitespace runs collapse to one
// space, and the result is trimmed and cut to maxChars runes.
// maxChars <= 0 disables the cut.
func NormalizeHTML(html string, maxChars int) string {
	text := scriptBlock.ReplaceAllString(html, "")
	text = styleBlock.ReplaceAllString(text, "")
	text = anyTag.ReplaceAllString(text, " ")
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	return truncateRunes(text, maxChars)
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
