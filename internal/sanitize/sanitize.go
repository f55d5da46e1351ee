// Package sanitize removes authoring-only markup from cell sources before
// they reach the block parser.
package sanitize

import (
	"regexp"
	"strings"
)

var htmlCommentRE = regexp.MustCompile(`(?s)<!--.*?-->`)

// StripHTMLComments removes every <!-- ... --> span, including spans covering
// several lines. An unterminated comment swallows the rest of the text.
func StripHTMLComments(src string) string {
	out := htmlCommentRE.ReplaceAllString(src, "")
	if i := strings.Index(out, "<!--"); i >= 0 {
		out = out[:i]
	}
	return out
}
