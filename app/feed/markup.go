package feed

import (
	"html"
	"regexp"
	"strings"
)

var (
	brTagRe          = regexp.MustCompile(`(?i)<br\s*/?>`)
	scriptStyleRe    = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	mediaTagRe       = regexp.MustCompile(`(?i)<(img|video)[^>]*/?\s*>`)
	videoCloseRe     = regexp.MustCompile(`(?i)</video>`)
	anyTagRe         = regexp.MustCompile(`<[^>]+>`)
	horizSpaceRe     = regexp.MustCompile(`[ \t]+`)
	lineLeadSpaceRe  = regexp.MustCompile(`\n[ \t]+`)
	lineTrailSpaceRe = regexp.MustCompile(`[ \t]+\n`)
	multiNewlineRe   = regexp.MustCompile(`\n{3,}`)
)

// CleanHTML flattens feed markup into plain text: entities are decoded,
// line-break tags become newlines, script/style blocks are dropped with their
// contents, media tags are removed (their URLs are extracted separately), all
// remaining tags are stripped and whitespace is normalized.
func CleanHTML(text string) string {
	if text == "" {
		return ""
	}

	text = html.UnescapeString(text)

	text = brTagRe.ReplaceAllString(text, "\n")
	text = scriptStyleRe.ReplaceAllString(text, "")
	text = mediaTagRe.ReplaceAllString(text, "")
	text = videoCloseRe.ReplaceAllString(text, "")
	text = anyTagRe.ReplaceAllString(text, "")

	text = horizSpaceRe.ReplaceAllString(text, " ")
	text = lineLeadSpaceRe.ReplaceAllString(text, "\n")
	text = lineTrailSpaceRe.ReplaceAllString(text, "\n")
	text = multiNewlineRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
