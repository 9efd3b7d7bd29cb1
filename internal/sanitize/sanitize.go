// Package sanitize cleans the HTML game descriptions the catalog hands back
// before they are rendered into pages.
package sanitize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

type Sanitizer struct {
	policy *bluemonday.Policy
}

// New builds the description policy: basic text markup only, links forced to
// open in a new tab with no referrer. Scripts, styles, iframes and event
// attributes never pass.
func New() *Sanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em", "b", "i", "h3",
	)

	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	p.AllowRelativeURLs(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	return &Sanitizer{policy: p}
}

// Description returns the sanitized HTML for a game description.
func (s *Sanitizer) Description(rawHTML string) string {
	return s.policy.Sanitize(rawHTML)
}

// Excerpt extracts plain text from a description and trims it to max runes,
// for card and search-result views.
func (s *Sanitizer) Excerpt(rawHTML string, max int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	text := strings.Join(strings.Fields(doc.Text()), " ")
	if max <= 0 || len([]rune(text)) <= max {
		return text
	}

	runes := []rune(text)
	cut := max
	for cut > 0 && runes[cut-1] != ' ' {
		cut--
	}
	if cut == 0 {
		cut = max
	}
	return strings.TrimSpace(string(runes[:cut])) + "…"
}
