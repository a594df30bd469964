package extract

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"github.com/leadsift/peoplescan/internal/model"
	"github.com/leadsift/peoplescan/internal/score"
	"github.com/leadsift/peoplescan/internal/urlutil"
)

// HeadingExtractor reads headings whose surrounding text mentions a
// decision-maker role: the heading plus its next sibling form the block,
// the first name-shaped string becomes the name, and the heading text
// itself becomes the title.
type HeadingExtractor struct {
	matcher *score.Matcher
}

// NewHeadingExtractor creates the heading strategy sharing the session's
// keyword matcher.
func NewHeadingExtractor(matcher *score.Matcher) *HeadingExtractor {
	if matcher == nil {
		matcher = score.NewMatcher()
	}
	return &HeadingExtractor{matcher: matcher}
}

// Name returns the strategy name.
func (*HeadingExtractor) Name() string {
	return "headings"
}

// Extract walks every h1-h4 on the page.
func (e *HeadingExtractor) Extract(_ context.Context, doc *Document) []model.PersonRecord {
	var records []model.PersonRecord
	forEachElement(doc.Root, func(h *html.Node) {
		switch h.Data {
		case "h1", "h2", "h3", "h4":
		default:
			return
		}

		headingText := collapseSpace(elementText(h, " "))
		blockText := headingText
		sibling := nextElementSibling(h)
		if sibling != nil {
			blockText += " " + collapseSpace(elementText(sibling, " "))
		}
		blockText = collapseSpace(blockText)
		if blockText == "" {
			return
		}
		if !e.matcher.ContainsDecisionKeyword(strings.ToLower(blockText)) {
			return
		}

		name := findName(blockText)

		profile := ""
		anchor := firstProfileAnchor(h)
		if anchor == nil && sibling != nil {
			anchor = firstProfileAnchor(sibling)
		}
		if anchor != nil {
			profile = urlutil.Resolve(doc.URL, attr(anchor, "href"))
		}

		appendRecord(&records, name, headingText, profile, blockText, doc.URL)
	})
	return records
}
