package extract

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/leadsift/peoplescan/internal/model"
	"github.com/leadsift/peoplescan/internal/urlutil"
)

// AnchorExtractor reads generic anchors: mailto links become records on
// their own, and profile links are expanded with context from the
// smallest enclosing block that still reads like one person's card.
type AnchorExtractor struct{}

// NewAnchorExtractor creates the anchor strategy.
func NewAnchorExtractor() *AnchorExtractor {
	return &AnchorExtractor{}
}

// Name returns the strategy name.
func (*AnchorExtractor) Name() string {
	return "anchors"
}

// Extract walks every anchor on the page.
func (e *AnchorExtractor) Extract(_ context.Context, doc *Document) []model.PersonRecord {
	var records []model.PersonRecord
	forEachElement(doc.Root, func(a *html.Node) {
		if a.Data != "a" {
			return
		}
		href := attr(a, "href")
		if href == "" {
			return
		}

		if strings.HasPrefix(strings.ToLower(href), "mailto:") {
			name := collapseSpace(elementText(a, " "))
			if email := CleanEmail(href[len("mailto:"):]); email != "" {
				appendRecord(&records, name, "", "", email, doc.URL)
			}
			return
		}
		if !urlutil.IsProfileLink(href) {
			return
		}

		blk := contextBlock(a)
		name := collapseSpace(elementText(a, " "))
		if !IsNameLike(name) {
			for _, sel := range nameSelectors {
				if node := firstSelectorMatch(blk, sel); node != nil {
					if cand := collapseSpace(elementText(node, " ")); IsNameLike(cand) {
						name = cand
						break
					}
				}
			}
		}

		title := ""
		if blockText := collapseSpace(elementText(blk, " ")); blockText != "" {
			title = titleAfterName(blockText, name)
		}
		if title == "" {
			title = firstTagText(blk, 3, 120, "em", "small", "span", "p")
		}

		appendRecord(&records, name, title, urlutil.Resolve(doc.URL, href), "", doc.URL)
	})
	return records
}

// contextBlock widens from the anchor to at most three ancestors, as long
// as the ancestor's text stays short enough to describe a single person.
func contextBlock(a *html.Node) *html.Node {
	blk := a
	for range 3 {
		p := blk.Parent
		if p == nil {
			break
		}
		txt := collapseSpace(elementText(p, " "))
		if txt == "" || utf8.RuneCountInString(txt) > 2000 {
			break
		}
		blk = p
	}
	return blk
}
