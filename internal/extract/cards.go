package extract

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/leadsift/peoplescan/internal/model"
	"github.com/leadsift/peoplescan/internal/urlutil"
)

// peopleClassHintRE marks container elements that plausibly hold people
// listings, matched against the class/id/tag blob.
var peopleClassHintRE = regexp.MustCompile(
	`(?i)(team|member|person|people|staff|leadership|management|board|bio|list-team|list-team-inner)`)

// cardClassTokens are the class names that mark an individual person card
// inside a people container.
var cardClassTokens = map[string]bool{
	"list-team-inner": true,
	"team-member":     true,
	"member":          true,
	"person":          true,
	"profile":         true,
	"staff":           true,
	"card":            true,
	"team__item":      true,
	"col":             true,
	"item":            true,
}

// CardExtractor pulls people from card-style team listings: containers
// hinted by class or id, holding one card element per person. Containers
// without recognizable cards fall back to whole-block extraction.
type CardExtractor struct{}

// NewCardExtractor creates the card strategy.
func NewCardExtractor() *CardExtractor {
	return &CardExtractor{}
}

// Name returns the strategy name.
func (*CardExtractor) Name() string {
	return "cards"
}

// Extract walks every hinted container on the page.
func (e *CardExtractor) Extract(_ context.Context, doc *Document) []model.PersonRecord {
	var records []model.PersonRecord
	forEachElement(doc.Root, func(block *html.Node) {
		if !peopleClassHintRE.MatchString(classIDBlob(block)) {
			return
		}
		if e.extractCards(block, doc, &records) > 0 {
			return
		}

		text := collapseSpace(elementText(block, " "))
		if text == "" {
			return
		}
		name := nameFromBlock(block, text)
		title := titleFromBlock(block, text, name)
		profile := profileFromBlock(block, doc.URL)
		email := emailFromBlock(block, text)
		appendRecord(&records, name, title, profile, email, doc.URL)
	})
	return records
}

// isCardNode reports whether an element looks like an individual person
// card: a known card tag, a known card class, or a grid cell.
func isCardNode(n *html.Node) bool {
	if n.Data == "article" || n.Data == "li" {
		return true
	}
	for _, c := range classTokens(n) {
		if cardClassTokens[c] {
			return true
		}
	}
	if n.Data == "div" && n.Parent != nil && n.Parent.Type == html.ElementNode && hasClassToken(n.Parent, "grid") {
		return true
	}
	return false
}

func classTokens(n *html.Node) []string {
	return strings.Fields(attr(n, "class"))
}

// extractCards pulls one record per card under the container and returns
// how many cards produced anything.
func (e *CardExtractor) extractCards(container *html.Node, doc *Document, records *[]model.PersonRecord) int {
	count := 0
	for _, card := range collectElements(container, isCardNode) {
		lines := textLines(card)

		name := ""
		for _, sel := range nameSelectors {
			node := firstSelectorMatch(card, sel)
			if node == nil {
				continue
			}
			cand := collapseSpace(elementText(node, " "))
			if cand != "" && utf8.RuneCountInString(cand) <= 120 {
				name = cand
				break
			}
		}
		if name == "" && len(lines) > 0 {
			name = lines[0]
		}

		title := ""
		if len(lines) >= 2 {
			title = lines[1]
		}
		if title == "" {
			title = firstTagText(card, 3, 120, "em", "small", "span", "p")
		}

		profile := ""
		if a := firstProfileAnchor(card); a != nil {
			profile = urlutil.Resolve(doc.URL, attr(a, "href"))
		}
		email := emailRE.FindString(elementText(card, " "))

		if name != "" || title != "" || profile != "" || email != "" {
			appendRecord(records, name, title, profile, email, doc.URL)
			count++
		}
	}
	return count
}

// nameFromBlock finds a name-like string in a hinted block that had no
// recognizable cards, preferring marked-up name elements over raw text.
func nameFromBlock(block *html.Node, text string) string {
	for _, sel := range blockNameSelectors {
		if node := firstSelectorMatch(block, sel); node != nil {
			cand := collapseSpace(elementText(node, " "))
			if IsNameLike(cand) {
				return cand
			}
		}
	}
	if m := findName(text); IsNameLike(m) {
		return m
	}
	return ""
}

// titleFromBlock finds a title: the capitalized phrase right after the
// name, else the first short em/small/p/span text.
func titleFromBlock(block *html.Node, text, name string) string {
	if title := titleAfterName(text, name); title != "" {
		return title
	}
	return firstTagText(block, 3, 120, "em", "small", "p", "span")
}

// profileFromBlock returns the canonicalized href of the first profile
// anchor in the block, or "".
func profileFromBlock(block *html.Node, baseURL string) string {
	if a := firstProfileAnchor(block); a != nil {
		return urlutil.Resolve(baseURL, attr(a, "href"))
	}
	return ""
}

// emailFromBlock prefers a mailto anchor over addresses in the text blob.
func emailFromBlock(block *html.Node, textBlob string) string {
	mail := findElement(block, func(n *html.Node) bool {
		return n.Data == "a" && hasMailtoHref(n)
	})
	if mail != nil {
		return CleanEmail(attr(mail, "href")[len("mailto:"):])
	}
	return CleanEmail(textBlob)
}
