package extract

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// attr retrieves an attribute value from an HTML node.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// forEachElement visits every element node under root in document order,
// including root itself when it is an element.
func forEachElement(root *html.Node, visit func(*html.Node)) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			visit(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

// findElement returns the first descendant element of root (excluding
// root itself) for which pred holds, or nil.
func findElement(root *html.Node, pred func(*html.Node) bool) *html.Node {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && pred(c) {
				found = c
				return true
			}
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return found
}

// collectElements returns all descendant elements of root (excluding
// root itself) for which pred holds, in document order.
func collectElements(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && pred(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

// elementText concatenates the trimmed text fragments under n, joined by
// sep. Empty fragments are dropped.
func elementText(n *html.Node, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, sep)
}

// textLines returns the non-empty trimmed text lines under n, one per
// text fragment.
func textLines(n *html.Node) []string {
	joined := elementText(n, "\n")
	if joined == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(joined, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// nextElementSibling returns the next sibling of n that is an element.
func nextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// hasClassToken reports whether n's class attribute contains token as a
// whole class name.
func hasClassToken(n *html.Node, token string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == token {
			return true
		}
	}
	return false
}

// classIDBlob joins the node's class list, id, and tag name into one
// string for hint matching.
func classIDBlob(n *html.Node) string {
	return attr(n, "class") + " " + attr(n, "id") + " " + n.Data
}

// selector identifies elements either by tag name or by class token.
type selector struct {
	tag   string
	class string
}

func (s selector) matches(n *html.Node) bool {
	if s.tag != "" {
		return n.Data == s.tag
	}
	return hasClassToken(n, s.class)
}

// firstSelectorMatch returns the first descendant of root matching sel.
func firstSelectorMatch(root *html.Node, sel selector) *html.Node {
	return findElement(root, sel.matches)
}

// nameSelectors locate the name element inside a people card, in priority
// order: headings and bold text first, then the usual name classes.
var nameSelectors = []selector{
	{tag: "h1"}, {tag: "h2"}, {tag: "h3"}, {tag: "h4"},
	{tag: "strong"}, {tag: "b"},
	{class: "name"}, {class: "person-name"}, {class: "member-name"},
	{class: "team__name"}, {class: "profile-name"},
}

// blockNameSelectors are the same elements in the order used for
// whole-block extraction, where bold text outranks headings.
var blockNameSelectors = []selector{
	{tag: "strong"}, {tag: "b"},
	{tag: "h1"}, {tag: "h2"}, {tag: "h3"}, {tag: "h4"},
	{class: "name"}, {class: "team__name"}, {class: "member-name"},
	{class: "person-name"}, {class: "profile-name"},
}

// firstTagText returns the collapsed text of the first descendant with
// one of the given tag names whose length falls within [minLen, maxLen],
// or "".
func firstTagText(root *html.Node, minLen, maxLen int, tags ...string) string {
	node := findElement(root, func(n *html.Node) bool {
		for _, t := range tags {
			if n.Data == t {
				return true
			}
		}
		return false
	})
	if node == nil {
		return ""
	}
	text := collapseSpace(elementText(node, " "))
	if l := utf8.RuneCountInString(text); l < minLen || l > maxLen {
		return ""
	}
	return text
}

// hasMailtoHref reports whether n carries a mailto: href.
func hasMailtoHref(n *html.Node) bool {
	return strings.HasPrefix(strings.ToLower(attr(n, "href")), "mailto:")
}

// firstProfileAnchor returns the first descendant anchor whose href looks
// like a profile link, or nil.
func firstProfileAnchor(root *html.Node) *html.Node {
	return findElement(root, func(n *html.Node) bool {
		return n.Data == "a" && strings.Contains(strings.ToLower(attr(n, "href")), "linkedin.com")
	})
}
