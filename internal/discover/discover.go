package discover

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/leadsift/peoplescan/internal/extract"
	"github.com/leadsift/peoplescan/internal/urlutil"
)

// LikelyTeamPaths are probed on every site regardless of homepage links.
// Dutch variants are included; the scanner's sites skew Dutch.
var LikelyTeamPaths = []string{
	"/team",
	"/teams",
	"/people",
	"/leadership",
	"/our-team",
	"/company/team",
	"/about",
	"/about-us",
	"/about/team",
	"/management",
	"/who-we-are",
	"/board",
	"/crew",
	"/company",
	"/partners",
	"/over-ons",
}

// teamAnchorHintRE marks homepage links worth following, by path or by
// link text.
var teamAnchorHintRE = regexp.MustCompile(
	`(?i)\b(team|people|leadership|management|board|partners|crew|about|` +
		`ons[-\s]?team|over[-\s]?ons|wie\s+zijn\s+wij|organisatie)\b`)

// Discoverer assembles candidate page lists, capped at maxPages.
type Discoverer struct {
	maxPages   int
	extraPaths []string
}

// New creates a Discoverer. A non-positive maxPages still yields the
// site root. extraPaths are probed after the built-in likely paths,
// for sites known to keep people pages in unusual locations.
func New(maxPages int, extraPaths ...string) *Discoverer {
	if maxPages < 1 {
		maxPages = 1
	}
	cleaned := make([]string, 0, len(extraPaths))
	for _, p := range extraPaths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		cleaned = append(cleaned, p)
	}
	return &Discoverer{maxPages: maxPages, extraPaths: cleaned}
}

// CandidatePages returns the ordered, deduplicated candidate list for a
// normalized site URL. The root always comes first, then the likely
// paths, then hinted homepage links. home is the fetched homepage and
// may be nil when it could not be retrieved; its URL is the final URL
// after redirects, so hinted links resolve against where the site
// actually lives.
func (d *Discoverer) CandidatePages(normalizedURL string, home *extract.Document) []string {
	root := urlutil.HostRoot(normalizedURL)
	if root == "" {
		return nil
	}

	candidates := []string{root}
	for _, path := range LikelyTeamPaths {
		candidates = append(candidates, root+path)
	}
	for _, path := range d.extraPaths {
		candidates = append(candidates, root+path)
	}
	if home != nil {
		candidates = append(candidates, hintedLinks(home)...)
	}

	seen := make(map[string]bool, len(candidates))
	cleaned := make([]string, 0, d.maxPages)
	for _, c := range candidates {
		c = urlutil.PageKey(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		cleaned = append(cleaned, c)
		if len(cleaned) >= d.maxPages {
			break
		}
	}
	return cleaned
}

// hintedLinks returns the same-host homepage links whose href or text
// matches the team hint.
func hintedLinks(home *extract.Document) []string {
	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := strings.TrimSpace(anchorHref(n)); href != "" {
				full := urlutil.Resolve(home.URL, href)
				if full != "" && urlutil.SameHost(full, home.URL) {
					if teamAnchorHintRE.MatchString(href) || teamAnchorHintRE.MatchString(anchorText(n)) {
						links = append(links, full)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(home.Root)
	return links
}

func anchorHref(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key == "href" {
			return a.Val
		}
	}
	return ""
}

func anchorText(n *html.Node) string {
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
	return strings.Join(parts, " ")
}
