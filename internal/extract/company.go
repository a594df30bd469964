package extract

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/leadsift/peoplescan/internal/urlutil"
)

// companyURLRE finds profile-network URLs in raw markup, for the
// attribute values and script bodies the DOM walk cannot reach.
var companyURLRE = regexp.MustCompile(`(?i)https?://(?:[a-z0-9-]+\.)?linkedin\.com/[^\s"'<>\]\}\),]+`)

// CompanyProfiles returns the canonicalized company-level profile URLs
// referenced by the page, best first: company and showcase pages outrank
// personal profiles, and shorter URLs outrank longer ones. The raw body
// is scanned in addition to the DOM so URLs buried in data attributes
// and inline JSON are found too.
func CompanyProfiles(doc *Document, rawBody string) []string {
	seen := make(map[string]bool)
	var found []string
	add := func(raw string) {
		normalized := urlutil.NormalizeCompanyURL(urlutil.Resolve(doc.URL, strings.TrimSpace(raw)))
		if normalized != "" && !seen[normalized] {
			seen[normalized] = true
			found = append(found, normalized)
		}
	}

	forEachElement(doc.Root, func(n *html.Node) {
		for _, a := range n.Attr {
			if strings.Contains(strings.ToLower(a.Val), "linkedin.com") {
				add(a.Val)
			}
		}
		if n.Data == "script" && strings.Contains(strings.ToLower(attr(n, "type")), "ld+json") {
			var data any
			if json.Unmarshal([]byte(elementText(n, "")), &data) == nil {
				walkSameAs(data, add)
			}
		}
	})

	for _, m := range companyURLRE.FindAllString(rawBody, -1) {
		add(m)
	}

	sort.SliceStable(found, func(i, j int) bool {
		pi, pj := companyRank(found[i]), companyRank(found[j])
		if pi != pj {
			return pi < pj
		}
		return len(found[i]) < len(found[j])
	})
	return found
}

// walkSameAs visits every sameAs entry in a decoded JSON-LD value.
func walkSameAs(v any, visit func(string)) {
	switch t := v.(type) {
	case map[string]any:
		for _, entry := range structuredStrings(t["sameAs"]) {
			visit(entry)
		}
		for _, nv := range t {
			walkSameAs(nv, visit)
		}
	case []any:
		for _, item := range t {
			walkSameAs(item, visit)
		}
	}
}

func companyRank(u string) int {
	if urlutil.IsCompanyProfile(u) {
		return 0
	}
	return 1
}
