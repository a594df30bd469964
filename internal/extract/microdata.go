package extract

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"github.com/leadsift/peoplescan/internal/model"
	"github.com/leadsift/peoplescan/internal/urlutil"
)

// MicrodataExtractor reads schema.org microdata: any element whose
// itemtype names a Person, with itemprop children for name and jobTitle.
type MicrodataExtractor struct{}

// NewMicrodataExtractor creates the microdata strategy.
func NewMicrodataExtractor() *MicrodataExtractor {
	return &MicrodataExtractor{}
}

// Name returns the strategy name.
func (*MicrodataExtractor) Name() string {
	return "microdata"
}

// Extract walks every Person-typed scope on the page.
func (e *MicrodataExtractor) Extract(_ context.Context, doc *Document) []model.PersonRecord {
	var records []model.PersonRecord
	forEachElement(doc.Root, func(scope *html.Node) {
		if !strings.Contains(strings.ToLower(attr(scope, "itemtype")), "person") {
			return
		}

		name := ""
		if attr(scope, "itemprop") == "name" {
			name = collapseSpace(elementText(scope, " "))
		} else if node := findElement(scope, func(n *html.Node) bool {
			return strings.EqualFold(attr(n, "itemprop"), "name")
		}); node != nil {
			name = collapseSpace(elementText(node, " "))
		}

		title := ""
		if node := findElement(scope, func(n *html.Node) bool {
			return strings.Contains(strings.ToLower(attr(n, "itemprop")), "jobtitle")
		}); node != nil {
			title = collapseSpace(elementText(node, " "))
		}

		profile := ""
		for _, a := range collectElements(scope, func(n *html.Node) bool {
			return n.Data == "a" && attr(n, "href") != ""
		}) {
			if profile = urlutil.NormalizeProfileURL(urlutil.Resolve(doc.URL, attr(a, "href"))); profile != "" {
				break
			}
		}

		email := ""
		if mail := findElement(scope, func(n *html.Node) bool {
			return n.Data == "a" && hasMailtoHref(n)
		}); mail != nil {
			email = CleanEmail(attr(mail, "href")[len("mailto:"):])
		}
		if email == "" {
			email = CleanEmail(elementText(scope, " "))
		}

		appendRecord(&records, name, title, profile, email, doc.URL)
	})
	return records
}
