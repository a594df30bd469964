package extract

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/leadsift/peoplescan/internal/model"
	"github.com/leadsift/peoplescan/internal/score"
	"github.com/leadsift/peoplescan/internal/urlutil"
)

// Document is a fetched page parsed for extraction. URL is the final URL
// after redirects; relative references resolve against it.
type Document struct {
	URL  string
	Root *html.Node
}

// ParseDocument parses an HTML body into a Document.
func ParseDocument(pageURL, body string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return &Document{URL: pageURL, Root: root}, nil
}

// Extractor is one extraction strategy. Strategies never fail: a page the
// strategy cannot read simply yields no records.
type Extractor interface {
	// Name returns the strategy's name for logging.
	Name() string

	// Extract returns the person records the strategy finds in doc.
	Extract(ctx context.Context, doc *Document) []model.PersonRecord
}

// ResourceFetcher retrieves the text of a same-origin script resource.
// The second return value is false when the resource was unavailable or
// rejected; the script strategy skips it without error.
type ResourceFetcher interface {
	FetchResource(ctx context.Context, url string) (string, bool)
}

// Extractors returns the full strategy set in its fixed execution order.
// The matcher is shared with scoring so keyword patterns compile once per
// session; fetcher may be nil, which disables external script scanning.
func Extractors(matcher *score.Matcher, fetcher ResourceFetcher) []Extractor {
	return []Extractor{
		NewCardExtractor(),
		NewStructuredDataExtractor(),
		NewMicrodataExtractor(),
		NewAnchorExtractor(),
		NewHeadingExtractor(matcher),
		NewScriptExtractor(fetcher),
	}
}

// ExtractAll runs every strategy against doc and returns the deduplicated
// union of their records.
func ExtractAll(ctx context.Context, doc *Document, extractors []Extractor) []model.PersonRecord {
	var records []model.PersonRecord
	for _, e := range extractors {
		if ctx.Err() != nil {
			break
		}
		records = append(records, e.Extract(ctx, doc)...)
	}
	return Dedupe(records)
}

// appendRecord builds a record from raw strategy output and appends it
// when admissible. The profile link is canonicalized and the email
// deobfuscated here so strategies can pass whatever they found.
func appendRecord(records *[]model.PersonRecord, name, title, profile, email, source string) {
	p := model.PersonRecord{
		Name:        strings.TrimSpace(name),
		Title:       strings.TrimSpace(title),
		ProfileLink: urlutil.NormalizeProfileURL(profile),
		Email:       CleanEmail(email),
		SourcePage:  source,
	}
	if p.Admissible() {
		*records = append(*records, p)
	}
}
