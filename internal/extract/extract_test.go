package extract

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/leadsift/peoplescan/internal/model"
	"github.com/leadsift/peoplescan/internal/score"
)

const pageURL = "https://example.com/team"

func parseDoc(t *testing.T, body string) *Document {
	t.Helper()

	doc, err := ParseDocument(pageURL, body)
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	return doc
}

// TestCardExtractor tests card-style team listings.
func TestCardExtractor(t *testing.T) {
	t.Parallel()

	t.Run("cards inside hinted container", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body>
<div class="team">
  <article>
    <h3>Jane Doe</h3>
    <p>Chief Executive Officer</p>
    <a href="https://nl.linkedin.com/in/jane-doe/">LinkedIn</a>
  </article>
  <article>
    <h3>John Smith</h3>
    <p>Chief Technology Officer</p>
    <span>john@example.com</span>
  </article>
</div>
</body></html>`)

		got := NewCardExtractor().Extract(context.Background(), doc)
		want := []model.PersonRecord{
			{
				Name:        "Jane Doe",
				Title:       "Chief Executive Officer",
				ProfileLink: "https://www.linkedin.com/in/jane-doe",
				SourcePage:  pageURL,
			},
			{
				Name:       "John Smith",
				Title:      "Chief Technology Officer",
				Email:      "john@example.com",
				SourcePage: pageURL,
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("records mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("block fallback without cards", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body>
<div class="bio"><strong>Erik van der Berg</strong><em>Managing Director</em></div>
</body></html>`)

		got := NewCardExtractor().Extract(context.Background(), doc)
		want := []model.PersonRecord{
			{Name: "Erik van der Berg", Title: "Managing Director", SourcePage: pageURL},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("records mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unhinted markup yields nothing", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><div class="pricing"><h3>Plans</h3></div></body></html>`)
		if got := NewCardExtractor().Extract(context.Background(), doc); len(got) != 0 {
			t.Errorf("expected no records, got %v", got)
		}
	})
}

// TestStructuredDataExtractor tests JSON-LD Person parsing.
func TestStructuredDataExtractor(t *testing.T) {
	t.Parallel()

	t.Run("person in graph", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><head><script type="application/ld+json">
{"@context": "https://schema.org", "@graph": [
  {"@type": "Organization", "name": "Example BV"},
  {"@type": "Person", "name": "Jane Doe", "jobTitle": "Chief Executive Officer",
   "email": "jane@example.com",
   "sameAs": ["https://twitter.com/janedoe", "https://nl.linkedin.com/in/jane-doe/"]}
]}
</script></head><body></body></html>`)

		got := NewStructuredDataExtractor().Extract(context.Background(), doc)
		want := []model.PersonRecord{
			{
				Name:        "Jane Doe",
				Title:       "Chief Executive Officer",
				ProfileLink: "https://www.linkedin.com/in/jane-doe",
				Email:       "jane@example.com",
				SourcePage:  pageURL,
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("records mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("repairs malformed blocks", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><head><script type="application/ld+json">
{"@type": "Person", "name": "John Smith", "jobTitle": "Chief Technology Officer",}
</script></head><body></body></html>`)

		got := NewStructuredDataExtractor().Extract(context.Background(), doc)
		if len(got) != 1 || got[0].Name != "John Smith" {
			t.Fatalf("expected repaired block to yield John Smith, got %v", got)
		}
	})

	t.Run("non-person types ignored", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><head><script type="application/ld+json">
{"@type": "Organization", "name": "Example BV"}
</script></head><body></body></html>`)

		if got := NewStructuredDataExtractor().Extract(context.Background(), doc); len(got) != 0 {
			t.Errorf("expected no records, got %v", got)
		}
	})
}

// TestMicrodataExtractor tests schema.org microdata parsing.
func TestMicrodataExtractor(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body>
<div itemscope itemtype="https://schema.org/Person">
  <span itemprop="name">Jane Doe</span>
  <span itemprop="jobTitle">Chief Executive Officer</span>
  <a href="https://nl.linkedin.com/in/jane-doe/">profile</a>
  <a href="mailto:jane@example.com">mail</a>
</div>
</body></html>`)

	got := NewMicrodataExtractor().Extract(context.Background(), doc)
	want := []model.PersonRecord{
		{
			Name:        "Jane Doe",
			Title:       "Chief Executive Officer",
			ProfileLink: "https://www.linkedin.com/in/jane-doe",
			Email:       "jane@example.com",
			SourcePage:  pageURL,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

// TestAnchorExtractor tests mailto and profile anchors.
func TestAnchorExtractor(t *testing.T) {
	t.Parallel()

	t.Run("obfuscated mailto", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body>
<a href="mailto:john[at]example[dot]com">John Smith</a>
</body></html>`)

		got := NewAnchorExtractor().Extract(context.Background(), doc)
		want := []model.PersonRecord{
			{Name: "John Smith", Email: "john@example.com", SourcePage: pageURL},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("records mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("profile anchor with card context", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body>
<div><h4>Jane Doe</h4><p>Chief Executive Officer</p><a href="//www.linkedin.com/in/jane-doe"></a></div>
</body></html>`)

		got := NewAnchorExtractor().Extract(context.Background(), doc)
		want := []model.PersonRecord{
			{
				Name:        "Jane Doe",
				Title:       "Chief Executive Officer",
				ProfileLink: "https://www.linkedin.com/in/jane-doe",
				SourcePage:  pageURL,
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("records mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("mailto without address ignored", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><a href="mailto:">write us</a></body></html>`)
		if got := NewAnchorExtractor().Extract(context.Background(), doc); len(got) != 0 {
			t.Errorf("expected no records, got %v", got)
		}
	})
}

// TestHeadingExtractor tests role-keyword headings.
func TestHeadingExtractor(t *testing.T) {
	t.Parallel()

	e := NewHeadingExtractor(score.NewMatcher())

	t.Run("keyword heading with obfuscated email", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body>
<h3>Jane Doe, Chief Executive Officer</h3>
<p>Contact: jane [at] example [dot] com</p>
</body></html>`)

		got := e.Extract(context.Background(), doc)
		want := []model.PersonRecord{
			{
				Name:       "Jane Doe",
				Title:      "Jane Doe, Chief Executive Officer",
				Email:      "jane@example.com",
				SourcePage: pageURL,
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("records mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("heading without role keyword ignored", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><h2>Our Offices</h2><p>Amsterdam and Berlin.</p></body></html>`)
		if got := e.Extract(context.Background(), doc); len(got) != 0 {
			t.Errorf("expected no records, got %v", got)
		}
	})
}

// fakeFetcher serves canned script bodies and records requested URLs.
type fakeFetcher struct {
	resources map[string]string
	requested []string
}

func (f *fakeFetcher) FetchResource(_ context.Context, url string) (string, bool) {
	f.requested = append(f.requested, url)
	text, ok := f.resources[url]
	return text, ok
}

// TestScriptExtractor tests people extraction from script bundles.
func TestScriptExtractor(t *testing.T) {
	t.Parallel()

	t.Run("inline object literal", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><script>
var team = [{"name": "Jane Doe", "title": "Chief Executive Officer", "linkedin": "https:\/\/linkedin.com\/in\/jane-doe"}];
</script></body></html>`)

		got := NewScriptExtractor(nil).Extract(context.Background(), doc)
		want := []model.PersonRecord{
			{
				Name:        "Jane Doe",
				Title:       "Chief Executive Officer",
				ProfileLink: "https://www.linkedin.com/in/jane-doe",
				SourcePage:  pageURL,
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("records mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("name without companion fields skipped", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><script>
var site = {"name": "Example Site"};
</script></body></html>`)

		if got := NewScriptExtractor(nil).Extract(context.Background(), doc); len(got) != 0 {
			t.Errorf("expected no records, got %v", got)
		}
	})

	t.Run("external scripts stay same origin", func(t *testing.T) {
		t.Parallel()

		fetcher := &fakeFetcher{resources: map[string]string{
			"https://example.com/bundle.js": `{"name": "John Smith", "role": "Chief Technology Officer"}`,
		}}
		doc := parseDoc(t, `<html><body>
<script src="/bundle.js"></script>
<script src="https://cdn.other.com/analytics.js"></script>
</body></html>`)

		got := NewScriptExtractor(fetcher).Extract(context.Background(), doc)
		if len(got) != 1 {
			t.Fatalf("expected 1 record, got %v", got)
		}
		if got[0].Name != "John Smith" || got[0].SourcePage != "https://example.com/bundle.js" {
			t.Errorf("unexpected record %+v", got[0])
		}
		if len(fetcher.requested) != 1 || fetcher.requested[0] != "https://example.com/bundle.js" {
			t.Errorf("expected only the same-origin bundle fetched, got %v", fetcher.requested)
		}
	})

	t.Run("scan limit caps script count", func(t *testing.T) {
		t.Parallel()

		body := "<html><body>"
		for i := 0; i < ScriptScanLimit+1; i++ {
			body += fmt.Sprintf(`<script>var p = {"name": "Person Number%d", "role": "Chief Executive Officer"};</script>`, i)
		}
		body += "</body></html>"

		got := NewScriptExtractor(nil).Extract(context.Background(), parseDoc(t, body))
		if len(got) != ScriptScanLimit {
			t.Errorf("expected %d records, got %d", ScriptScanLimit, len(got))
		}
	})
}

// TestDedupe tests identity-key merging.
func TestDedupe(t *testing.T) {
	t.Parallel()

	t.Run("merges equal keys and backfills source", func(t *testing.T) {
		t.Parallel()

		records := []model.PersonRecord{
			{Name: "Jane Doe", Title: "CEO"},
			{Name: "jane doe", Title: "ceo", SourcePage: pageURL},
			{Name: "John Smith", Title: "CTO"},
		}
		got := Dedupe(records)

		if len(got) != 2 {
			t.Fatalf("expected 2 records, got %d", len(got))
		}
		if got[0].SourcePage != pageURL {
			t.Errorf("expected source backfilled, got %+v", got[0])
		}
		if got[0].Name != "Jane Doe" {
			t.Errorf("first-seen spelling must win, got %q", got[0].Name)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		records := []model.PersonRecord{
			{Name: "Jane Doe", Title: "CEO"},
			{Name: "Jane Doe", Title: "CEO"},
		}
		once := Dedupe(records)
		twice := Dedupe(once)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("dedupe not idempotent (-once +twice):\n%s", diff)
		}
	})

	t.Run("empty input yields nil", func(t *testing.T) {
		t.Parallel()

		if got := Dedupe(nil); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}

// TestExtractAll tests cross-strategy extraction and merging on one page.
func TestExtractAll(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body>
<div class="team"><article>
  <h3>Jane Doe</h3>
  <p>Chief Executive Officer</p>
  <a href="https://nl.linkedin.com/in/jane-doe/"></a>
</article></div>
</body></html>`)

	extractors := Extractors(score.NewMatcher(), nil)
	got := ExtractAll(context.Background(), doc, extractors)

	if len(got) == 0 {
		t.Fatal("expected records")
	}
	want := model.PersonRecord{
		Name:        "Jane Doe",
		Title:       "Chief Executive Officer",
		ProfileLink: "https://www.linkedin.com/in/jane-doe",
		SourcePage:  pageURL,
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("merged record mismatch (-want +got):\n%s", diff)
	}

	seen := make(map[model.IdentityKey]bool)
	for _, p := range got {
		key := p.Key()
		if seen[key] {
			t.Errorf("duplicate identity key after merge: %+v", key)
		}
		seen[key] = true
		if !p.Admissible() {
			t.Errorf("inadmissible record extracted: %+v", p)
		}
	}
}

// TestCompanyProfiles tests company-level profile discovery.
func TestCompanyProfiles(t *testing.T) {
	t.Parallel()

	body := `<html><body>
<a href="https://www.linkedin.com/in/jane-doe">Jane</a>
<a href="https://nl.linkedin.com/company/example-bv/">Follow us</a>
<div data-profile="https://www.linkedin.com/showcase/example-cloud"></div>
</body></html>`

	doc := parseDoc(t, body)
	got := CompanyProfiles(doc, body)

	want := []string{
		"https://www.linkedin.com/company/example-bv",
		"https://www.linkedin.com/showcase/example-cloud",
		"https://www.linkedin.com/in/jane-doe",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("profiles mismatch (-want +got):\n%s", diff)
	}
}
