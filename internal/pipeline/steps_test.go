package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/leadsift/peoplescan/internal/discover"
	"github.com/leadsift/peoplescan/internal/extract"
	"github.com/leadsift/peoplescan/internal/fetch"
	"github.com/leadsift/peoplescan/internal/model"
	"github.com/leadsift/peoplescan/internal/score"
)

// fakePages serves canned pages keyed by URL; everything else is a 404.
type fakePages struct {
	pages map[string]*fetch.Page
}

func (f *fakePages) FetchPage(_ context.Context, url string) (*fetch.Page, error) {
	if p, ok := f.pages[url]; ok {
		return p, nil
	}
	return nil, &fetch.HTTPError{URL: url, StatusCode: http.StatusNotFound}
}

func htmlPage(url, body string) *fetch.Page {
	return &fetch.Page{URL: url, StatusCode: http.StatusOK, ContentType: "text/html", Body: body}
}

func testSteps(fetcher PageFetcher) []Step {
	scorer := score.NewScorer()
	logger := slog.Default()
	return []Step{
		NewNormalizeStep(logger),
		NewDiscoverStep(fetcher, discover.New(25), logger),
		NewExtractStep(fetcher, extract.Extractors(scorer.Matcher(), nil), logger),
		NewScoreStep(scorer, 5, logger),
	}
}

// TestNormalizeStep tests URL canonicalization and the invalid tag.
func TestNormalizeStep(t *testing.T) {
	t.Parallel()

	t.Run("adds scheme", func(t *testing.T) {
		t.Parallel()

		result := model.NewSiteScanResult("example.com/about")
		if err := NewNormalizeStep(nil).Do(context.Background(), result); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if result.NormalizedURL != "https://example.com/about" {
			t.Errorf("NormalizedURL = %q", result.NormalizedURL)
		}
	})

	t.Run("tags invalid input", func(t *testing.T) {
		t.Parallel()

		result := model.NewSiteScanResult("")
		if err := NewNormalizeStep(nil).Do(context.Background(), result); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if !result.HasError(model.ErrTagInvalidURL) {
			t.Errorf("expected invalid_url tag, got %v", result.Errors)
		}
	})
}

// TestScanPipeline runs the full step sequence against a canned site.
func TestScanPipeline(t *testing.T) {
	t.Parallel()

	home := `<html><body><a href="/team">Meet the team</a></body></html>`
	team := `<html><body>
<div class="team">
  <article>
    <h3>Jane Doe</h3>
    <p>Chief Executive Officer</p>
    <a href="https://nl.linkedin.com/in/jane-doe/">LinkedIn</a>
    <span>jane@example.com</span>
  </article>
  <article>
    <h3>John Smith</h3>
    <p>Support Engineer</p>
  </article>
</div>
</body></html>`

	fetcher := &fakePages{pages: map[string]*fetch.Page{
		"https://example.com/":     htmlPage("https://example.com/", home),
		"https://example.com":      htmlPage("https://example.com/", home),
		"https://example.com/team": htmlPage("https://example.com/team", team),
	}}

	p := New(WithLogger(slog.Default()))
	p.AddSteps(testSteps(fetcher)...)

	result := model.NewSiteScanResult("example.com")
	if err := p.Execute(context.Background(), result); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.NormalizedURL != "https://example.com" {
		t.Errorf("NormalizedURL = %q", result.NormalizedURL)
	}
	if len(result.CandidatePages) == 0 || result.CandidatePages[0] != "https://example.com" {
		t.Fatalf("unexpected candidates %v", result.CandidatePages)
	}
	if result.Meta.PagesScanned != len(result.CandidatePages) {
		t.Errorf("PagesScanned = %d, want %d", result.Meta.PagesScanned, len(result.CandidatePages))
	}
	if len(result.People) == 0 {
		t.Fatal("expected extracted people")
	}
	if result.Meta.PeopleExamined != len(result.People) {
		t.Errorf("PeopleExamined = %d, want %d", result.Meta.PeopleExamined, len(result.People))
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected error tags %v", result.Errors)
	}

	if len(result.DecisionMakers) == 0 {
		t.Fatal("expected decision makers")
	}
	top := result.DecisionMakers[0]
	if top.Name != "Jane Doe" {
		t.Errorf("top decision maker = %q, want Jane Doe", top.Name)
	}
	if top.ProfileLink != "https://www.linkedin.com/in/jane-doe" {
		t.Errorf("top profile = %q", top.ProfileLink)
	}
	if top.Score < 15 {
		t.Errorf("top score = %v, want >= 15", top.Score)
	}

	// People must come back sorted best first.
	for i := 1; i < len(result.People); i++ {
		if result.People[i].Score > result.People[i-1].Score {
			t.Errorf("people not sorted by score at %d", i)
			break
		}
	}
}

// TestExtractStepNoPeople tests the no_people_found tag and the
// company-profile fallback.
func TestExtractStepNoPeople(t *testing.T) {
	t.Parallel()

	page := `<html><body>
<p>We build widgets.</p>
<div data-social="https://www.linkedin.com/company/example-bv"></div>
</body></html>`

	fetcher := &fakePages{pages: map[string]*fetch.Page{
		"https://example.com": htmlPage("https://example.com/", page),
	}}

	scorer := score.NewScorer()
	step := NewExtractStep(fetcher, extract.Extractors(scorer.Matcher(), nil), nil)

	result := model.NewSiteScanResult("example.com")
	result.NormalizedURL = "https://example.com"
	result.CandidatePages = []string{"https://example.com"}

	if err := step.Do(context.Background(), result); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if !result.HasError(model.ErrTagNoPeopleFound) {
		t.Errorf("expected no_people_found, got %v", result.Errors)
	}
	if result.Meta.CompanyProfile != "https://www.linkedin.com/company/example-bv" {
		t.Errorf("CompanyProfile = %q", result.Meta.CompanyProfile)
	}
}

// TestExtractStepCountsAttempts verifies that unfetchable pages still
// count toward the pages-scanned total.
func TestExtractStepCountsAttempts(t *testing.T) {
	t.Parallel()

	team := `<html><body><div class="team"><article>
<h3>Jane Doe</h3><p>Chief Executive Officer</p>
</article></div></body></html>`

	fetcher := &fakePages{pages: map[string]*fetch.Page{
		"https://example.com/team": htmlPage("https://example.com/team", team),
	}}

	scorer := score.NewScorer()
	step := NewExtractStep(fetcher, extract.Extractors(scorer.Matcher(), nil), nil)

	result := model.NewSiteScanResult("example.com")
	result.NormalizedURL = "https://example.com"
	result.CandidatePages = []string{
		"https://example.com/team",
		"https://example.com/missing",
		"https://example.com/also-missing",
	}

	if err := step.Do(context.Background(), result); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if result.Meta.PagesScanned != 3 {
		t.Errorf("PagesScanned = %d, want 3", result.Meta.PagesScanned)
	}
	if len(result.People) != 1 {
		t.Errorf("People = %d, want 1", len(result.People))
	}
}

// TestDiscoverStepUnreachableSite keeps probing likely paths when the
// homepage itself cannot be fetched.
func TestDiscoverStepUnreachableSite(t *testing.T) {
	t.Parallel()

	step := NewDiscoverStep(&fakePages{}, discover.New(25), nil)
	result := model.NewSiteScanResult("example.com")
	result.NormalizedURL = "https://example.com"

	if err := step.Do(context.Background(), result); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if len(result.CandidatePages) != len(discover.LikelyTeamPaths)+1 {
		t.Errorf("expected root plus likely paths, got %d", len(result.CandidatePages))
	}
}

// TestStepsSkipAfterInvalidURL verifies the tag short-circuits the scan.
func TestStepsSkipAfterInvalidURL(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddSteps(testSteps(&fakePages{})...)

	result := model.NewSiteScanResult("   ")
	if err := p.Execute(context.Background(), result); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !result.HasError(model.ErrTagInvalidURL) {
		t.Fatalf("expected invalid_url, got %v", result.Errors)
	}
	if len(result.CandidatePages) != 0 || result.Meta.PagesScanned != 0 {
		t.Errorf("later steps ran after invalid input: %+v", result)
	}
}
