package pipeline

import (
	"context"
	"log/slog"

	"github.com/leadsift/peoplescan/internal/discover"
	"github.com/leadsift/peoplescan/internal/extract"
	"github.com/leadsift/peoplescan/internal/fetch"
	"github.com/leadsift/peoplescan/internal/model"
	"github.com/leadsift/peoplescan/internal/score"
	"github.com/leadsift/peoplescan/internal/urlutil"
)

// PageFetcher retrieves HTML pages. Satisfied by *fetch.Fetcher; tests
// substitute canned pages.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (*fetch.Page, error)
}

// NormalizeStep canonicalizes the input website string. An input that
// cannot become a URL with a host tags the result invalid_url; later
// steps see the empty NormalizedURL and do nothing.
type NormalizeStep struct {
	logger *slog.Logger
}

// NewNormalizeStep creates the normalization step.
func NewNormalizeStep(logger *slog.Logger) *NormalizeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &NormalizeStep{logger: logger}
}

// Name returns the step name.
func (*NormalizeStep) Name() string { return "normalize" }

// Do canonicalizes result.Website into result.NormalizedURL.
func (s *NormalizeStep) Do(_ context.Context, result *model.SiteScanResult) error {
	result.NormalizedURL = urlutil.NormalizeSiteURL(result.Website)
	if result.NormalizedURL == "" {
		s.logger.Warn("input is not a URL", "website", result.Website)
		result.AddError(model.ErrTagInvalidURL)
	}
	return nil
}

// DiscoverStep fetches the homepage and assembles the candidate page
// list. A homepage that cannot be fetched is not fatal; the likely team
// paths are probed regardless.
type DiscoverStep struct {
	fetcher    PageFetcher
	discoverer *discover.Discoverer
	logger     *slog.Logger
}

// NewDiscoverStep creates the discovery step.
func NewDiscoverStep(fetcher PageFetcher, discoverer *discover.Discoverer, logger *slog.Logger) *DiscoverStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscoverStep{fetcher: fetcher, discoverer: discoverer, logger: logger}
}

// Name returns the step name.
func (*DiscoverStep) Name() string { return "discover" }

// Do populates result.CandidatePages.
func (s *DiscoverStep) Do(ctx context.Context, result *model.SiteScanResult) error {
	if result.NormalizedURL == "" {
		return nil
	}

	var home *extract.Document
	root := urlutil.HostRoot(result.NormalizedURL)
	if page, err := s.fetcher.FetchPage(ctx, root+"/"); err != nil {
		s.logger.Debug("homepage unavailable", "url", root, "error", err)
	} else if doc, perr := extract.ParseDocument(page.URL, page.Body); perr != nil {
		s.logger.Debug("homepage unparsable", "url", page.URL, "error", perr)
	} else {
		home = doc
	}

	result.CandidatePages = s.discoverer.CandidatePages(result.NormalizedURL, home)
	if len(result.CandidatePages) == 0 {
		result.AddError(model.ErrTagNoCandidatePages)
	}
	s.logger.Debug("candidates discovered", "website", result.Website, "pages", len(result.CandidatePages))
	return nil
}

// ExtractStep fetches every candidate page and runs the extraction
// strategies against it. Pages are processed sequentially and unfetchable
// pages are skipped, though every attempted page counts toward
// Meta.PagesScanned; the records of all pages are merged by identity key.
// When the site yields people but none carries a personal profile link,
// the best company-level profile seen anywhere on the site is recorded
// as a site-level fallback.
type ExtractStep struct {
	fetcher    PageFetcher
	extractors []extract.Extractor
	logger     *slog.Logger
}

// NewExtractStep creates the extraction step.
func NewExtractStep(fetcher PageFetcher, extractors []extract.Extractor, logger *slog.Logger) *ExtractStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStep{fetcher: fetcher, extractors: extractors, logger: logger}
}

// Name returns the step name.
func (*ExtractStep) Name() string { return "extract" }

// Do populates result.People and the scan counters.
func (s *ExtractStep) Do(ctx context.Context, result *model.SiteScanResult) error {
	if len(result.CandidatePages) == 0 {
		return nil
	}

	var all []model.PersonRecord
	companyProfile := ""
	for _, pageURL := range result.CandidatePages {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		result.Meta.PagesScanned++

		page, err := s.fetcher.FetchPage(ctx, pageURL)
		if err != nil {
			s.logger.Debug("page skipped", "url", pageURL, "error", err)
			continue
		}
		doc, err := extract.ParseDocument(page.URL, page.Body)
		if err != nil {
			s.logger.Debug("page unparsable", "url", page.URL, "error", err)
			continue
		}

		records := extract.ExtractAll(ctx, doc, s.extractors)
		s.logger.Debug("page extracted", "url", page.URL, "records", len(records))
		all = append(all, records...)

		companyProfile = betterCompanyProfile(companyProfile, extract.CompanyProfiles(doc, page.Body))
	}

	result.People = extract.Dedupe(all)
	result.Meta.PeopleExamined = len(result.People)
	if len(result.People) == 0 {
		result.AddError(model.ErrTagNoPeopleFound)
	}

	if companyProfile != "" && !anyProfileLink(result.People) {
		result.Meta.CompanyProfile = companyProfile
	}
	return nil
}

// betterCompanyProfile keeps the strongest company profile seen so far:
// a company or showcase page beats a personal one, first seen wins ties.
func betterCompanyProfile(current string, candidates []string) string {
	for _, c := range candidates {
		switch {
		case current == "":
			current = c
		case urlutil.IsCompanyProfile(c) && !urlutil.IsCompanyProfile(current):
			current = c
		}
	}
	return current
}

func anyProfileLink(people []model.PersonRecord) bool {
	for i := range people {
		if people[i].ProfileLink != "" {
			return true
		}
	}
	return false
}

// ScoreStep scores every extracted person and selects the decision
// makers. People are left sorted by score so report output reads
// best-first.
type ScoreStep struct {
	scorer *score.Scorer
	limit  int
	logger *slog.Logger
}

// NewScoreStep creates the scoring step.
func NewScoreStep(scorer *score.Scorer, limit int, logger *slog.Logger) *ScoreStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoreStep{scorer: scorer, limit: limit, logger: logger}
}

// Name returns the step name.
func (*ScoreStep) Name() string { return "score" }

// Do populates result.DecisionMakers.
func (s *ScoreStep) Do(_ context.Context, result *model.SiteScanResult) error {
	if len(result.People) == 0 {
		return nil
	}
	s.scorer.ScoreAll(result.People)
	result.People = score.SortByScore(result.People)
	result.DecisionMakers = s.scorer.Select(result.People, s.limit)
	s.logger.Debug("scored", "website", result.Website,
		"people", len(result.People), "decision_makers", len(result.DecisionMakers))
	return nil
}

// DefaultSteps wires the four standard steps around one shared fetcher.
// The scorer's keyword matcher is shared with the heading strategy and
// the fetcher doubles as the script resource fetcher, so pattern caches
// and bundle memoization span the whole scan.
func DefaultSteps(fetcher *fetch.Fetcher, discoverer *discover.Discoverer, decisionLimit int, logger *slog.Logger) []Step {
	scorer := score.NewScorer()
	return []Step{
		NewNormalizeStep(logger),
		NewDiscoverStep(fetcher, discoverer, logger),
		NewExtractStep(fetcher, extract.Extractors(scorer.Matcher(), fetcher), logger),
		NewScoreStep(scorer, decisionLimit, logger),
	}
}
