package model

import (
	"slices"
	"time"
)

// Error tags recorded on a SiteScanResult. All are non-fatal to the run;
// a tag explains why a site produced fewer results than expected.
const (
	// ErrTagInvalidURL means the input string could not be normalized
	// into a URL with a host.
	ErrTagInvalidURL = "invalid_url"

	// ErrTagNoCandidatePages means discovery produced zero pages.
	ErrTagNoCandidatePages = "no_candidate_pages"

	// ErrTagNoPeopleFound means every candidate page was fetched or
	// skipped but no strategy yielded an admissible record.
	ErrTagNoPeopleFound = "no_people_found"
)

// SiteScanResult is the aggregate outcome of scanning one company site.
// It is created once per scan, populated incrementally by the pipeline
// steps, and treated as immutable once returned to the caller.
type SiteScanResult struct {
	// Website is the input string as provided by the caller.
	Website string `json:"website"`

	// NormalizedURL is the canonical form of Website, or empty when
	// normalization failed (see ErrTagInvalidURL).
	NormalizedURL string `json:"normalized_url"`

	// CandidatePages is the ordered list of page URLs considered.
	// Order matters: it determines scan order and which duplicate
	// record wins attribute merges.
	CandidatePages []string `json:"candidate_pages"`

	// People is the deduplicated, score-sorted list of extracted records.
	// Omitted from JSON output unless the caller asked for all people.
	People []PersonRecord `json:"people,omitempty"`

	// DecisionMakers is the bounded subsequence of People selected by
	// the scorer. Never empty when People is non-empty.
	DecisionMakers []PersonRecord `json:"decision_makers"`

	// Errors contains error tags explaining degraded results.
	Errors []string `json:"errors,omitempty"`

	// Meta holds counters and site-level facts.
	Meta Meta `json:"meta"`

	// DateScanned is the timestamp when the scan started.
	DateScanned time.Time `json:"date_scanned"`
}

// Meta holds scan counters and site-level discoveries.
type Meta struct {
	// PagesScanned is the number of candidate pages attempted, whether
	// or not the fetch succeeded.
	PagesScanned int `json:"pages_scanned"`

	// PeopleExamined is the number of distinct people after dedup.
	PeopleExamined int `json:"people_examined"`

	// CompanyProfile is the site-level company profile URL, recorded
	// when no extracted person carried a personal profile link. Empty
	// otherwise.
	CompanyProfile string `json:"company_profile,omitempty"`
}

// NewSiteScanResult creates a result for the given input website string.
func NewSiteScanResult(website string) *SiteScanResult {
	return &SiteScanResult{
		Website:     website,
		DateScanned: time.Now(),
	}
}

// AddError records an error tag, ignoring duplicates.
func (r *SiteScanResult) AddError(tag string) {
	if slices.Contains(r.Errors, tag) {
		return
	}
	r.Errors = append(r.Errors, tag)
}

// HasError reports whether the given error tag was recorded.
func (r *SiteScanResult) HasError(tag string) bool {
	return slices.Contains(r.Errors, tag)
}

// WithoutPeople returns a shallow copy with the full people list cleared.
// Used when serializing results without --include-all-people.
func (r *SiteScanResult) WithoutPeople() *SiteScanResult {
	clone := *r
	clone.People = nil
	return &clone
}
