package score

import (
	"net/url"
	"strings"

	"github.com/leadsift/peoplescan/internal/model"
)

// Scoring constants. Tuned against production scan fixtures; the scenario
// tests pin the resulting scores.
const (
	// AdmitScore is the minimum score for decision-maker admission.
	AdmitScore = 3.0

	// FirstAdmitScore is the relaxed threshold for the very first
	// admitted record when nothing has cleared AdmitScore yet.
	FirstAdmitScore = 1.5

	// ProfileBonus is added when the record carries a profile link.
	ProfileBonus = 1.5

	// EmailBonus is added when the record carries an email address.
	EmailBonus = 1.5

	// ChiefBonus is added when the title contains "chief" anywhere.
	ChiefBonus = 2.0

	// VPBonus is added for a "vp" token outside the word "vice".
	VPBonus = 1.0

	// SourcePathBonus is added when the source page path looks like a
	// people or leadership page.
	SourcePathBonus = 0.5

	// maxReasonKeywords caps how many matched keywords the rank reason
	// lists.
	maxReasonKeywords = 3
)

// peoplePathKeywords mark source-page paths that imply a team context.
var peoplePathKeywords = []string{"team", "people", "about", "over-ons", "leadership", "management"}

// Scorer assigns decision-maker scores to person records. It carries the
// keyword matcher so compiled patterns are shared across all records of a
// session. A Scorer is safe for concurrent use.
type Scorer struct {
	matcher *Matcher
}

// NewScorer creates a Scorer with a fresh pattern cache.
func NewScorer() *Scorer {
	return &Scorer{matcher: NewMatcher()}
}

// Matcher exposes the scorer's keyword matcher for extraction strategies
// that share the decision-keyword table.
func (s *Scorer) Matcher() *Matcher {
	return s.matcher
}

// Score computes the record's decision-maker score and rank reason and
// writes both back onto the record.
func (s *Scorer) Score(p *model.PersonRecord) {
	title := strings.ToLower(p.Title)

	var total float64
	var matched []string
	for _, kw := range DecisionKeywords {
		if s.matcher.Match(title, kw.Keyword) {
			total += kw.Weight
			matched = append(matched, kw.Keyword)
		}
	}

	if strings.Contains(title, "chief") {
		total += ChiefBonus
	}
	if s.matcher.Match(title, "vp") && !strings.Contains(title, "vice") {
		total += VPBonus
	}
	if p.ProfileLink != "" {
		total += ProfileBonus
	}
	if p.Email != "" {
		total += EmailBonus
	}
	if hasPeoplePath(p.SourcePage) {
		total += SourcePathBonus
	}

	reasons := make([]string, 0, 2+maxReasonKeywords)
	if p.Email != "" {
		reasons = append(reasons, "email")
	}
	if p.ProfileLink != "" {
		reasons = append(reasons, "profile")
	}
	if len(matched) > maxReasonKeywords {
		matched = matched[:maxReasonKeywords]
	}
	reasons = append(reasons, matched...)

	p.Score = total
	p.RankReason = strings.Join(reasons, ", ")
}

// ScoreAll scores every record in place.
func (s *Scorer) ScoreAll(records []model.PersonRecord) {
	for i := range records {
		s.Score(&records[i])
	}
}

// hasPeoplePath reports whether the URL path contains a people-page
// keyword. Malformed source URLs simply earn no bonus.
func hasPeoplePath(pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, kw := range peoplePathKeywords {
		if strings.Contains(path, kw) {
			return true
		}
	}
	return false
}
