package score

import (
	"regexp"
	"sync"
)

// KeywordWeight pairs a decision-maker title keyword with its score weight.
type KeywordWeight struct {
	Keyword string
	Weight  float64
}

// DecisionKeywords is the ordered decision-maker keyword table. Order
// matters for rank reasons: the first matching keywords are reported.
// Weights are tuned constants; see the package comment before touching.
var DecisionKeywords = []KeywordWeight{
	{"ceo", 10},
	{"chief executive", 10},
	{"chief executive officer", 10},
	{"founder", 8},
	{"partner", 6},
	{"co-founder", 7},
	{"cofounder", 7},
	{"chairman", 7},
	{"chairwoman", 7},
	{"chair", 5},
	{"president", 8},
	{"owner", 6},
	{"managing director", 7},
	{"managing partner", 7},
	{"general partner", 6},
	{"principal", 4},
	{"chief operating officer", 7},
	{"coo", 6},
	{"chief financial officer", 7},
	{"cfo", 6},
	{"chief marketing officer", 6},
	{"cmo", 5},
	{"chief revenue officer", 6},
	{"cro", 5},
	{"chief growth officer", 5},
	{"chief commercial officer", 5},
	{"chief technology officer", 6},
	{"cto", 5},
	{"chief product officer", 5},
	{"cpo", 5},
	{"head of growth", 5},
	{"head of sales", 5},
	{"vp of sales", 4},
	{"vp sales", 4},
	{"vp marketing", 4},
	{"head of marketing", 4},
	{"head of commercial", 4},
	{"board director", 4},
	{"director", 10},
	{"founding partner", 7},
	// Dutch titles: founder, co-founder, managing director.
	{"oprichter", 8},
	{"mede-oprichter", 7},
	{"directeur", 7},
}

// separatorClass matches the whitespace/hyphen/ampersand variants that are
// interchangeable inside a multi-word title ("Co-Founder", "Co Founder",
// "co–founder"). Covers NBSP and the Unicode hyphen and dash family.
const separatorClass = `[\s\x{00A0}\x{2011}-\x{2014}\x{2212}&-]+`

var (
	separatorRE = regexp.MustCompile(separatorClass)
	letterRE    = regexp.MustCompile(`[A-Za-zÀ-ÖØ-öø-ÿ]`)
)

// Matcher performs case-insensitive, separator-tolerant whole-word keyword
// matching. Compiled patterns are cached per keyword for the lifetime of
// the matcher; a scan session builds each pattern at most once.
type Matcher struct {
	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

// NewMatcher creates a Matcher with an empty pattern cache.
func NewMatcher() *Matcher {
	return &Matcher{patterns: make(map[string]*regexp.Regexp)}
}

// pattern returns the compiled pattern for a keyword, building and caching
// it on first use.
func (m *Matcher) pattern(keyword string) *regexp.Regexp {
	m.mu.Lock()
	defer m.mu.Unlock()

	if re, ok := m.patterns[keyword]; ok {
		return re
	}

	quoted := regexp.QuoteMeta(keyword)
	tolerant := separatorRE.ReplaceAllString(quoted, separatorClass)

	expr := tolerant
	if letterRE.MatchString(keyword) {
		expr = `\b` + tolerant + `\b`
	}

	re := regexp.MustCompile(`(?i)` + expr)
	m.patterns[keyword] = re
	return re
}

// Match reports whether text contains keyword as a case-insensitive,
// separator-tolerant whole-word match.
func (m *Matcher) Match(text, keyword string) bool {
	if text == "" || keyword == "" {
		return false
	}
	return m.pattern(keyword).MatchString(text)
}

// ContainsDecisionKeyword reports whether text matches any entry of the
// decision-maker keyword table.
func (m *Matcher) ContainsDecisionKeyword(text string) bool {
	for _, kw := range DecisionKeywords {
		if m.Match(text, kw.Keyword) {
			return true
		}
	}
	return false
}
