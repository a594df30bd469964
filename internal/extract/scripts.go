package extract

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/leadsift/peoplescan/internal/model"
	"github.com/leadsift/peoplescan/internal/urlutil"
)

const (
	// MaxScriptBytes caps how much of a script body is scanned.
	MaxScriptBytes = 1_500_000

	// ScriptScanLimit caps how many scripts per page are scanned.
	ScriptScanLimit = 5
)

// scriptValue matches a quoted JavaScript string value in any of the
// three quote styles. Exactly one capture group is non-empty per match.
const scriptValue = `(?:"([^"]+)"|'([^']+)'|` + "`([^`]+)`" + `)`

// scriptNameRE finds name fields in serialized objects, quoted or not.
var scriptNameRE = regexp.MustCompile(`(?i)["'` + "`" + `]?name["'` + "`" + `]?\s*:\s*` + scriptValue)

// ScriptExtractor scans JavaScript for serialized people data: "name"
// fields in object literals, with title, profile, and email looked up in
// the surrounding object. Inline scripts are scanned directly; external
// same-origin scripts go through the fetcher, which memoizes them so a
// bundle shared across pages is fetched once.
type ScriptExtractor struct {
	fetcher ResourceFetcher

	mu            sync.Mutex
	fieldPatterns map[string]*regexp.Regexp
}

// NewScriptExtractor creates the script strategy. A nil fetcher disables
// external script scanning; inline scripts are still read.
func NewScriptExtractor(fetcher ResourceFetcher) *ScriptExtractor {
	return &ScriptExtractor{
		fetcher:       fetcher,
		fieldPatterns: make(map[string]*regexp.Regexp),
	}
}

// Name returns the strategy name.
func (*ScriptExtractor) Name() string {
	return "scripts"
}

// Extract collects up to ScriptScanLimit script bodies and scans each.
func (e *ScriptExtractor) Extract(ctx context.Context, doc *Document) []model.PersonRecord {
	baseHost := hostOf(doc.URL)

	type source struct {
		text   string
		origin string
	}
	var sources []source

	for _, script := range collectElements(doc.Root, func(n *html.Node) bool {
		return n.Data == "script"
	}) {
		if len(sources) >= ScriptScanLimit {
			break
		}
		if strings.Contains(strings.ToLower(attr(script, "type")), "ld+json") {
			continue
		}

		if src := attr(script, "src"); src != "" {
			if e.fetcher == nil {
				continue
			}
			full := urlutil.Resolve(doc.URL, src)
			if full == "" || hostOf(full) != baseHost {
				continue
			}
			if text, ok := e.fetcher.FetchResource(ctx, full); ok && text != "" {
				sources = append(sources, source{text: text, origin: full})
			}
			continue
		}

		if inline := elementText(script, ""); inline != "" {
			if len(inline) > MaxScriptBytes {
				inline = inline[:MaxScriptBytes]
			}
			sources = append(sources, source{text: inline, origin: doc.URL})
		}
	}

	var records []model.PersonRecord
	for _, s := range sources {
		e.scanScriptText(s.text, s.origin, doc.URL, &records)
	}
	return records
}

// scanScriptText finds every plausible name field and inspects the
// object-sized chunk around it for companion fields. Names without any
// companion field are discarded as noise.
func (e *ScriptExtractor) scanScriptText(text, origin, baseURL string, records *[]model.PersonRecord) {
	for _, m := range scriptNameRE.FindAllStringSubmatchIndex(text, -1) {
		name := strings.TrimSpace(unescapeJSString(submatchValue(text, m)))
		if !IsNameLike(name) {
			continue
		}

		braceEnd := strings.Index(text[m[1]:], "}")
		if braceEnd == -1 {
			braceEnd = min(len(text), m[1]+400)
		} else {
			braceEnd += m[1]
		}
		chunk := text[max(0, m[0]-50):min(len(text), braceEnd+1)]

		title := e.findField(chunk, "position", "title", "role")
		profileRaw := e.findField(chunk, "linkedin", "linkedinUrl", "profile")
		emailRaw := e.findField(chunk, "email", "mail")

		profile := urlutil.NormalizeProfileURL(urlutil.Resolve(baseURL, profileRaw))
		email := CleanEmail(emailRaw)
		if title == "" && profile == "" && email == "" {
			continue
		}

		*records = append(*records, model.PersonRecord{
			Name:        name,
			Title:       title,
			ProfileLink: profile,
			Email:       email,
			SourcePage:  origin,
		})
	}
}

// findField returns the first non-empty value for any of the given keys
// in chunk. Key patterns are compiled once per extractor.
func (e *ScriptExtractor) findField(chunk string, keys ...string) string {
	for _, key := range keys {
		m := e.fieldPattern(key).FindStringSubmatch(chunk)
		if m == nil {
			continue
		}
		value := collapseSpace(unescapeJSString(firstGroup(m)))
		if value != "" {
			return value
		}
	}
	return ""
}

func (e *ScriptExtractor) fieldPattern(key string) *regexp.Regexp {
	e.mu.Lock()
	defer e.mu.Unlock()

	if re, ok := e.fieldPatterns[key]; ok {
		return re
	}
	re := regexp.MustCompile(`(?i)["']?` + regexp.QuoteMeta(key) + `["']?\s*:\s*` + scriptValue)
	e.fieldPatterns[key] = re
	return re
}

// submatchValue returns the text of the first matched capture group of an
// index-form match.
func submatchValue(text string, m []int) string {
	for g := 1; g*2 < len(m); g++ {
		if m[g*2] >= 0 {
			return text[m[g*2]:m[g*2+1]]
		}
	}
	return ""
}

// firstGroup returns the first non-empty capture group of a string-form
// submatch.
func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}

// hostOf returns the lowercased host (including port) of a URL.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
