package urlutil

import (
	"net/url"
	"regexp"
	"strings"
)

// ProfileDomain is the professional-network domain profile links must
// belong to. Links on any other host are not profile links.
const ProfileDomain = "linkedin.com"

// profileCanonicalHost is the single host every profile URL is rewritten
// to, so that regional variants (nl.linkedin.com, de.linkedin.com) and
// the bare domain all compare equal.
const profileCanonicalHost = "www." + ProfileDomain

var schemeRE = regexp.MustCompile(`(?i)^https?://`)

// NormalizeSiteURL canonicalizes a raw site or page URL: a default scheme
// is prepended when missing, fragment and query are stripped, and the path
// gains a leading slash. Returns "" for anything that cannot be parsed
// into a URL with a host.
func NormalizeSiteURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !schemeRE.MatchString(raw) {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}

	u.Fragment = ""
	u.RawQuery = ""
	if u.Path != "" && !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return u.String()
}

// Resolve resolves a possibly-relative reference against a base URL.
// Returns "" when either side is unparsable.
func Resolve(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return b.ResolveReference(r).String()
}

// NormalizeProfileURL canonicalizes a professional-network profile URL.
// Protocol-relative forms are accepted, the host must belong to
// ProfileDomain, trailing slashes are stripped, and the host is rewritten
// to the canonical www variant. Returns "" for non-profile URLs.
func NormalizeProfileURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host != ProfileDomain && !strings.HasSuffix(host, "."+ProfileDomain) {
		return ""
	}

	path := strings.TrimRight(u.Path, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "https://" + profileCanonicalHost + path
}

// NormalizeCompanyURL canonicalizes a company-level profile URL.
// Unlike NormalizeProfileURL it rejects share and embed widget links and
// only accepts company, showcase, or personal profile paths. Personal
// profiles are accepted as a fallback when a site links no company page.
func NormalizeCompanyURL(raw string) string {
	normalized := NormalizeProfileURL(raw)
	if normalized == "" {
		return ""
	}

	u, err := url.Parse(normalized)
	if err != nil {
		return ""
	}
	path := u.Path
	if strings.Contains(path, "share") || strings.Contains(path, "embed") {
		return ""
	}

	lower := strings.ToLower(path)
	if strings.Contains(lower, "/company/") || strings.Contains(lower, "/showcase/") || strings.Contains(lower, "/in/") {
		return normalized
	}
	return ""
}

// IsCompanyProfile reports whether a canonicalized profile URL points at a
// company or showcase page rather than a person.
func IsCompanyProfile(profileURL string) bool {
	lower := strings.ToLower(profileURL)
	return strings.Contains(lower, "/company/") || strings.Contains(lower, "/showcase/")
}

// IsProfileLink reports whether a raw href plausibly points at the
// professional network, before any normalization.
func IsProfileLink(href string) bool {
	return strings.Contains(strings.ToLower(href), ProfileDomain)
}

// StripWWW lowercases a host and removes a leading "www." label.
func StripWWW(host string) string {
	host = strings.ToLower(host)
	return strings.TrimPrefix(host, "www.")
}

// SameHost reports whether two URLs share a host, ignoring case and a
// leading "www." label on either side.
func SameHost(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	if ua.Hostname() == "" || ub.Hostname() == "" {
		return false
	}
	return StripWWW(ua.Hostname()) == StripWWW(ub.Hostname())
}

// HostRoot returns the scheme://host prefix of a URL, or "" when the URL
// has no host.
func HostRoot(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// PageKey normalizes a page URL for deduplication: the fragment and any
// trailing slashes are stripped. The first-seen spelling is what callers
// keep; the key only decides equality.
func PageKey(pageURL string) string {
	if i := strings.IndexByte(pageURL, '#'); i >= 0 {
		pageURL = pageURL[:i]
	}
	return strings.TrimRight(pageURL, "/")
}
