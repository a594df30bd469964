package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// namePattern matches one to four capitalized word groups, extended-Latin
// aware. The apostrophe class covers both ASCII and typographic forms.
const namePattern = `[A-ZÀ-ÖØ-Ý][\wÀ-ÖØ-öø-ÿ'’ -]+(?: [A-ZÀ-ÖØ-Ý][\wÀ-ÖØ-öø-ÿ'’ -]+){0,3}`

var (
	emailRE    = regexp.MustCompile(`(?i)[A-Z0-9._%+\-]+@[A-Z0-9.\-]+\.[A-Z]{2,}`)
	nameRE     = regexp.MustCompile(namePattern)
	nameFullRE = regexp.MustCompile(`^(?:` + namePattern + `)$`)
	titleRE    = regexp.MustCompile(`[A-Z][A-Za-zÀ-ÖØ-öø-ÿ0-9&.,'’ \-/]{3,100}`)
	spaceRE    = regexp.MustCompile(`\s+`)
)

// deobfuscations undo the common textual email obfuscations, applied in
// order: bracketed forms first so "j [at] x [dot] com" and "j(at)x" both
// come out as addresses before the plain-word forms run.
var deobfuscations = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\s*\[\s*at\s*\]\s*`), "@"},
	{regexp.MustCompile(`(?i)\s*\(\s*at\s*\)\s*`), "@"},
	{regexp.MustCompile(`(?i)\s+at\s+`), "@"},
	{regexp.MustCompile(`(?i)\s*\[\s*dot\s*\]\s*`), "."},
	{regexp.MustCompile(`(?i)\s*\(\s*dot\s*\)\s*`), "."},
	{regexp.MustCompile(`(?i)\s+dot\s+`), "."},
}

// CleanEmail deobfuscates value and returns the first email address found
// in it, or "".
func CleanEmail(value string) string {
	if value == "" {
		return ""
	}
	for _, d := range deobfuscations {
		value = d.re.ReplaceAllString(value, d.repl)
	}
	return emailRE.FindString(value)
}

// IsNameLike reports whether value has the shape of a person name:
// 2 to 120 characters forming one to four capitalized word groups.
func IsNameLike(value string) bool {
	value = strings.TrimSpace(value)
	if n := utf8.RuneCountInString(value); n < 2 || n > 120 {
		return false
	}
	return nameFullRE.MatchString(value)
}

// findName returns the first name-shaped substring of text, or "".
func findName(text string) string {
	return nameRE.FindString(text)
}

// collapseSpace folds runs of whitespace into single spaces and trims.
func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRE.ReplaceAllString(s, " "))
}

// unescapeJSString interprets the escape sequences of a JavaScript string
// literal body. Values that cannot be decoded are returned as-is, minus
// the escaped-slash form which is always unwrapped.
func unescapeJSString(value string) string {
	if value == "" {
		return ""
	}
	cleaned := strings.ReplaceAll(value, `\/`, "/")
	quoted := `"` + strings.ReplaceAll(cleaned, `"`, `\"`) + `"`
	if decoded, err := strconv.Unquote(quoted); err == nil {
		cleaned = decoded
	}
	return strings.TrimSpace(cleaned)
}

// titleAfterName returns the first capitalized title-shaped phrase in the
// text that follows name, or "".
func titleAfterName(text, name string) string {
	if text == "" || name == "" {
		return ""
	}
	idx := strings.Index(text, name)
	if idx < 0 {
		return ""
	}
	after := strings.TrimSpace(text[idx+len(name):])
	return titleRE.FindString(after)
}
