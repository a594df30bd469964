package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LoadTargetsFile reads a list of websites from a file.
// Three formats are accepted:
//   - a JSON array of strings
//   - a JSON object with a "websites" or "urls" array
//   - plain text with one website per line ("#" lines are comments)
//
// JSON parsing is attempted first; anything that fails to parse as JSON
// falls back to line-delimited text.
func LoadTargetsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("targets file %s is empty", path)
	}

	if targets, ok := parseJSONTargets(text); ok {
		return targets, nil
	}

	var targets []string
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("targets file %s contains no websites", path)
	}
	return targets, nil
}

// parseJSONTargets extracts websites from JSON input.
// Returns false when the text is not JSON in a recognized shape.
func parseJSONTargets(text string) ([]string, bool) {
	switch {
	case strings.HasPrefix(text, "["):
		var list []string
		if err := json.Unmarshal([]byte(text), &list); err != nil {
			return nil, false
		}
		return cleanTargets(list), true
	case strings.HasPrefix(text, "{"):
		var obj struct {
			Websites []string `json:"websites"`
			URLs     []string `json:"urls"`
		}
		if err := json.Unmarshal([]byte(text), &obj); err != nil {
			return nil, false
		}
		if len(obj.Websites) > 0 {
			return cleanTargets(obj.Websites), true
		}
		return cleanTargets(obj.URLs), true
	default:
		return nil, false
	}
}

// cleanTargets trims entries and drops blanks.
func cleanTargets(list []string) []string {
	targets := make([]string, 0, len(list))
	for _, entry := range list {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			targets = append(targets, entry)
		}
	}
	return targets
}

// DedupeTargets drops repeated websites while keeping first-seen order,
// so a site listed both on the command line and in an input file is
// scanned once. Matching is case-insensitive on the trimmed entry.
func DedupeTargets(list []string) []string {
	seen := make(map[string]bool, len(list))
	targets := make([]string, 0, len(list))
	for _, entry := range list {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key := strings.ToLower(entry)
		if seen[key] {
			continue
		}
		seen[key] = true
		targets = append(targets, entry)
	}
	return targets
}
