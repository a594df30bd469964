package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"golang.org/x/net/html"

	"github.com/leadsift/peoplescan/internal/model"
	"github.com/leadsift/peoplescan/internal/urlutil"
)

// StructuredDataExtractor reads JSON-LD blocks and emits a record for
// every Person node, wherever it nests. Blocks that are not valid JSON
// go through a repair pass first; sites routinely ship JSON-LD with
// trailing commas or unquoted keys.
type StructuredDataExtractor struct{}

// NewStructuredDataExtractor creates the JSON-LD strategy.
func NewStructuredDataExtractor() *StructuredDataExtractor {
	return &StructuredDataExtractor{}
}

// Name returns the strategy name.
func (*StructuredDataExtractor) Name() string {
	return "jsonld"
}

// Extract parses every ld+json script on the page.
func (e *StructuredDataExtractor) Extract(_ context.Context, doc *Document) []model.PersonRecord {
	var records []model.PersonRecord
	forEachElement(doc.Root, func(n *html.Node) {
		if n.Data != "script" || !strings.Contains(strings.ToLower(attr(n, "type")), "ld+json") {
			return
		}
		text := elementText(n, "")
		if text == "" {
			return
		}

		var data any
		if err := json.Unmarshal([]byte(text), &data); err != nil {
			repaired, rerr := jsonrepair.JSONRepair(text)
			if rerr != nil {
				return
			}
			if json.Unmarshal([]byte(repaired), &data) != nil {
				return
			}
		}
		walkStructured(data, func(person map[string]any) {
			e.emit(person, doc, &records)
		})
	})
	return records
}

// walkStructured visits every Person-typed object in a decoded JSON-LD
// value, recursing through graphs, arrays, and nested properties.
func walkStructured(v any, visit func(map[string]any)) {
	switch t := v.(type) {
	case map[string]any:
		if typ, _ := t["@type"].(string); strings.EqualFold(typ, "person") {
			visit(t)
		}
		for _, nv := range t {
			walkStructured(nv, visit)
		}
	case []any:
		for _, item := range t {
			walkStructured(item, visit)
		}
	}
}

func (e *StructuredDataExtractor) emit(person map[string]any, doc *Document, records *[]model.PersonRecord) {
	name := structuredString(person["name"])
	title := structuredString(person["jobTitle"])
	email := structuredString(person["email"])

	profile := ""
	for _, entry := range structuredStrings(person["sameAs"]) {
		if profile = urlutil.NormalizeProfileURL(entry); profile != "" {
			break
		}
	}
	appendRecord(records, name, title, profile, email, doc.URL)
}

func structuredString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// structuredStrings accepts the string-or-array forms JSON-LD allows for
// properties like sameAs.
func structuredStrings(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
