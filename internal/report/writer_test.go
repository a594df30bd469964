package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/leadsift/peoplescan/internal/model"
)

// createTestResult creates a scan result with sample data for testing.
func createTestResult() *model.SiteScanResult {
	result := model.NewSiteScanResult("example.com")
	result.NormalizedURL = "https://example.com"
	result.CandidatePages = []string{"https://example.com", "https://example.com/team"}
	result.DateScanned = time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	result.Meta.PagesScanned = 2

	result.People = []model.PersonRecord{
		{
			Name:        "Jane Doe",
			Title:       "Chief Executive Officer",
			ProfileLink: "https://www.linkedin.com/in/jane-doe",
			Email:       "jane@example.com",
			SourcePage:  "https://example.com/team",
			Score:       18.5,
			RankReason:  "email, profile, ceo",
		},
		{
			Name:       "John Smith",
			Title:      "Support Engineer",
			SourcePage: "https://example.com/team",
			Score:      0.5,
		},
	}
	result.Meta.PeopleExamined = len(result.People)
	result.DecisionMakers = result.People[:1]

	return result
}

// TestSimpleWriter tests the human-readable result writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "PEOPLESCAN REPORT") {
			t.Error("expected output to contain header")
		}
		if !strings.Contains(output, "example.com") {
			t.Error("expected output to contain website")
		}
		if !strings.Contains(output, "Pages Scanned:   2") {
			t.Error("expected output to contain page count")
		}
		if !strings.Contains(output, "Status:         Complete") {
			t.Error("expected complete status")
		}
	})

	t.Run("writes decision makers only by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Jane Doe") {
			t.Error("expected decision maker in output")
		}
		if !strings.Contains(output, "email, profile, ceo") {
			t.Error("expected rank reason in output")
		}
		if strings.Contains(output, "John Smith") {
			t.Error("did not expect non decision maker in default output")
		}
	})

	t.Run("includes all people when configured", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithSimpleAllPeople(true))

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "ALL PEOPLE") {
			t.Error("expected all people section")
		}
		if !strings.Contains(output, "John Smith") {
			t.Error("expected full people list in output")
		}
	})

	t.Run("marks degraded scans", func(t *testing.T) {
		t.Parallel()

		result := model.NewSiteScanResult("bad input")
		result.AddError(model.ErrTagInvalidURL)

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "DEGRADED (invalid_url)") {
			t.Error("expected degraded status with error tags")
		}
	})
}

// TestJSONWriter tests the machine-readable result writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("drops the full people list by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.SiteScanResult
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON output: %v", err)
		}
		if len(decoded.People) != 0 {
			t.Errorf("expected people omitted, got %d", len(decoded.People))
		}
		if len(decoded.DecisionMakers) != 1 {
			t.Errorf("expected 1 decision maker, got %d", len(decoded.DecisionMakers))
		}
		if decoded.DecisionMakers[0].Name != "Jane Doe" {
			t.Errorf("decision maker = %q", decoded.DecisionMakers[0].Name)
		}
	})

	t.Run("keeps people with WithAllPeople", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithAllPeople(true))

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.SiteScanResult
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON output: %v", err)
		}
		if len(decoded.People) != 2 {
			t.Errorf("expected 2 people, got %d", len(decoded.People))
		}
	})

	t.Run("pretty print is indented", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"website\"") {
			t.Error("expected indented output")
		}
	})

	t.Run("batch output is a JSON array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		results := []*model.SiteScanResult{createTestResult(), createTestResult()}
		if _, err := w.WriteAll(results); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded []model.SiteScanResult
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON output: %v", err)
		}
		if len(decoded) != 2 {
			t.Errorf("expected 2 results, got %d", len(decoded))
		}
	})
}

// TestMarkdownWriter tests the markdown result writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header table and decision makers", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# PeopleScan Report") {
			t.Error("expected H1 title")
		}
		if !strings.Contains(output, "## Decision Makers") {
			t.Error("expected decision makers section")
		}
		if !strings.Contains(output, "Jane Doe") {
			t.Error("expected decision maker row")
		}
		if !strings.Contains(output, "https://www.linkedin.com/in/jane-doe") {
			t.Error("expected profile link in table")
		}
		if strings.Contains(output, "## All People") {
			t.Error("did not expect all people section by default")
		}
	})

	t.Run("includes all people when configured", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf, WithMarkdownAllPeople(true))

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "## All People") {
			t.Error("expected all people section")
		}
		if !strings.Contains(output, "John Smith") {
			t.Error("expected full people list in output")
		}
	})

	t.Run("warns when nothing was found", func(t *testing.T) {
		t.Parallel()

		result := model.NewSiteScanResult("example.com")
		result.NormalizedURL = "https://example.com"
		result.AddError(model.ErrTagNoPeopleFound)

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "No people could be extracted") {
			t.Error("expected warning alert")
		}
		if !strings.Contains(output, "No people found.") {
			t.Error("expected empty section placeholder")
		}
	})
}

// TestMultiWriter tests fan-out to multiple writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

	n, err := mw.Write(createTestResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("total bytes = %d, want %d", n, text.Len()+js.Len())
	}
	if !strings.Contains(text.String(), "PEOPLESCAN REPORT") {
		t.Error("expected simple output")
	}
	if !strings.Contains(js.String(), "\"website\"") {
		t.Error("expected JSON output")
	}
}
