package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/leadsift/peoplescan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting that also pipes cleanly into files and other tools.
type SimpleWriter struct {
	baseWriter

	// allPeople controls whether the full people list is shown in
	// addition to the selected decision makers.
	allPeople bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithSimpleAllPeople includes the full extracted people list in the output.
func WithSimpleAllPeople(all bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.allPeople = all
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs a single scan result in human-readable format.
func (w *SimpleWriter) Write(result *model.SiteScanResult) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeSummary(&sb, result)
	w.writePeople(&sb, "DECISION MAKERS", result.DecisionMakers)
	if w.allPeople {
		w.writePeople(&sb, "ALL PEOPLE", result.People)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteAll outputs every result in the batch, one section per site.
func (w *SimpleWriter) WriteAll(results []*model.SiteScanResult) (int, error) {
	var total int
	for _, result := range results {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// writeHeader writes the report header with scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *model.SiteScanResult) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         PEOPLESCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Website:        %s\n", result.Website))
	if result.NormalizedURL != "" && result.NormalizedURL != result.Website {
		sb.WriteString(fmt.Sprintf("Normalized URL: %s\n", result.NormalizedURL))
	}
	sb.WriteString(fmt.Sprintf("Scan Date:      %s\n", result.DateScanned.Format("2006-01-02 15:04:05 MST")))

	if len(result.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("Status:         DEGRADED (%s)\n", strings.Join(result.Errors, ", ")))
	} else {
		sb.WriteString("Status:         Complete\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the scan counters section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, result *model.SiteScanResult) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SCAN SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Pages Scanned:   %d\n", result.Meta.PagesScanned))
	sb.WriteString(fmt.Sprintf("  People Examined: %d\n", result.Meta.PeopleExamined))
	sb.WriteString(fmt.Sprintf("  Decision Makers: %d\n", len(result.DecisionMakers)))
	if result.Meta.CompanyProfile != "" {
		sb.WriteString(fmt.Sprintf("  Company Profile: %s\n", result.Meta.CompanyProfile))
	}
	sb.WriteString("\n")
}

// writePeople writes a titled section listing person records.
func (w *SimpleWriter) writePeople(sb *strings.Builder, title string, people []model.PersonRecord) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(people) == 0 {
		sb.WriteString("  No people found\n\n")
		return
	}

	for _, p := range people {
		sb.WriteString(fmt.Sprintf("  * %s\n", orDash(p.Name)))
		if p.Title != "" {
			sb.WriteString(fmt.Sprintf("    Title:   %s\n", p.Title))
		}
		if p.ProfileLink != "" {
			sb.WriteString(fmt.Sprintf("    Profile: %s\n", p.ProfileLink))
		}
		if p.Email != "" {
			sb.WriteString(fmt.Sprintf("    Email:   %s\n", p.Email))
		}
		sb.WriteString(fmt.Sprintf("    Score:   %.1f", p.Score))
		if p.RankReason != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", p.RankReason))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by PeopleScan\n")
	sb.WriteString("https://github.com/leadsift/peoplescan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// orDash substitutes a dash for empty values in listings.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
