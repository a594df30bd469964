package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/leadsift/peoplescan/internal/model"
)

// MarkdownWriter outputs scan results in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter

	// allPeople adds the full extracted people list as its own section.
	allPeople bool
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownAllPeople includes the full people list in the output.
func WithMarkdownAllPeople(all bool) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.allPeople = all
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs a single scan result in Markdown format.
func (w *MarkdownWriter) Write(result *model.SiteScanResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeAlert(md, result)
	w.writeDecisionMakers(md, result)
	if w.allPeople {
		w.writePeopleTable(md, "All People", result.People)
	}

	return len(md.String()), md.Build()
}

// WriteAll outputs every result in the batch, one document per site.
func (w *MarkdownWriter) WriteAll(results []*model.SiteScanResult) (int, error) {
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
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.SiteScanResult) {
	md.H1("PeopleScan Report")
	md.PlainText("")

	rows := [][]string{
		{"Website", "`" + result.Website + "`"},
		{"Normalized URL", orDash(result.NormalizedURL)},
		{"Scan Date", result.DateScanned.Format("2006-01-02 15:04:05 MST")},
		{"Pages Scanned", strconv.Itoa(result.Meta.PagesScanned)},
		{"People Examined", strconv.Itoa(result.Meta.PeopleExamined)},
		{"Status", w.getStatusText(result)},
	}
	if result.Meta.CompanyProfile != "" {
		rows = append(rows, []string{"Company Profile", result.Meta.CompanyProfile})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// getStatusText returns the status text based on the result state.
func (w *MarkdownWriter) getStatusText(result *model.SiteScanResult) string {
	if len(result.Errors) > 0 {
		return "⚠️ Degraded - " + strings.Join(result.Errors, ", ")
	}
	return "✅ Complete"
}

// writeAlert writes an appropriate alert based on the scan outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.SiteScanResult) {
	switch {
	case result.HasError(model.ErrTagInvalidURL):
		md.Caution("The input could not be normalized into a scannable URL.")
	case result.HasError(model.ErrTagNoCandidatePages):
		md.Warning("No candidate pages were discovered for this site.")
	case result.HasError(model.ErrTagNoPeopleFound):
		md.Warning("No people could be extracted from the scanned pages.")
	default:
		md.Tipf("%d decision maker(s) identified from %d extracted people.",
			len(result.DecisionMakers), result.Meta.PeopleExamined)
	}
	md.PlainText("")
}

// writeDecisionMakers writes the ranked decision maker section.
func (w *MarkdownWriter) writeDecisionMakers(md *markdown.Markdown, result *model.SiteScanResult) {
	w.writePeopleTable(md, "Decision Makers", result.DecisionMakers)
}

// writePeopleTable writes a titled table of person records.
func (w *MarkdownWriter) writePeopleTable(md *markdown.Markdown, title string, people []model.PersonRecord) {
	md.H2(title)
	md.PlainText("")

	if len(people) == 0 {
		md.PlainText("No people found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(people))
	for i, p := range people {
		rows[i] = []string{
			orDash(p.Name),
			truncateString(orDash(p.Title), 60),
			orDash(p.ProfileLink),
			orDash(p.Email),
			fmt.Sprintf("%.1f", p.Score),
			orDash(p.RankReason),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Name", "Title", "Profile", "Email", "Score", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

// truncateString shortens a string to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
