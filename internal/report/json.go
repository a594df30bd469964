package report

import (
	"encoding/json"
	"io"

	"github.com/leadsift/peoplescan/internal/model"
)

// JSONWriter outputs scan results in JSON format.
// This format is designed for tool integration and programmatic
// processing. The full people list is dropped unless requested, so
// downstream consumers see only the selected decision makers.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// allPeople keeps the full people list in the serialized result.
	allPeople bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// WithAllPeople keeps the full extracted people list in the output.
func WithAllPeople(all bool) JSONWriterOption {
	return func(w *JSONWriter) {
		w.allPeople = all
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs a single scan result in JSON format.
func (w *JSONWriter) Write(result *model.SiteScanResult) (int, error) {
	return w.writeJSON(w.serializable(result))
}

// WriteAll outputs the batch as a single JSON array, in input order.
func (w *JSONWriter) WriteAll(results []*model.SiteScanResult) (int, error) {
	out := make([]*model.SiteScanResult, len(results))
	for i, r := range results {
		out[i] = w.serializable(r)
	}
	return w.writeJSON(out)
}

// serializable returns the result shaped for output.
func (w *JSONWriter) serializable(result *model.SiteScanResult) *model.SiteScanResult {
	if w.allPeople {
		return result
	}
	return result.WithoutPeople()
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
