package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
)

// OutputFormat selects how command results are printed.
type OutputFormat string

const (
	FormatYAML  OutputFormat = "yaml"
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
	FormatRaw   OutputFormat = "raw"
)

var encoders = map[OutputFormat]func(io.Writer, any) error{
	FormatYAML:  encodeYAML,
	FormatJSON:  encodeJSON,
	FormatTable: encodeTable,
	FormatRaw:   encodeRaw,
}

// Formats lists the supported formats, sorted.
func Formats() []string {
	names := make([]string, 0, len(encoders))
	for f := range encoders {
		names = append(names, string(f))
	}
	slices.Sort(names)
	return names
}

// ParseFormat validates a --format value. Empty means YAML.
func ParseFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatYAML, nil
	}
	if _, ok := encoders[f]; !ok {
		return "", fmt.Errorf("unsupported output format %q (want one of %s)", s, strings.Join(Formats(), ", "))
	}
	return f, nil
}

// Tabular is implemented by results that can render as a table. Other
// results printed as a table fall back to YAML.
type Tabular interface {
	TableHeaders() []string
	TableRows() [][]string
}

// OutputOptions configures Output.
type OutputOptions struct {
	Format OutputFormat

	// File receives the output; stdout if empty.
	File string

	// Writer overrides File when set.
	Writer io.Writer
}

// Output prints result in the configured format.
func Output(result any, opts OutputOptions) error {
	format := opts.Format
	if format == "" {
		format = FormatYAML
	}
	encode, ok := encoders[format]
	if !ok {
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}

	w := opts.Writer
	if w == nil && opts.File != "" {
		f, err := os.Create(opts.File)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if w == nil {
		w = os.Stdout
	}
	return encode(w, result)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func encodeYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func encodeTable(w io.Writer, v any) error {
	t, ok := v.(Tabular)
	if !ok {
		return encodeYAML(w, v)
	}
	_, err := fmt.Fprintln(w, RenderTable(t.TableHeaders(), t.TableRows()))
	return err
}

// encodeRaw writes bytes and strings as is, e.g. a transcript for piping.
func encodeRaw(w io.Writer, v any) error {
	switch v := v.(type) {
	case []byte:
		_, err := w.Write(v)
		return err
	case string:
		_, err := io.WriteString(w, v)
		return err
	case fmt.Stringer:
		_, err := io.WriteString(w, v.String())
		return err
	}
	return encodeYAML(w, v)
}

// OutputBytes writes binary data, such as synthesized audio, to path.
func OutputBytes(data []byte, path string) error {
	if path == "" {
		return fmt.Errorf("output file path is required for binary data")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
