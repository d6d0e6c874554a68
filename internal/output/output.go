// Package output renders element records for the terminal and for other
// programs.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mj1618/findui/internal/model"
	"github.com/mj1618/findui/internal/platform"
)

// Format represents the output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatSelector Format = "selector"
	FormatNative   Format = "native"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatSelector, FormatNative}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unsupported output format %q (expected one of %s)", s, strings.Join(names, ", "))
}

// Formatter writes a list of records.
type Formatter interface {
	Format(w io.Writer, records []model.ElementRecord) error
}

// AnchorFormatter writes records by reading the provider directly from the
// anchor node. The anchor is only valid until the provider is closed.
type AnchorFormatter interface {
	Formatter
	FormatAnchor(w io.Writer, records []model.ElementRecord, p platform.Provider, anchor platform.Handle) error
}

// Options configures New.
type Options struct {
	Fields       []string // JSON/YAML field selection, in output order (nil = all)
	EmitSelector bool     // Text: add a selector line under each record
	Color        bool     // Text: ANSI colors
	Depth        *int     // Native: walk depth below the anchor (nil = unbounded)
}

// New returns the formatter for f.
func New(f Format, opts Options) (Formatter, error) {
	if err := ValidateFields(opts.Fields); err != nil {
		return nil, err
	}
	switch f {
	case FormatText:
		return &TextFormatter{EmitSelector: opts.EmitSelector, Color: opts.Color}, nil
	case FormatJSON:
		return &JSONFormatter{Fields: opts.Fields}, nil
	case FormatYAML:
		return &YAMLFormatter{Fields: opts.Fields}, nil
	case FormatSelector:
		return &SelectorFormatter{EmitSelector: opts.EmitSelector}, nil
	case FormatNative:
		return &NativeFormatter{Depth: opts.Depth}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", f)
	}
}

// ValidateFields rejects names that are not record fields.
func ValidateFields(fields []string) error {
	for _, f := range fields {
		if _, ok := (model.ElementRecord{}).Field(f); !ok {
			return fmt.Errorf("unknown field %q (available: %s)", f, strings.Join(model.FieldNames, ", "))
		}
	}
	return nil
}

// ParseFields splits a comma-separated --fields value.
func ParseFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
