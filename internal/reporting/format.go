package reporting

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Format selects a report renderer.
type Format string

// Supported report formats.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatMarkdown, FormatCSV, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// Render renders r in format f.
func Render(r *Report, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return []byte(RenderText(r)), nil
	case FormatMarkdown:
		return []byte(RenderMarkdown(r)), nil
	case FormatCSV:
		return []byte(RenderCSV(r.Teams)), nil
	case FormatJSON:
		return RenderJSON(r)
	case FormatYAML:
		return RenderYAML(r)
	default:
		return nil, fmt.Errorf("unknown report format %q", f)
	}
}

// RenderJSON renders the report as indented JSON.
func RenderJSON(r *Report) ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report json: %w", err)
	}
	return append(b, '\n'), nil
}

// RenderYAML renders the report as YAML.
func RenderYAML(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("marshal report yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal report yaml: %w", err)
	}
	return buf.Bytes(), nil
}
