package rubric

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jonathan/call-scorer/internal/schemas"
	"github.com/jonathan/call-scorer/internal/types"
	schemafiles "github.com/jonathan/call-scorer/schemas"
	"gopkg.in/yaml.v3"
)

// Format is a rubric file encoding
type Format string

// Supported formats
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// FormatFromPath infers the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported rubric file extension %q (want .json, .yaml, .yml, or .csv)", filepath.Ext(path))
	}
}

// Decode parses and validates a rubric document.
// JSON and YAML accept either a rubric object or a bare list of criteria.
func Decode(source string, data []byte, format Format) (*types.Rubric, error) {
	var (
		r   *types.Rubric
		err error
	)
	switch format {
	case FormatJSON:
		r, err = decodeJSON(source, data)
	case FormatYAML:
		r, err = decodeYAML(source, data)
	case FormatCSV:
		return decodeCSV(source, data)
	default:
		return nil, &ParseError{Source: source, Message: fmt.Sprintf("unsupported format %q", format)}
	}
	if err != nil {
		return nil, err
	}

	if r.Name == "" {
		r.Name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}
	if err := validate(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Encode renders a rubric in the given format
func Encode(r *types.Rubric, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal rubric: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("failed to marshal rubric: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to marshal rubric: %w", err)
		}
		return buf.Bytes(), nil
	case FormatCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.WriteAll(Rows(r)); err != nil {
			return nil, fmt.Errorf("failed to write rubric CSV: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func decodeJSON(source string, data []byte) (*types.Rubric, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		trimmed = []byte(`{"criteria":` + string(trimmed) + `}`)
	}

	if err := schemas.ValidateDocument(schemafiles.Rubric, trimmed); err != nil {
		var loadErr *schemas.SchemaLoadError
		if errors.As(err, &loadErr) {
			return nil, &ParseError{Source: source, Message: "invalid JSON", Cause: err}
		}
		return nil, &ValidationError{Message: "does not match rubric schema", Cause: err}
	}

	var r types.Rubric
	if err := json.Unmarshal(trimmed, &r); err != nil {
		return nil, &ParseError{Source: source, Message: "failed to unmarshal JSON", Cause: err}
	}
	return &r, nil
}

func decodeYAML(source string, data []byte) (*types.Rubric, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &ParseError{Source: source, Message: "failed to unmarshal YAML", Cause: err}
	}

	var r types.Rubric
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		if err := node.Content[0].Decode(&r.Criteria); err != nil {
			return nil, &ParseError{Source: source, Message: "failed to decode criteria list", Cause: err}
		}
		return &r, nil
	}
	if err := node.Decode(&r); err != nil {
		return nil, &ParseError{Source: source, Message: "failed to decode rubric", Cause: err}
	}
	return &r, nil
}

func decodeCSV(source string, data []byte) (*types.Rubric, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{Source: source, Message: "failed to read CSV", Cause: err}
	}
	r, err := ParseRows(source, rows)
	if err != nil {
		return nil, err
	}
	r.Name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return r, nil
}

func validate(r *types.Rubric) error {
	if err := r.Validate(); err != nil {
		return &ValidationError{Message: "criteria failed validation", Cause: err}
	}
	return nil
}
