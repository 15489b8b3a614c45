package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/grove/pkg/core"
)

// BodyField is the field that the Markdown serializer writes as the document body.
const BodyField = "content"

// Serializer defines how to read and write a specific file format.
type Serializer interface {
	// Parse reads from r and returns the document fields.
	Parse(r io.Reader) (core.Fields, error)
	// Serialize converts the document fields to bytes.
	Serialize(fields core.Fields) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers keyed by extension.
func DefaultSerializers(strict bool) map[string]Serializer {
	return map[string]Serializer{
		".json": NewJSONSerializer(strict),
		".yaml": NewYAMLSerializer(strict),
		".yml":  NewYAMLSerializer(strict),
		".md":   NewMarkdownSerializer(strict),
	}
}

// FormatExtension maps a configured format name to the file extension it writes.
func FormatExtension(format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return ".json", nil
	case "yaml", "yml":
		return ".yaml", nil
	case "md", "markdown":
		return ".md", nil
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
}

// --- JSON Serializer ---

// JSONSerializer handles reading and writing JSON files.
type JSONSerializer struct {
	// Strict enables strict number parsing (as json.Number) to avoid precision loss.
	Strict bool
}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer(strict bool) *JSONSerializer {
	return &JSONSerializer{Strict: strict}
}

func (s *JSONSerializer) Parse(r io.Reader) (core.Fields, error) {
	decoder := json.NewDecoder(r)
	if s.Strict {
		decoder.UseNumber()
	}

	fields := make(core.Fields)
	if err := decoder.Decode(&fields); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return fields, nil
}

func (s *JSONSerializer) Serialize(fields core.Fields) ([]byte, error) {
	if fields == nil {
		fields = core.Fields{}
	}
	return json.MarshalIndent(fields, "", "  ")
}

// --- YAML Serializer ---

type YAMLSerializer struct {
	Strict bool
}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer(strict bool) *YAMLSerializer {
	return &YAMLSerializer{Strict: strict}
}

func (s *YAMLSerializer) Parse(r io.Reader) (core.Fields, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	fields := make(core.Fields)
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if s.Strict {
		fields = recursiveNormalize(fields).(core.Fields)
	}
	return fields, nil
}

func (s *YAMLSerializer) Serialize(fields core.Fields) ([]byte, error) {
	if fields == nil {
		fields = core.Fields{}
	}
	return yaml.Marshal(map[string]any(fields))
}

// --- Markdown Serializer ---

// MarkdownSerializer stores BodyField as the Markdown body and every other
// field as YAML frontmatter.
type MarkdownSerializer struct {
	Strict bool
}

// NewMarkdownSerializer creates a new Markdown serializer.
func NewMarkdownSerializer(strict bool) *MarkdownSerializer {
	return &MarkdownSerializer{Strict: strict}
}

func (s *MarkdownSerializer) Parse(r io.Reader) (core.Fields, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	fields := make(core.Fields)

	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		if len(data) > 0 {
			fields[BodyField] = string(data)
		}
		return fields, nil
	}

	rest := data[3:]
	parts := bytes.SplitN(rest, []byte("\n---"), 2)
	if len(parts) == 1 {
		return nil, errors.New("frontmatter started but no closing delimiter found")
	}

	if err := yaml.Unmarshal(parts[0], &fields); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if fields == nil {
		fields = make(core.Fields)
	}

	body := strings.TrimPrefix(string(parts[1]), "\r")
	body = strings.TrimPrefix(body, "\n")
	// An empty body means the document has no body field at all.
	if body != "" {
		fields[BodyField] = body
	}

	if s.Strict {
		fields = recursiveNormalize(fields).(core.Fields)
	}
	return fields, nil
}

func (s *MarkdownSerializer) Serialize(fields core.Fields) ([]byte, error) {
	front := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == BodyField {
			continue
		}
		front[k] = v
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	if len(front) > 0 {
		data, err := yaml.Marshal(front)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal frontmatter: %w", err)
		}
		buf.Write(data)
	}
	buf.WriteString("---\n")
	buf.WriteString(fields.String(BodyField))
	return buf.Bytes(), nil
}

// recursiveNormalize traverses maps and slices and converts numeric types to
// json.Number, matching the JSON strict mode.
func recursiveNormalize(val any) any {
	switch v := val.(type) {
	case core.Fields:
		m := make(core.Fields, len(v))
		for k, val := range v {
			m[k] = recursiveNormalize(val)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = recursiveNormalize(val)
		}
		return m
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = recursiveNormalize(val)
		}
		return out
	case int:
		return json.Number(fmt.Sprint(v))
	case int64:
		return json.Number(fmt.Sprint(v))
	case uint64:
		return json.Number(fmt.Sprint(v))
	case float64:
		return json.Number(fmt.Sprint(v))
	default:
		return v
	}
}
