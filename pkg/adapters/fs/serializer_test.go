package fs

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/grove/pkg/core"
)

func TestMarkdownSerializer_BodyIsContent(t *testing.T) {
	s := NewMarkdownSerializer(false)

	data, err := s.Serialize(core.Fields{"title": "Q1", "content": "line1\nline2", "imageUrl": ""})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\n"))
	assert.True(t, strings.HasSuffix(string(data), "---\nline1\nline2"))

	fields, err := s.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, "Q1", fields.String("title"))
	assert.Equal(t, "line1\nline2", fields.String("content"))
	assert.Equal(t, "", fields.String("imageUrl"))
}

func TestMarkdownSerializer_NoBodyRoundTrip(t *testing.T) {
	s := NewMarkdownSerializer(false)

	data, err := s.Serialize(core.Fields{"name": "Work"})
	require.NoError(t, err)

	fields, err := s.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, core.Fields{"name": "Work"}, fields)
}

func TestMarkdownSerializer_NoFrontmatter(t *testing.T) {
	fields, err := NewMarkdownSerializer(false).Parse(strings.NewReader("just text"))
	require.NoError(t, err)
	assert.Equal(t, core.Fields{"content": "just text"}, fields)
}

func TestMarkdownSerializer_UnclosedFrontmatter(t *testing.T) {
	_, err := NewMarkdownSerializer(false).Parse(strings.NewReader("---\ntitle: x\nbody"))
	assert.Error(t, err)
}

func TestJSONSerializer_Strict(t *testing.T) {
	fields, err := NewJSONSerializer(true).Parse(strings.NewReader(`{"n": 12345678901234567890}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("12345678901234567890"), fields["n"])
}

func TestYAMLSerializer_Strict(t *testing.T) {
	fields, err := NewYAMLSerializer(true).Parse(strings.NewReader("name: Work\ncount: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, "Work", fields.String("name"))
	assert.Equal(t, json.Number("3"), fields["count"])
}

func TestFormatExtension(t *testing.T) {
	for format, ext := range map[string]string{"": ".json", "json": ".json", "YAML": ".yaml", "md": ".md"} {
		got, err := FormatExtension(format)
		require.NoError(t, err)
		assert.Equal(t, ext, got)
	}

	_, err := FormatExtension("csv")
	assert.Error(t, err)
}
