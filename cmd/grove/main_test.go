package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/grove/pkg/core"
	"github.com/aretw0/grove/pkg/tree"
)

func run(t *testing.T, configDir, dataDir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config-dir", configDir, "--data-dir", dataDir}, args...))
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestCLI_Lifecycle(t *testing.T) {
	configDir, dataDir := t.TempDir(), t.TempDir()

	_, err := run(t, configDir, dataDir, "init")
	require.NoError(t, err)

	catID, err := run(t, configDir, dataDir, "add", "categories", "name=Work")
	require.NoError(t, err)
	require.NotEmpty(t, catID)

	topics := tree.Topics(catID).String()
	topicID, err := run(t, configDir, dataDir, "add", topics, "name=Invoices")
	require.NoError(t, err)

	notes := tree.Notes(catID, topicID).String()
	_, err = run(t, configDir, dataDir, "add", notes, "title=Q1", "-e", `content=line1\nline2`)
	require.NoError(t, err)

	out, err := run(t, configDir, dataDir, "ls", notes, "--json")
	require.NoError(t, err)
	var docs []docJSON
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "line1\nline2", docs[0].Fields.String(tree.FieldContent))

	_, err = run(t, configDir, dataDir, "set", "categories", catID, "name=Work Stuff")
	require.NoError(t, err)
	out, err = run(t, configDir, dataDir, "ls")
	require.NoError(t, err)
	assert.Equal(t, catID+"  Work Stuff", out)

	_, err = run(t, configDir, dataDir, "rm", "categories", catID, "--cascade")
	require.NoError(t, err)
	out, err = run(t, configDir, dataDir, "ls", topics)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCLI_Mode(t *testing.T) {
	configDir, dataDir := t.TempDir(), t.TempDir()

	out, err := run(t, configDir, dataDir, "mode")
	require.NoError(t, err)
	assert.Equal(t, "editor", out)

	_, err = run(t, configDir, dataDir, "mode", "Viewer")
	require.NoError(t, err)
	out, err = run(t, configDir, dataDir, "mode")
	require.NoError(t, err)
	assert.Equal(t, "viewer", out)

	_, err = run(t, configDir, dataDir, "mode", "reader")
	assert.Error(t, err)
}

func TestCLI_LsMissingStore(t *testing.T) {
	_, err := run(t, t.TempDir(), t.TempDir()+"/nope", "ls")
	assert.Error(t, err)
}

func TestCLI_WatchPrintsSnapshots(t *testing.T) {
	configDir, dataDir := t.TempDir(), t.TempDir()
	_, err := run(t, configDir, dataDir, "add", "categories", "name=Work")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config-dir", configDir, "--data-dir", dataDir, "watch"})
	require.NoError(t, cmd.ExecuteContext(ctx))

	first, _, _ := strings.Cut(out.String(), "\n")
	var snap struct {
		Path      string    `json:"path"`
		Seq       uint64    `json:"seq"`
		Documents []docJSON `json:"documents"`
	}
	require.NoError(t, json.Unmarshal([]byte(first), &snap))
	assert.Equal(t, "categories", snap.Path)
	assert.Equal(t, uint64(1), snap.Seq)
	require.Len(t, snap.Documents, 1)
	assert.Equal(t, "Work", snap.Documents[0].Fields.String(tree.FieldName))
}

func TestCLI_RejectsBlankRequiredFields(t *testing.T) {
	configDir, dataDir := t.TempDir(), t.TempDir()

	_, err := run(t, configDir, dataDir, "add", "categories", "name=   ")
	assert.True(t, tree.IsValidation(err), "got %v", err)
	_, err = run(t, configDir, dataDir, "add", "categories", "other=x")
	assert.True(t, tree.IsValidation(err), "got %v", err)

	catID, err := run(t, configDir, dataDir, "add", "categories", "name=  Work  ")
	require.NoError(t, err)

	notes := tree.Notes(catID, "t1").String()
	_, err = run(t, configDir, dataDir, "add", notes, "title=Q1", "content= ")
	assert.True(t, tree.IsValidation(err), "got %v", err)

	_, err = run(t, configDir, dataDir, "set", "categories", catID, "name=")
	assert.True(t, tree.IsValidation(err), "got %v", err)

	out, err := run(t, configDir, dataDir, "ls", "--json")
	require.NoError(t, err)
	var docs []docJSON
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "Work", docs[0].Fields.String(tree.FieldName))

	out, err = run(t, configDir, dataDir, "ls", notes)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCLI_ValuesAreVerbatimByDefault(t *testing.T) {
	configDir, dataDir := t.TempDir(), t.TempDir()
	catID, err := run(t, configDir, dataDir, "add", "categories", `name=C:\temp\new`)
	require.NoError(t, err)

	out, err := run(t, configDir, dataDir, "ls")
	require.NoError(t, err)
	assert.Equal(t, catID+`  C:\temp\new`, out)
}

func TestParseFields(t *testing.T) {
	fields, err := parseFields([]string{"name=Work", `content=a\nb`, "title=x=y"}, false)
	require.NoError(t, err)
	assert.Equal(t, core.Fields{"name": "Work", "content": `a\nb`, "title": "x=y"}, fields)

	fields, err = parseFields([]string{`content=a\nb\tc`, `path=C:\\new`}, true)
	require.NoError(t, err)
	assert.Equal(t, core.Fields{"content": "a\nb\tc", "path": `C:\new`}, fields)

	_, err = parseFields([]string{"novalue"}, false)
	assert.Error(t, err)
	_, err = parseFields([]string{"=x"}, false)
	assert.Error(t, err)
}

func TestParsePath(t *testing.T) {
	p, err := parsePath(nil)
	require.NoError(t, err)
	assert.Equal(t, tree.Categories(), p)

	_, err = parsePath([]string{"categories/only-doc"})
	assert.Error(t, err)
}

func TestCLI_StatusReportsStore(t *testing.T) {
	configDir, dataDir := t.TempDir(), t.TempDir()
	_, err := run(t, configDir, dataDir, "add", "categories", "name=Work")
	require.NoError(t, err)

	out, err := run(t, configDir, dataDir, "status")
	require.NoError(t, err)

	var state struct {
		Service struct {
			RepositoryType string `json:"repository_type"`
		} `json:"service"`
		Repository map[string]any `json:"repository"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.NotEmpty(t, state.Service.RepositoryType)
	assert.NotEmpty(t, state.Repository)
}
