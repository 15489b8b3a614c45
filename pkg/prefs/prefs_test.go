package prefs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/grove/pkg/prefs"
)

func openStore(t *testing.T, path string) *prefs.BoltStore {
	t.Helper()
	s, err := prefs.OpenBolt(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBoltStore_GetSet(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), prefs.DefaultFileName))

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("k", "v"))
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestBoltStore_Closed(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "p.db"))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, _, err := s.Get("k")
	assert.ErrorIs(t, err, prefs.ErrClosed)
	assert.ErrorIs(t, s.Set("k", "v"), prefs.ErrClosed)
}

func TestMode_DefaultsAndPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefs.DefaultFileName)

	s, err := prefs.OpenBolt(path)
	require.NoError(t, err)
	m, err := prefs.LoadMode(s)
	require.NoError(t, err)
	assert.Equal(t, prefs.ModeEditor, m)

	require.NoError(t, prefs.SaveMode(s, prefs.ModeViewer))
	require.NoError(t, s.Close())

	reopened := openStore(t, path)
	m, err = prefs.LoadMode(reopened)
	require.NoError(t, err)
	assert.Equal(t, prefs.ModeViewer, m)
}

func TestMode_Unrecognised(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "p.db"))
	require.NoError(t, s.Set(prefs.KeyMode, "admin"))

	m, err := prefs.LoadMode(s)
	require.NoError(t, err)
	assert.Equal(t, prefs.ModeEditor, m)

	assert.Error(t, prefs.SaveMode(s, prefs.Mode("admin")))
}

func TestMode_Toggle(t *testing.T) {
	assert.Equal(t, prefs.ModeViewer, prefs.ModeEditor.Toggle())
	assert.Equal(t, prefs.ModeEditor, prefs.ModeViewer.Toggle())
}
