package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WritesDefaultsOnFirstRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "fs", s.Adapter)
	assert.Equal(t, "json", s.Format)
	assert.False(t, s.CascadeDelete)
	assert.Equal(t, 100, s.EventBuffer)
	assert.Equal(t, slog.LevelInfo, s.Level())
	assert.Empty(t, s.KeymapPath())

	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, err)
}

func TestLoad_ReadsValues(t *testing.T) {
	dir := t.TempDir()
	yaml := "adapter: sqlite\ncascade_delete: true\nlog_level: debug\nkeymap_file: keys.toml\ndata_dir: /srv/notes\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", s.Adapter)
	assert.Equal(t, "json", s.Format)
	assert.True(t, s.CascadeDelete)
	assert.Equal(t, slog.LevelDebug, s.Level())
	assert.Equal(t, "/srv/notes", s.DataDir)
	assert.Equal(t, filepath.Join(dir, "keys.toml"), s.KeymapPath())
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("adapter: [unclosed"), 0o644))
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestResolveConfigDir(t *testing.T) {
	flag := t.TempDir()
	got, err := ResolveConfigDir(flag)
	require.NoError(t, err)
	assert.Equal(t, flag, got)

	env := t.TempDir()
	t.Setenv(EnvConfigDir, env)
	got, err = ResolveConfigDir("")
	require.NoError(t, err)
	assert.Equal(t, env, got)
}

func TestResolveDataDir_Precedence(t *testing.T) {
	cwd := t.TempDir()
	store := filepath.Join(cwd, "vault")
	inner := filepath.Join(store, "categories")
	require.NoError(t, os.MkdirAll(filepath.Join(store, ".grove"), 0o755))
	require.NoError(t, os.MkdirAll(inner, 0o755))

	orig := platformDir
	t.Cleanup(func() { platformDir = orig })
	platformDir.getwd = func() (string, error) { return inner, nil }
	home := t.TempDir()
	platformDir.homeDir = func() (string, error) { return home, nil }
	platformDir.userConfigDir = func() (string, error) { return home, nil }
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv(EnvDataDir, "")

	got, err := ResolveDataDir("", "")
	require.NoError(t, err)
	assert.Equal(t, store, got, "enclosing store")

	cfgDir := t.TempDir()
	got, err = ResolveDataDir("", cfgDir)
	require.NoError(t, err)
	assert.Equal(t, cfgDir, got, "config beats enclosing store")

	envDir := t.TempDir()
	t.Setenv(EnvDataDir, envDir)
	got, err = ResolveDataDir("", cfgDir)
	require.NoError(t, err)
	assert.Equal(t, envDir, got, "env beats config")

	flagDir := t.TempDir()
	got, err = ResolveDataDir(flagDir, cfgDir)
	require.NoError(t, err)
	assert.Equal(t, flagDir, got, "flag beats env")
}

func TestLoadKeymap(t *testing.T) {
	km, err := LoadKeymap("")
	require.NoError(t, err)
	assert.Equal(t, DefaultKeymap(), km)

	km, err = LoadKeymap(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultKeymap(), km)

	path := filepath.Join(t.TempDir(), "keymap.toml")
	require.NoError(t, os.WriteFile(path, []byte("[keys]\ndelete = [\"x\", \"delete\"]\nnewline = [\"ctrl+o\"]\n"), 0o644))
	km, err = LoadKeymap(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "delete"}, km.Delete)
	assert.Equal(t, []string{"ctrl+o"}, km.Newline)
	assert.Equal(t, DefaultKeymap().Quit, km.Quit)

	require.NoError(t, os.WriteFile(path, []byte("[keys\n"), 0o644))
	_, err = LoadKeymap(path)
	assert.Error(t, err)
}
