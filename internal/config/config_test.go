package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
canisters:
  hello:
    main: src/hello/main.src
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultOutputDir, cfg.Defaults.Build.Output)
	require.NotEmpty(t, cfg.Toolchain.Version)
	require.Equal(t, dir, cfg.ProjectRoot())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestLoad_RejectsAbsoluteMain(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
canisters:
  hello:
    main: /etc/passwd
`)

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "relative")
}

func TestLoad_RejectsEscapingMain(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
canisters:
  hello:
    main: ../outside/main.src
`)

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "escapes")
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
canisters:
  hello:
    main: src/hello/main.src
  empty: {}
defaults:
  build:
    output: out/
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	main, ok := cfg.MainPath("hello")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "src/hello/main.src"), main)

	stem, ok := cfg.OutputStem("hello")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "out", "src/hello/main"), stem)

	_, ok = cfg.MainPath("empty")
	require.False(t, ok)
	_, ok = cfg.MainPath("absent")
	require.False(t, ok)

	require.Equal(t, []string{"empty", "hello"}, cfg.CanisterNames())
}
