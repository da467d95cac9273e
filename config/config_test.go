package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, ".", cfg.Output.Dir)
	assert.False(t, cfg.Output.Overwrite)
	assert.Equal(t, "require 'spec_helper'", cfg.Output.Header)
	assert.Equal(t, 1, cfg.Generate.Parallelism)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `[output]
dir = "modules/ntp"
overwrite = true

[generate]
parallelism = 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "modules/ntp", cfg.Output.Dir)
	assert.True(t, cfg.Output.Overwrite)
	assert.Equal(t, 4, cfg.Generate.Parallelism)
	assert.Equal(t, "info", cfg.Logger.Level, "unset keys keep defaults")
	assert.Equal(t, path, cfg.Path)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[logger]\nlevel = \"warn\"\n"), 0644))
	t.Setenv("RETROSPEC_LOGGER_LEVEL", "debug")
	t.Setenv("RETROSPEC_GENERATE_PARALLELISM", "8")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 8, cfg.Generate.Parallelism)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestFindProjectConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "manifests", "deep")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(""), 0644))

	t.Chdir(nested)
	found := findProjectConfig()
	// Resolve symlinked temp dirs before comparing
	want, _ := filepath.EvalSymlinks(filepath.Join(root, FileName))
	got, _ := filepath.EvalSymlinks(found)
	assert.Equal(t, want, got)
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, WriteDefault(path, false))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	cfg.Path = ""
	assert.Equal(t, Default(), cfg)

	assert.Error(t, WriteDefault(path, false), "existing file is kept")
	assert.NoError(t, WriteDefault(path, true))
}

func TestSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, WriteDefault(path, false))

	require.NoError(t, Set(path, "generate.parallelism", "6"))
	require.NoError(t, Set(path, "output.overwrite", "true"))
	require.NoError(t, Set(path, "output.header", "require 'spec_helper_acceptance'"))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Generate.Parallelism)
	assert.True(t, cfg.Output.Overwrite)
	assert.Equal(t, "require 'spec_helper_acceptance'", cfg.Output.Header)

	for _, suffix := range []string{".back1", ".back2", ".back3"} {
		assert.FileExists(t, path+suffix)
	}
}

func TestSetUnknownKey(t *testing.T) {
	err := Set(filepath.Join(t.TempDir(), FileName), "output.color", "red")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{
		"generate.parallelism",
		"logger.json",
		"logger.level",
		"output.dir",
		"output.header",
		"output.overwrite",
	}, Keys())
	assert.True(t, IsKnownKey("logger.level"))
	assert.False(t, IsKnownKey("logger"))
}
