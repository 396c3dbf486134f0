package cliconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coralbyte/typeprint/typeerr"
)

func TestLoadEmptyPathReturnsZeroDefaults(t *testing.T) {
	d, err := Load("", false)
	require.NoError(t, err)
	assert.Equal(t, &Defaults{}, d)
}

func TestLoadMissingNonExplicitPathIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	d, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, &Defaults{}, d)
}

func TestLoadMissingExplicitPathIsIOFailed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	_, err := Load(path, true)
	require.Error(t, err)
	assert.True(t, typeerr.Is(err, typeerr.IOFailed))
}

func TestLoadDecodesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defaults.toml")
	contents := `
PatternSourceDir = "/patterns"
ResultCount = 5
CompositionBand = true
Regex = ["^ab", "cd$"]
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	d, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "/patterns", d.PatternSourceDir)
	assert.Equal(t, 5, d.ResultCount)
	assert.True(t, d.CompositionBand)
	assert.Equal(t, []string{"^ab", "cd$"}, d.Regex)
}

func TestLoadMalformedTOMLIsInvalidInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o644))

	_, err := Load(path, true)
	require.Error(t, err)
	assert.True(t, typeerr.Is(err, typeerr.InvalidInput))
}

func TestDefaultPathEndsWithDotfile(t *testing.T) {
	p := DefaultPath()
	if p != "" {
		assert.Contains(t, p, ".typeprint.toml")
	}
}
