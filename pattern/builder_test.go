package pattern

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSample(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestBuildRejectsAllModesDisabled(t *testing.T) {
	dir := t.TempDir()
	_, err := Build(BuildOptions{
		SourceDir: dir,
		Extension: "tst",
	})
	assert.Error(t, err)
}

func TestBuildRejectsEmptyExtension(t *testing.T) {
	dir := t.TempDir()
	_, err := Build(BuildOptions{
		SourceDir:   dir,
		DoSequences: true,
	})
	assert.Error(t, err)
}

func TestBuildRejectsMissingSourceDir(t *testing.T) {
	_, err := Build(BuildOptions{
		SourceDir:   filepath.Join(t.TempDir(), "does-not-exist"),
		Extension:   "tst",
		DoSequences: true,
	})
	assert.Error(t, err)
}

func TestBuildProducesEmptyPatternFromEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	p, err := Build(BuildOptions{
		SourceDir:     dir,
		Extension:     "tst",
		DoStrings:     true,
		DoSequences:   true,
		DoComposition: true,
	})
	require.NoError(t, err)
	assert.False(t, p.HasEvidence())
}

func TestBuildExtractsCommonEvidence(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "a.tst", "MAGICHEADERabcdefghijk")
	writeSample(t, dir, "b.tst", "MAGICHEADERabcdefghijk")

	p, err := Build(BuildOptions{
		SourceDir:     dir,
		Extension:     "tst",
		DoStrings:     true,
		DoSequences:   true,
		DoComposition: true,
		Name:          "Test Format",
	})
	require.NoError(t, err)

	assert.True(t, p.HasEvidence())
	assert.Equal(t, 2, p.Stats.TotalScanned)
	assert.NotEmpty(t, p.Data.Sequences)
	assert.Contains(t, p.Data.Strings, "MAGICHEADERABCDEFGHIJK")
}

func TestBuildIgnoresNonMatchingExtensions(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "a.tst", "MAGICHEADERabcdefghijk")
	writeSample(t, dir, "b.other", "SHOULDNOTCOUNTxxxxxxxx")

	p, err := Build(BuildOptions{
		SourceDir:   dir,
		Extension:   "TST",
		DoSequences: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stats.TotalScanned)
}

func TestBuildSkipsUnreadableFileWithoutAborting(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "a.tst", "abcdefghijk")
	badLink := filepath.Join(dir, "b.tst")
	require.NoError(t, os.Symlink(filepath.Join(dir, "does-not-exist"), badLink))

	var skipped []string
	p, err := Build(BuildOptions{
		SourceDir:   dir,
		Extension:   "tst",
		DoSequences: true,
		OnSkip: func(path string, err error) {
			skipped = append(skipped, path)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stats.TotalScanned)
	assert.Len(t, skipped, 1)
}

func TestBuildBandVariant(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "a.tst", "abcdefghijklmnopqrstuvwxyz0123456789")
	writeSample(t, dir, "b.tst", "zyxwvutsrqponmlkjihgfedcba9876543210")

	p, err := Build(BuildOptions{
		SourceDir:          dir,
		Extension:          "tst",
		DoComposition:      true,
		CompositionVariant: CompositionBand,
		Regexes:            []string{"^abc"},
	})
	require.NoError(t, err)
	assert.Equal(t, CompositionBand, p.Data.Composition.Variant)
	assert.LessOrEqual(t, p.Data.Composition.MinEntropy, p.Data.Composition.MaxEntropy)
}
