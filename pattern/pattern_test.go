package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coralbyte/typeprint/sequence"
)

func TestNewRejectsOversizedSequence(t *testing.T) {
	_, err := New(Identity{Name: "x"}, Data{
		Sequences: []sequence.Pair{{Offset: 0, Bytes: make([]byte, 17)}},
	}, Provenance{}, Stats{})
	require.Error(t, err)
}

func TestNewRejectsAllZeroSequenceBytes(t *testing.T) {
	_, err := New(Identity{Name: "x"}, Data{
		Sequences: []sequence.Pair{{Offset: 0, Bytes: make([]byte, 5)}},
	}, Provenance{}, Stats{})
	require.Error(t, err)
}

func TestNewRejectsShortString(t *testing.T) {
	_, err := New(Identity{Name: "x"}, Data{
		Strings: map[string]struct{}{"abcd": {}},
	}, Provenance{}, Stats{})
	require.Error(t, err)
}

func TestNewUppercasesExtensionsOnce(t *testing.T) {
	p, err := New(Identity{
		Name:       "x",
		Extensions: map[string]struct{}{"test": {}, "TsT": {}},
	}, Data{}, Provenance{}, Stats{})
	require.NoError(t, err)
	_, ok := p.Identity.Extensions["TEST"]
	assert.True(t, ok)
	assert.Len(t, p.Identity.Extensions, 2)
}

func TestNewGeneratesUUIDWhenAbsent(t *testing.T) {
	p, err := New(Identity{Name: "x"}, Data{}, Provenance{}, Stats{})
	require.NoError(t, err)
	assert.Len(t, p.Identity.ID, 36)
	assert.Equal(t, byte('-'), p.Identity.ID[8])
	assert.Equal(t, byte('-'), p.Identity.ID[13])
	assert.Equal(t, byte('-'), p.Identity.ID[18])
	assert.Equal(t, byte('-'), p.Identity.ID[23])
}

func TestMaxPointsMonotoneInEvidence(t *testing.T) {
	small, err := New(Identity{Name: "x"}, Data{
		Strings: map[string]struct{}{"ABCDE": {}},
	}, Provenance{}, Stats{TotalScanned: 1})
	require.NoError(t, err)

	large, err := New(Identity{Name: "x"}, Data{
		Strings: map[string]struct{}{"ABCDE": {}, "FGHIJKLMN": {}},
	}, Provenance{}, Stats{TotalScanned: 1})
	require.NoError(t, err)

	assert.Greater(t, large.Stats.MaxPoints, small.Stats.MaxPoints)
}

func TestHasEvidenceFalseWhenEmpty(t *testing.T) {
	p, err := New(Identity{Name: "x"}, Data{}, Provenance{}, Stats{})
	require.NoError(t, err)
	assert.False(t, p.HasEvidence())
}

func TestCompositionEnabledRules(t *testing.T) {
	avgZero := Composition{Variant: CompositionAverage, AverageEntropy: 0}
	assert.False(t, avgZero.Enabled())

	avgNonZero := Composition{Variant: CompositionAverage, AverageEntropy: 3.5}
	assert.True(t, avgNonZero.Enabled())

	bandZero := Composition{Variant: CompositionBand, MinEntropy: 0, MaxEntropy: 0}
	assert.False(t, bandZero.Enabled())

	bandNonZero := Composition{Variant: CompositionBand, MinEntropy: 0, MaxEntropy: 100}
	assert.True(t, bandNonZero.Enabled())
}
