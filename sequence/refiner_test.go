package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func build(samples ...string) []Pair {
	var seed []Pair
	for i, s := range samples {
		buf := []byte(s)
		if i == 0 {
			seed = Seed(buf)
		} else {
			seed = Refine(seed, buf)
		}
	}
	return Finalize(seed)
}

func TestFullMatchAcrossIdenticalSamples(t *testing.T) {
	got := build("abcdefghijk", "abcdefghijk")
	assert.Equal(t, []Pair{{Offset: 0, Bytes: []byte("abcdefghijk")}}, got)
}

func TestSplitAtMaxLength(t *testing.T) {
	s := "abcdefghijk\xc5\xa0a\xc5\xa0123456"
	got := build(s, s)
	want := []Pair{
		{Offset: 16, Bytes: []byte("123456")},
		{Offset: 0, Bytes: []byte("abcdefghijk\xc5\xa0a\xc5\xa0")},
	}
	assert.Equal(t, want, got)
}

func TestMixedMatchMismatch(t *testing.T) {
	// "abcdefghijk" vs "abcdeZZZZZk": positions 0-4 match ("abcde"),
	// 5-9 mismatch, position 10 ('k') matches again as a trailing
	// singleton run.
	got := build("abcdefghijk", "abcdeZZZZZk")
	want := []Pair{
		{Offset: 10, Bytes: []byte("k")},
		{Offset: 0, Bytes: []byte("abcde")},
	}
	assert.Equal(t, want, got)
}

func TestUnrelatedSampleDropsEverything(t *testing.T) {
	got := build("abcdefghijk", "xxxxxxxxxxx")
	assert.Empty(t, got)
}

func TestOffsetBeyondBufferDropsPair(t *testing.T) {
	seed := []Pair{{Offset: 100, Bytes: []byte("abcde")}}
	refined := Refine(seed, []byte("short"))
	assert.Empty(t, Finalize(refined))
}

func TestFinalizeDropsAllZeroAndSortsDescending(t *testing.T) {
	in := []Pair{
		{Offset: 5, Bytes: []byte{0, 0, 0}},
		{Offset: 2, Bytes: []byte("hi")},
		{Offset: 9, Bytes: []byte("z")},
	}
	got := Finalize(in)
	assert.Equal(t, []Pair{
		{Offset: 9, Bytes: []byte("z")},
		{Offset: 2, Bytes: []byte("hi")},
	}, got)
}
