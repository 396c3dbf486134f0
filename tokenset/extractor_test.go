package tokenset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSplitsOnNonPrintable(t *testing.T) {
	set := Extract([]byte("ABCDE\x00GHIJK"))
	assert.Equal(t, Set{"ABCDE": {}, "GHIJK": {}}, set)
}

func TestExtractDropsShortRuns(t *testing.T) {
	set := Extract([]byte("ABC\x00GHIJK"))
	assert.Equal(t, Set{"GHIJK": {}}, set)
}

func TestExtractUppercases(t *testing.T) {
	set := Extract([]byte("hello world"))
	assert.Contains(t, set, "HELLO WORLD")
}

func TestExtractFlushesAtMaxLength(t *testing.T) {
	token := make([]byte, MaxLength*2)
	for i := range token {
		token[i] = 'a'
	}
	set := Extract(token)
	// Two tokens of MaxLength each, no delimiter inserted between them.
	assert.Len(t, set, 1)
	for s := range set {
		assert.Len(t, s, MaxLength)
	}
}

func TestExtractOutputOnlyPrintableSubsetUppercased(t *testing.T) {
	buf := make([]byte, 256)
	for i := range buf {
		buf[i] = byte(i)
	}
	set := Extract(buf)
	for s := range set {
		assert.True(t, len(s) >= MinLength && len(s) <= MaxLength)
		for _, c := range []byte(s) {
			assert.True(t, IsPrintable(c))
			assert.Equal(t, Upper(c), c, "already uppercased")
		}
	}
}

func TestExtractTrailingTokenFlushed(t *testing.T) {
	set := Extract([]byte("xx\x00ABCDEF"))
	assert.Equal(t, Set{"ABCDEF": {}}, set)
}
