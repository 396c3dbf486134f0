package typeerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCarriesKindAndMessage(t *testing.T) {
	err := New(InvalidInput, "bad thing")
	assert.True(t, Is(err, InvalidInput))
	assert.Contains(t, err.Error(), "bad thing")
	assert.Contains(t, err.Error(), "InvalidInput")
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(IOFailed, nil, "whatever"))
}

func TestWrapPreservesCauseForUnwrap(t *testing.T) {
	cause := errors.New("disk gone")
	err := Wrap(IOFailed, cause, "reading file")
	assert.True(t, Is(err, IOFailed))
	assert.False(t, Is(err, MalformedPattern))

	var target *Error
	ok := errors.As(err, &target)
	assert.True(t, ok)
	assert.ErrorIs(t, target.Unwrap(), cause)
}

func TestIsFalseForPlainError(t *testing.T) {
	assert.False(t, Is(errors.New("plain"), IOFailed))
}

func TestKindStringCoversAllKinds(t *testing.T) {
	for _, k := range []Kind{IOFailed, InvalidInput, MalformedPattern, Unsatisfiable} {
		assert.NotEqual(t, "Unknown", k.String())
	}
	assert.Equal(t, "Unknown", Kind(99).String())
}
