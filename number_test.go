package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberEqualAcrossRepresentations(t *testing.T) {
	one, err := NewNumber("1")
	require.NoError(t, err)
	oneDotZero, err := NewNumber("1.0")
	require.NoError(t, err)
	assert.True(t, one.Equal(oneDotZero))
}

func TestNumberIsInteger(t *testing.T) {
	whole := MustNumber("3")
	fraction := MustNumber("3.5")
	assert.True(t, whole.IsInteger())
	assert.False(t, fraction.IsInteger())
}

func TestNumberStringTrimsTrailingZeros(t *testing.T) {
	n := MustNumber("2.50000")
	assert.Equal(t, "2.5", n.String())
}

func TestNewNumberRejectsNonNumeric(t *testing.T) {
	_, err := NewNumber("not-a-number")
	assert.Error(t, err)
}
