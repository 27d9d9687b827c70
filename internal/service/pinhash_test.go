package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPin(t *testing.T) {
	tests := []struct {
		pin  string
		want bool
	}{
		{"1234", true},
		{"0000", true},
		{"123", false},
		{"12345", false},
		{"12a4", false},
		{" 123", false},
		{"", false},
		{"١٢٣٤", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPin(tt.pin), "pin %q", tt.pin)
	}
}

func TestPinHasherRoundTrip(t *testing.T) {
	h := NewPinHasher(testIterations)

	salt, err := h.GenerateSalt()
	require.NoError(t, err)
	require.Len(t, salt, PinSaltBytes*2)

	hash := h.Hash("4321", salt)
	assert.True(t, h.Verify("4321", salt, hash))
	assert.False(t, h.Verify("4320", salt, hash))
	assert.False(t, h.Verify("4321", salt, hash[:len(hash)-2]))
	assert.False(t, h.Verify("4321", salt, ""))
}

func TestPinHasherSaltChangesHash(t *testing.T) {
	h := NewPinHasher(testIterations)

	a, err := h.GenerateSalt()
	require.NoError(t, err)
	b, err := h.GenerateSalt()
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	assert.NotEqual(t, h.Hash("1111", a), h.Hash("1111", b))
	assert.False(t, h.Verify("1111", b, h.Hash("1111", a)))
}

func TestPinHasherIterationsMatter(t *testing.T) {
	salt := "00112233445566778899aabbccddeeff"
	assert.NotEqual(t, NewPinHasher(1000).Hash("1234", salt), NewPinHasher(1001).Hash("1234", salt))
}

func TestNewPinHasherDefaultsIterations(t *testing.T) {
	assert.Equal(t, DefaultPinIterations, NewPinHasher(0).iterations)
}
