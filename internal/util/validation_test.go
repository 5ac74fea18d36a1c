package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"6f1c2b9e-8d4a-4c1e-9b7a-2f3e4d5c6b7a", true},
		{"6F1C2B9E-8D4A-4C1E-9B7A-2F3E4D5C6B7A", true},
		{"", false},
		{"not-a-uuid", false},
		{"6f1c2b9e8d4a4c1e9b7a2f3e4d5c6b7a", false},
		{"6f1c2b9e-8d4a-4c1e-9b7a-2f3e4d5c6b7", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidUUID(tt.input), "input %q", tt.input)
	}
}

func TestExceedsLength(t *testing.T) {
	assert.False(t, ExceedsLength("abc", 3))
	assert.True(t, ExceedsLength("abcd", 3))
	assert.False(t, ExceedsLength("한국어", 3), "counts characters, not bytes")
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("  \t\n"))
	assert.False(t, IsBlank(" x "))
}
