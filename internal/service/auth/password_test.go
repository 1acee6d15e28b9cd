package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHashAndCompare(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher()
	verifier := NewBcryptVerifier()

	hash, err := hasher.Hash("abcdef")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "abcdef", hash)

	assert.NoError(t, verifier.Compare(hash, "abcdef"))
	assert.Error(t, verifier.Compare(hash, "wrong-password"))
}

func TestBcryptHashesAreSalted(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher()

	first, err := hasher.Hash("abcdef")
	require.NoError(t, err)
	second, err := hasher.Hash("abcdef")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
