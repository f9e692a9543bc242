package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sizecalc/sizing-api/internal/auth"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes are salted", func(t *testing.T) {
		h1, err := auth.HashPassword("correct horse battery staple", 4)
		require.NoError(t, err)

		h2, err := auth.HashPassword("correct horse battery staple", 4)
		require.NoError(t, err)

		assert.NotEmpty(t, h1)
		assert.NotEqual(t, h1, h2, "two hashes of the same password should differ")
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := auth.HashPassword("", 4)
		assert.ErrorIs(t, err, auth.ErrNoEmptyString)
	})

	t.Run("out of range cost falls back to default", func(t *testing.T) {
		h, err := auth.HashPassword("pw1", 99)
		require.NoError(t, err)
		assert.NoError(t, auth.ComparePasswordAndHash("pw1", h))
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := auth.HashPassword("pw1", 4)
	require.NoError(t, err)

	t.Run("matching password verifies", func(t *testing.T) {
		assert.NoError(t, auth.ComparePasswordAndHash("pw1", hash))
	})

	t.Run("wrong password fails with sentinel", func(t *testing.T) {
		err := auth.ComparePasswordAndHash("wrong", hash)
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	})

	t.Run("garbage hash fails", func(t *testing.T) {
		assert.Error(t, auth.ComparePasswordAndHash("pw1", "not-a-hash"))
	})
}
