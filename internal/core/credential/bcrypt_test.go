package credential

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewBcrypt_Cost(t *testing.T) {
	assert.Equal(t, DefaultCost, NewBcrypt(0).Cost())
	assert.Equal(t, bcrypt.MinCost, NewBcrypt(1).Cost())
	assert.Equal(t, bcrypt.MaxCost, NewBcrypt(99).Cost())
	assert.Equal(t, 10, NewBcrypt(10).Cost())
}

func TestHash(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	t.Run("salted: same plaintext gives different hashes", func(t *testing.T) {
		h1, err := h.Hash("Abc123!")
		require.NoError(t, err)
		h2, err := h.Hash("Abc123!")
		require.NoError(t, err)

		assert.NotEqual(t, h1, h2)
		assert.NotContains(t, h1, "Abc123!")

		for _, hash := range []string{h1, h2} {
			ok, err := h.Verify("Abc123!", hash)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	})

	t.Run("cost is encoded in the hash", func(t *testing.T) {
		hash, err := NewBcrypt(5).Hash("abc123")
		require.NoError(t, err)
		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, 5, cost)
	})

	t.Run("rejects over 72 bytes", func(t *testing.T) {
		_, err := h.Hash(strings.Repeat("가", 25))
		assert.ErrorIs(t, err, ErrPasswordTooLong)
	})
}

func TestVerify(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)
	hash, err := h.Hash("correct1")
	require.NoError(t, err)

	t.Run("mismatch", func(t *testing.T) {
		ok, err := h.Verify("wrong1", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("prefix of the password does not match", func(t *testing.T) {
		ok, err := h.Verify("correct", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed stored hash", func(t *testing.T) {
		ok, err := h.Verify("correct1", "not-a-hash")
		assert.ErrorIs(t, err, ErrMalformedHash)
		assert.False(t, ok)
	})
}
