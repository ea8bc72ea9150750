package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHashAndCompare(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)
	verifier := NewBcryptVerifier()

	hashed, err := hasher.Hash("pw123")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", hashed)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.NoError(t, verifier.Compare(hashed, "pw123"))
	assert.ErrorIs(t, verifier.Compare(hashed, "pw124"), bcrypt.ErrMismatchedHashAndPassword)
}

func TestNewBcryptHasher_InvalidCostFallsBackToDefault(t *testing.T) {
	t.Parallel()

	for _, cost := range []int{0, 3, 32} {
		assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(cost).cost)
	}
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}

func TestBcryptHasher_SaltsEachHash(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)
	first, err := hasher.Hash("same")
	require.NoError(t, err)
	second, err := hasher.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
