package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPasswordWithCost("pw1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", hash)

	assert.True(t, CompareHashAndPassword(hash, "pw1"))
	assert.False(t, CompareHashAndPassword(hash, "pw2"))
	assert.False(t, CompareHashAndPassword("not-a-hash", "pw1"))
}

func TestHashPasswordWithCost_Salted(t *testing.T) {
	a, err := HashPasswordWithCost("same", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPasswordWithCost("same", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPasswordWithCost_OutOfRangeFallsBack(t *testing.T) {
	hash, err := HashPasswordWithCost("pw", 1)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
