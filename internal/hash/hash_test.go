package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPassword_HashAndCheck(t *testing.T) {
	t.Parallel()

	h, err := Password("Secret123!", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, h)
	assert.NotEqual(t, "Secret123!", h)

	assert.True(t, Check(h, "Secret123!"))
	assert.False(t, Check(h, "wrong-password"))
}

func TestPassword_ZeroCostUsesDefault(t *testing.T) {
	t.Parallel()

	h, err := Password("Secret123!", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestPassword_DistinctSalts(t *testing.T) {
	t.Parallel()

	h1, err := Password("Secret123!", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := Password("Secret123!", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
