package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	accessSecret  = []byte("test-jwt-secret")
	refreshSecret = []byte("test-refresh-secret")
)

func TestSignAccess_CarriesUserID(t *testing.T) {
	t.Parallel()

	raw, err := SignAccess(42, accessSecret)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := ParseAccess(raw, accessSecret)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(AccessTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestSignRefresh_CarriesUserID(t *testing.T) {
	t.Parallel()

	raw, err := SignRefresh(7, refreshSecret)
	require.NoError(t, err)

	claims, err := ParseRefresh(raw, refreshSecret)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(RefreshTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseAccess_WrongSecret(t *testing.T) {
	t.Parallel()

	raw, err := SignAccess(1, accessSecret)
	require.NoError(t, err)

	_, err = ParseAccess(raw, []byte("other-secret"))
	require.Error(t, err)
}

func TestParseAccess_RefreshSecretDoesNotValidate(t *testing.T) {
	t.Parallel()

	raw, err := SignRefresh(1, refreshSecret)
	require.NoError(t, err)

	_, err = ParseAccess(raw, accessSecret)
	require.Error(t, err)
}

func TestParseAccess_Expired(t *testing.T) {
	t.Parallel()

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(accessSecret)
	require.NoError(t, err)

	_, err = ParseAccess(raw, accessSecret)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseAccess_RejectsUnexpectedAlg(t *testing.T) {
	t.Parallel()

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAccess(raw, accessSecret)
	require.Error(t, err)
}

func TestParseAccess_Garbage(t *testing.T) {
	t.Parallel()

	_, err := ParseAccess("not-a-jwt", accessSecret)
	require.Error(t, err)
}
