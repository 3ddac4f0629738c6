package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvolkova/taskboard/internal/tokens"
)

var testSecret = []byte("test-jwt-secret")

func runGuard(t *testing.T, authHeader string) (uint, bool, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID uint
	var gotOK bool
	handler := NewGuard(testSecret).RequireAuth(func(c echo.Context) error {
		gotID, gotOK = UserID(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	return gotID, gotOK, err
}

func TestRequireAuth_ValidToken(t *testing.T) {
	t.Parallel()

	raw, err := tokens.SignAccess(42, testSecret)
	require.NoError(t, err)

	id, ok, err := runGuard(t, "Bearer "+raw)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint(42), id)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	t.Parallel()

	_, ok, err := runGuard(t, "")
	require.False(t, ok)

	he, isHTTP := err.(*echo.HTTPError)
	require.True(t, isHTTP)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_NotBearer(t *testing.T) {
	t.Parallel()

	_, _, err := runGuard(t, "Basic dXNlcjpwYXNz")

	he, isHTTP := err.(*echo.HTTPError)
	require.True(t, isHTTP)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	t.Parallel()

	raw, err := tokens.SignAccess(42, []byte("other-secret"))
	require.NoError(t, err)

	_, _, err = runGuard(t, "Bearer "+raw)

	he, isHTTP := err.(*echo.HTTPError)
	require.True(t, isHTTP)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	claims := tokens.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, _, err = runGuard(t, "Bearer "+raw)

	// Expired and malformed tokens are indistinguishable to the caller.
	he, isHTTP := err.(*echo.HTTPError)
	require.True(t, isHTTP)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
	assert.Equal(t, "invalid or expired token", he.Message)
}
