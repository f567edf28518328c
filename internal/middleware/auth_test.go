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

	"github.com/harshk49/notes-app-backend/internal/auth"
)

const testSecret = "middleware-test-secret"

// echoHandler records the identity the middleware bound into the context.
func echoHandler(gotUserID *uint64, gotEmail *string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id, ok := c.Get("user_id").(uint64); ok {
			*gotUserID = id
		}
		if email, ok := c.Get("email").(string); ok {
			*gotEmail = email
		}
		return c.NoContent(http.StatusOK)
	}
}

func invoke(t *testing.T, authHeader string) (*httptest.ResponseRecorder, uint64, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/get-all-notes", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID uint64
	var gotEmail string
	h := RequireAuth(testSecret)(echoHandler(&gotID, &gotEmail))
	require.NoError(t, h(c))
	return rec, gotID, gotEmail
}

func TestRequireAuthValidToken(t *testing.T) {
	tok, err := auth.IssueToken(testSecret, 5, "a@x.com")
	require.NoError(t, err)

	rec, gotID, gotEmail := invoke(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(5), gotID)
	assert.Equal(t, "a@x.com", gotEmail)
}

func TestRequireAuthMissingHeader(t *testing.T) {
	rec, gotID, _ := invoke(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, gotID, "handler must not run without a token")
}

func TestRequireAuthBadScheme(t *testing.T) {
	rec, gotID, _ := invoke(t, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, gotID)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	rec, gotID, _ := invoke(t, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, gotID)
}

func TestRequireAuthForeignSecret(t *testing.T) {
	tok, err := auth.IssueToken("some-other-secret", 5, "a@x.com")
	require.NoError(t, err)

	rec, gotID, _ := invoke(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, gotID)
}

func TestRequireAuthExpiredTokenSameResponseAsInvalid(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": float64(5),
		"email":   "a@x.com",
		"exp":     time.Now().UTC().Add(-time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	expiredRec, gotID, _ := invoke(t, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, expiredRec.Code)
	assert.Zero(t, gotID)

	// Expired and invalid must be indistinguishable from the outside.
	invalidRec, _, _ := invoke(t, "Bearer garbage")
	assert.Equal(t, invalidRec.Code, expiredRec.Code)
	assert.JSONEq(t, invalidRec.Body.String(), expiredRec.Body.String())
}
