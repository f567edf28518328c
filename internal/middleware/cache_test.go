package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/harshk49/notes-app-backend/internal/config"
)

func cacheCtx(t *testing.T, target string, userID uint64) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(strings.SplitN(target, "?", 2)[0])
	if userID != 0 {
		c.Set("user_id", userID)
	}
	return c
}

func TestCacheKeySeparatesUsers(t *testing.T) {
	cfg := config.LoadCacheConfig()

	a := cacheKeyFrom(cfg, cacheCtx(t, "/get-all-notes", 1))
	b := cacheKeyFrom(cfg, cacheCtx(t, "/get-all-notes", 2))
	assert.NotEqual(t, a, b, "two users must never share a cache entry")
}

func TestCacheKeyStableForSameRequest(t *testing.T) {
	cfg := config.LoadCacheConfig()

	first := cacheKeyFrom(cfg, cacheCtx(t, "/search-notes?query=x", 1))
	second := cacheKeyFrom(cfg, cacheCtx(t, "/search-notes?query=x", 1))
	assert.Equal(t, first, second)

	other := cacheKeyFrom(cfg, cacheCtx(t, "/search-notes?query=y", 1))
	assert.NotEqual(t, first, other, "query string is part of the key")
}

// Every key of one user carries that user's prefix, so a prefix scan
// reaches all of them and nothing belonging to anyone else.
func TestCacheKeyPurgeablePerUser(t *testing.T) {
	cfg := config.LoadCacheConfig()
	prefix := userCachePrefix(cfg, "1") + ":"

	list := cacheKeyFrom(cfg, cacheCtx(t, "/get-all-notes", 1))
	search := cacheKeyFrom(cfg, cacheCtx(t, "/search-notes?query=x", 1))
	assert.True(t, strings.HasPrefix(list, prefix))
	assert.True(t, strings.HasPrefix(search, prefix))

	other := cacheKeyFrom(cfg, cacheCtx(t, "/get-all-notes", 2))
	assert.False(t, strings.HasPrefix(other, prefix))
}
