package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadready/roadready-api/internal/config"
)

func cacheTestContext(t *testing.T, method, target, body string) echo.Context {
	t.Helper()
	e := echo.New()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(strings.SplitN(target, "?", 2)[0])
	return c
}

func TestCacheKeyIncludesPostBody(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "rr:cache", KeyStrategy: "route_query"}

	chennai := cacheTestContext(t, http.MethodPost, "/api/vehicles/search", `{"locationId":1}`)
	bangalore := cacheTestContext(t, http.MethodPost, "/api/vehicles/search", `{"locationId":2}`)
	chennaiAgain := cacheTestContext(t, http.MethodPost, "/api/vehicles/search", `{"locationId":1}`)

	keyA := cacheKey(cfg, chennai)
	keyB := cacheKey(cfg, bangalore)
	keyC := cacheKey(cfg, chennaiAgain)

	assert.NotEqual(t, keyA, keyB, "different search filters must not share a cache entry")
	assert.Equal(t, keyA, keyC, "identical searches must share a cache entry")
}

func TestCacheKeyLeavesBodyReadable(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "rr:cache", KeyStrategy: "route_query"}
	c := cacheTestContext(t, http.MethodPost, "/api/vehicles/search", `{"brandName":"bmw"}`)

	_ = cacheKey(cfg, c)

	body, err := io.ReadAll(c.Request().Body)
	require.NoError(t, err)
	assert.Equal(t, `{"brandName":"bmw"}`, string(body), "key derivation must not consume the body")
}

func TestCacheKeyStableForGet(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "rr:cache", KeyStrategy: "route_query"}

	a := cacheKey(cfg, cacheTestContext(t, http.MethodGet, "/api/vehicles?page=1", ""))
	b := cacheKey(cfg, cacheTestContext(t, http.MethodGet, "/api/vehicles?page=1", ""))
	other := cacheKey(cfg, cacheTestContext(t, http.MethodGet, "/api/vehicles?page=2", ""))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
}
