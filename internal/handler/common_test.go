package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		page     int
		pageSize int
	}{
		{"defaults", "/", 1, 10},
		{"explicit values", "/?page=3&pageSize=25", 3, 25},
		{"oversized pageSize clamps to 100", "/?pageSize=500", 1, 100},
		{"zero and negative fall back", "/?page=0&pageSize=-5", 1, 10},
		{"garbage falls back", "/?page=abc&pageSize=xyz", 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, pageSize := parsePagination(newTestContext(t, tt.target))
			assert.Equal(t, tt.page, page)
			assert.Equal(t, tt.pageSize, pageSize)
		})
	}
}

func TestGetUserID(t *testing.T) {
	t.Run("accepts the jwt float64 claim", func(t *testing.T) {
		c := newTestContext(t, "/")
		c.Set("user_id", float64(42))
		id, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), id)
	})

	t.Run("accepts native integer types", func(t *testing.T) {
		for _, v := range []interface{}{uint64(7), int(7), int64(7), "7"} {
			c := newTestContext(t, "/")
			c.Set("user_id", v)
			id, err := getUserID(c)
			require.NoError(t, err)
			assert.Equal(t, uint64(7), id)
		}
	})

	t.Run("rejects a missing or malformed claim", func(t *testing.T) {
		c := newTestContext(t, "/")
		if _, err := getUserID(c); err == nil {
			t.Fatal("expected error for unset user_id")
		}
		c.Set("user_id", "not-a-number")
		if _, err := getUserID(c); err == nil {
			t.Fatal("expected error for non-numeric user_id")
		}
	})
}

func TestParseIDRejectsZeroAndGarbage(t *testing.T) {
	e := echo.New()

	makeCtx := func(raw string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(raw)
		return c
	}

	id, err := parseID(makeCtx("15"), "id")
	require.NoError(t, err)
	assert.Equal(t, uint64(15), id)

	for _, raw := range []string{"0", "-3", "abc", ""} {
		if _, err := parseID(makeCtx(raw), "id"); err == nil {
			t.Errorf("parseID(%q) expected error", raw)
		}
	}
}

func TestJSONErrorBodyShape(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, jsonError(c, http.StatusNotFound, "booking not found"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"statusCode":404,"message":"booking not found"}`, rec.Body.String())
}
