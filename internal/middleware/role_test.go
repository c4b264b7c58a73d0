package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWithRole(t *testing.T, role interface{}, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}

	h := RequireRole(allowed...)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
	return rec
}

func TestRequireRoleAllows(t *testing.T) {
	rec := runWithRole(t, "Admin", "Admin", "Rental Agent")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsOther(t *testing.T) {
	rec := runWithRole(t, "Customer", "Admin")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"statusCode":403,"message":"forbidden"}`, rec.Body.String())
}

func TestRequireRoleRejectsMissing(t *testing.T) {
	rec := runWithRole(t, nil, "Admin")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleRejectsNonString(t *testing.T) {
	rec := runWithRole(t, 17, "Admin")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
