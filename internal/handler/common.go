// Package handler implements the HTTP endpoints of the rental platform.
// Handlers own the business flow: they validate input, run multi-step
// mutations inside a single transaction and map repository sentinel errors
// onto HTTP status codes.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// requestError carries a client-facing status and message out of validation
// helpers so callers can distinguish request mistakes from server faults.
type requestError struct {
	code int
	msg  string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) *requestError {
	return &requestError{code: http.StatusBadRequest, msg: msg}
}

// jsonError writes the uniform error body used across the API.
func jsonError(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{
		"statusCode": code,
		"message":    msg,
	})
}

// serverError is the opaque 500 response; the cause is logged by the caller,
// never leaked to the client.
func serverError(c echo.Context) error {
	return jsonError(c, http.StatusInternalServerError, "internal server error")
}

// getUserID extracts the authenticated user's id from the context. The JWT
// middleware stores the raw claim, which the jwt library decodes as float64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseID parses a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// parsePagination reads the page and pageSize query parameters, falling back
// to page 1 / size 10 and clamping the size to 100.
func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = defaultPageSize
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := c.QueryParam("pageSize"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pageSize = n
		}
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// pagedResult is the envelope for every paginated listing.
type pagedResult struct {
	Items      interface{} `json:"items"`
	TotalCount int         `json:"totalCount"`
	PageNumber int         `json:"pageNumber"`
	PageSize   int         `json:"pageSize"`
}

func paged(c echo.Context, items interface{}, total, page, pageSize int) error {
	return c.JSON(http.StatusOK, pagedResult{
		Items:      items,
		TotalCount: total,
		PageNumber: page,
		PageSize:   pageSize,
	})
}
