package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveWithMiddleware(t *testing.T, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.Use(Middleware())
	e.GET("/test", handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareMapsStructuredErrors(t *testing.T) {
	rec := serveWithMiddleware(t, func(c echo.Context) error {
		return ForbiddenError("not the author").WithContext("question_id", "abc")
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not the author", resp.Error)
	assert.Equal(t, TypeForbidden, resp.Type)
	assert.Equal(t, "abc", resp.Context["question_id"])
}

func TestMiddlewareWrapsPlainErrors(t *testing.T) {
	rec := serveWithMiddleware(t, func(c echo.Context) error {
		return assert.AnError
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp.Error)
	assert.Equal(t, TypeInternal, resp.Type)
	assert.NotContains(t, resp.Error, assert.AnError.Error(), "cause must not leak to clients")
}

func TestMiddlewarePassesHTTPErrorsThrough(t *testing.T) {
	rec := serveWithMiddleware(t, func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication token")
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWrapHTTPError(t *testing.T) {
	err := WrapHTTPError(echo.NewHTTPError(http.StatusNotFound, "no such route"))
	assert.Equal(t, TypeNotFound, err.Type)
	assert.Equal(t, "no such route", err.Message)

	err = WrapHTTPError(echo.NewHTTPError(http.StatusTeapot))
	assert.Equal(t, TypeInternal, err.Type)
}

func TestMiddlewareLeavesSuccessAlone(t *testing.T) {
	rec := serveWithMiddleware(t, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}
