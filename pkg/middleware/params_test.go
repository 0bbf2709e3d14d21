package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDParam(t *testing.T) {
	e := echo.New()
	id := uuid.New()

	var got interface{}
	e.GET("/meetings/:id", func(c echo.Context) error {
		got = c.Get("meeting_id")
		return c.NoContent(http.StatusNoContent)
	}, UUIDParam("id", "meeting_id"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/meetings/"+id.String(), nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, id, got)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/meetings/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_id")
}

func TestRequireUser(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, RequireUser("user_id")(ok)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Set("user_id", uuid.New())
	require.NoError(t, RequireUser("user_id")(ok)(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
