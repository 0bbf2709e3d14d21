package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meetmind/pkg/jwt"
)

func serve(t *testing.T, mgr *jwt.Manager, setup func(*http.Request)) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/meetings", nil)
	setup(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := EchoAuth(mgr)(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	require.NoError(t, handler(c))
	return rec, c
}

func TestEchoAuth(t *testing.T) {
	mgr := jwt.NewManager("secret", time.Hour)
	userID := uuid.New()
	token, err := mgr.GenerateAccessToken(userID, "owner@example.com", "Owner")
	require.NoError(t, err)

	rec, c := serve(t, mgr, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) })
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, userID, c.Get(ContextUserID))
	assert.Equal(t, "owner@example.com", c.Get(ContextUserEmail))
	assert.Equal(t, "Owner", c.Get(ContextUserName))

	rec, _ = serve(t, mgr, func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "access_token", Value: token}) })
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestEchoAuth_Rejects(t *testing.T) {
	mgr := jwt.NewManager("secret", time.Hour)
	expired, err := jwt.NewManager("secret", -time.Minute).GenerateAccessToken(uuid.New(), "a@b.c", "")
	require.NoError(t, err)
	foreign, err := jwt.NewManager("other", time.Hour).GenerateAccessToken(uuid.New(), "a@b.c", "")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		body   string
	}{
		{name: "missing", header: "", body: `"code":1005`},
		{name: "wrong scheme", header: "Basic abc", body: `"code":1005`},
		{name: "bad signature", header: "Bearer " + foreign, body: `"code":2001`},
		{name: "expired", header: "Bearer " + expired, body: `"code":2002`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, c := serve(t, mgr, func(r *http.Request) {
				if tt.header != "" {
					r.Header.Set("Authorization", tt.header)
				}
			})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
			assert.Nil(t, c.Get(ContextUserID))
		})
	}
}
