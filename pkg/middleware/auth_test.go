package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"delay-tracker/pkg/service"
	"delay-tracker/pkg/utils"
)

func runAuth(t *testing.T, authHeader string, jwtSvc service.JWTService) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := NewAuthMiddleware(jwtSvc, zap.NewNop()).Auth(func(c echo.Context) error {
		reached = true
		id, err := utils.GetUserIDFromCtx(c.Request().Context())
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	return rec, reached
}

func TestAuth_ValidToken(t *testing.T) {
	jwtSvc := service.NewJWTService("test-secret", time.Hour, time.Hour)
	access, _, err := jwtSvc.GenerateTokens(42)
	require.NoError(t, err)

	rec, reached := runAuth(t, "Bearer "+access, jwtSvc)
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_MissingHeader(t *testing.T) {
	jwtSvc := service.NewJWTService("test-secret", time.Hour, time.Hour)

	rec, reached := runAuth(t, "", jwtSvc)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	jwtSvc := service.NewJWTService("test-secret", time.Hour, time.Hour)

	rec, reached := runAuth(t, "Token abc", jwtSvc)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_RefreshTokenRejected(t *testing.T) {
	jwtSvc := service.NewJWTService("test-secret", time.Hour, time.Hour)
	_, refresh, err := jwtSvc.GenerateTokens(42)
	require.NoError(t, err)

	rec, reached := runAuth(t, "Bearer "+refresh, jwtSvc)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
