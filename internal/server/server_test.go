package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"murmur/internal/config"
	"murmur/internal/middleware"
	"murmur/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Builds the server through the real constructor and exercises protected
// routes with and without a Bearer token, so a startup path that forgets to
// hand the config to the auth middleware fails here instead of in
// production. One constructor call for the whole test: the prometheus
// middleware registers collectors globally and cannot be built twice.
func TestNewServerWithDeps_WiresAuthMiddleware(t *testing.T) {
	// Reset the middleware config so the constructor has to set it.
	middleware.InitMiddleware(nil)

	cfg := &config.Config{JWTSecret: "wiring-test-secret"}
	s, err := NewServerWithDeps(cfg, nil, nil)
	require.NoError(t, err)

	app := fiber.New()
	s.SetupRoutes(app)

	t.Run("valid token reaches the admin gate", func(t *testing.T) {
		token, err := s.generateToken(&models.User{
			ID:       3,
			Username: "ada",
			Role:     models.RoleUser,
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/audit-logs/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		// 403 means the token was verified (a bad secret would give 401)
		// and the non-admin was stopped at the admin gate.
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
