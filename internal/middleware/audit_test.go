package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"murmur/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorderStub struct {
	entries []*models.AuditLog
}

func (r *recorderStub) Record(entry *models.AuditLog) {
	r.entries = append(r.entries, entry)
}

func auditApp(rec *recorderStub, actorID uint) *fiber.App {
	app := fiber.New()
	if actorID != 0 {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("userID", actorID)
			c.Locals("username", "ada")
			return c.Next()
		})
	}
	app.Use(AuditTrail(rec))
	app.Delete("/api/posts/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Post("/api/auth/login", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Put("/api/posts/:id", func(c *fiber.Ctx) error {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("only the author or an admin may modify this resource"))
	})
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAuditTrailDeletePost(t *testing.T) {
	rec := &recorderStub{}
	app := auditApp(rec, 3)

	req := httptest.NewRequest(http.MethodDelete, "/api/posts/42", nil)
	req.Header.Set("User-Agent", "curl/8.0")
	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	require.Len(t, rec.entries, 1)
	entry := rec.entries[0]
	assert.Equal(t, models.AuditActionDelete, entry.Action)
	assert.Equal(t, models.AuditResourcePost, entry.ResourceType)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, uint(42), *entry.ResourceID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, uint(3), *entry.UserID)
	assert.Equal(t, "ada", entry.Username)
	assert.Equal(t, "curl/8.0", entry.UserAgent)
}

func TestAuditTrailLoginOverride(t *testing.T) {
	rec := &recorderStub{}
	app := auditApp(rec, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.com"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	require.Len(t, rec.entries, 1)
	assert.Equal(t, models.AuditActionLogin, rec.entries[0].Action)
	assert.Equal(t, models.AuditResourceAuth, rec.entries[0].ResourceType)
	assert.Nil(t, rec.entries[0].UserID)
	assert.JSONEq(t, `{"email":"a@b.com"}`, string(rec.entries[0].NewValues))
}

func TestAuditTrailCapturesErrorEnvelope(t *testing.T) {
	rec := &recorderStub{}
	app := auditApp(rec, 5)

	req := httptest.NewRequest(http.MethodPut, "/api/posts/9", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	require.Len(t, rec.entries, 1)
	entry := rec.entries[0]
	assert.Equal(t, fiber.StatusForbidden, entry.StatusCode)
	assert.Equal(t, "only the author or an admin may modify this resource", entry.ErrorMessage)
	assert.False(t, entry.Succeeded())
}

func TestAuditTrailForwardedFor(t *testing.T) {
	rec := &recorderStub{}
	app := auditApp(rec, 3)

	req := httptest.NewRequest(http.MethodDelete, "/api/posts/42", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	require.Len(t, rec.entries, 1)
	assert.Equal(t, "203.0.113.9", rec.entries[0].ClientIP)
}

func TestAuditTrailSkipsUnderivable(t *testing.T) {
	rec := &recorderStub{}
	app := auditApp(rec, 3)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Empty(t, rec.entries)
}
