package middleware

import (
	"encoding/json"
	"strings"

	"murmur/internal/audit"
	"murmur/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AuditRecorder persists derived audit entries. Record must never block the
// caller; implementations write asynchronously and swallow failures.
type AuditRecorder interface {
	Record(entry *models.AuditLog)
}

// AuditTrail returns a middleware that derives an audit entry from every
// completed request and hands it to the recorder. It runs after the primary
// handler; recording can never alter the response already produced.
func AuditTrail(recorder AuditRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Capture the body before the handler; fasthttp reuses buffers.
		var body []byte
		if c.Method() != fiber.MethodGet {
			if raw := c.Body(); len(raw) > 0 {
				body = make([]byte, len(raw))
				copy(body, raw)
			}
		}

		err := c.Next()

		info := audit.RequestInfo{
			Method:      c.Method(),
			Path:        c.Path(),
			StatusCode:  c.Response().StatusCode(),
			ClientIP:    clientIP(c),
			UserAgent:   c.Get("User-Agent"),
			RequestBody: body,
		}
		if uid, ok := c.Locals("userID").(uint); ok {
			info.ActorID = &uid
		}
		if username, ok := c.Locals("username").(string); ok {
			info.ActorUsername = username
		}
		if info.StatusCode >= 400 {
			info.ErrorMessage = extractErrorMessage(c.Response().Body())
		}

		if entry, ok := audit.DeriveEntry(info); ok {
			recorder.Record(entry)
		}

		return err
	}
}

// clientIP prefers the first hop of X-Forwarded-For, falling back to the raw
// socket address.
func clientIP(c *fiber.Ctx) string {
	if fwd := c.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	return c.IP()
}

// extractErrorMessage pulls the error string out of a failed response
// envelope. A body that is not our JSON error shape yields "".
func extractErrorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Error
}
