// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"errors"
	"strings"
	"unicode"

	"murmur/internal/authz"
	"murmur/internal/models"
	"murmur/internal/query"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parsePagination extracts limit and offset query parameters, substituting the
// default limit when absent and clamping both into their valid ranges.
func parsePagination(c *fiber.Ctx, defaultLimit int) query.Page {
	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)
	return query.NormalizeDefault(limit, offset, defaultLimit)
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID", "commentId" -> "comment ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// actorFromLocals builds the authorization actor from the identity the auth
// middleware stored in the request locals.
func actorFromLocals(c *fiber.Ctx) authz.Actor {
	actor := authz.Actor{Role: models.RoleUser}
	if id, ok := c.Locals("userID").(uint); ok {
		actor.ID = id
	}
	if role, ok := c.Locals("role").(models.Role); ok && role.Valid() {
		actor.Role = role
	}
	return actor
}

// respondServiceError maps an AppError from the service layer to its HTTP
// status. Unknown errors become opaque 500s.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	status := fiber.StatusInternalServerError
	switch appErr.Code {
	case models.CodeNotFound:
		status = fiber.StatusNotFound
	case models.CodeValidation:
		status = fiber.StatusBadRequest
	case models.CodeUnauthorized:
		status = fiber.StatusUnauthorized
	case models.CodeForbidden:
		status = fiber.StatusForbidden
	case models.CodeAlreadyDeleted:
		status = fiber.StatusConflict
	case models.CodeGone:
		status = fiber.StatusGone
	}
	return models.RespondWithError(c, status, appErr)
}
