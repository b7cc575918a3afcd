package server

import (
	"strconv"
	"time"

	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// defaultAuditPageSize is the page size for audit listings when the caller
// does not specify one. Larger than the API-wide default: audit review is
// an admin scanning history, not a feed.
const defaultAuditPageSize = 50

// ListAuditLogs handles GET /api/admin/audit-logs. Supports filtering by
// user_id, action, resource_type, resource_id and an RFC3339 from/to window.
func (s *Server) ListAuditLogs(c *fiber.Ctx) error {
	ctx := c.Context()

	filter, err := s.parseAuditFilter(c)
	if err != nil {
		return nil
	}

	entries, total, listErr := s.auditService.ListEntries(ctx, filter)
	if listErr != nil {
		return respondServiceError(c, listErr)
	}

	return c.JSON(fiber.Map{
		"entries": entries,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

// AuditStats handles GET /api/admin/audit-logs/stats
func (s *Server) AuditStats(c *fiber.Ctx) error {
	ctx := c.Context()

	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("from must be an RFC3339 timestamp"))
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("to must be an RFC3339 timestamp"))
		}
		to = parsed
	}

	stats, err := s.auditService.Stats(ctx, from, to)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(stats)
}

// RecentAuditLogs handles GET /api/admin/audit-logs/recent
func (s *Server) RecentAuditLogs(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, defaultAuditPageSize)

	entries, err := s.auditService.RecentEntries(ctx, page.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(entries)
}

// ResourceAuditLogs handles GET /api/admin/audit-logs/resource/:type/:id
func (s *Server) ResourceAuditLogs(c *fiber.Ctx) error {
	ctx := c.Context()

	resourceType := c.Params("type")
	resourceID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, defaultAuditPageSize)

	entries, histErr := s.auditService.ResourceHistory(ctx, resourceType, resourceID, page.Limit, page.Offset)
	if histErr != nil {
		return respondServiceError(c, histErr)
	}

	return c.JSON(entries)
}

// UserAuditLogs handles GET /api/admin/audit-logs/user/:id
func (s *Server) UserAuditLogs(c *fiber.Ctx) error {
	ctx := c.Context()

	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, defaultAuditPageSize)

	entries, actErr := s.auditService.UserActivity(ctx, userID, page.Limit, page.Offset)
	if actErr != nil {
		return respondServiceError(c, actErr)
	}

	return c.JSON(entries)
}

// PurgeAuditLogs handles DELETE /api/admin/audit-logs/purge. Without an
// older_than_days query param the configured retention window applies.
func (s *Server) PurgeAuditLogs(c *fiber.Ctx) error {
	ctx := c.Context()

	days := c.QueryInt("older_than_days", s.config.AuditRetentionDays)

	removed, err := s.auditService.Purge(ctx, service.PurgeAuditInput{
		OlderThanDays: days,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"removed":         removed,
		"older_than_days": days,
	})
}

// GetAuditLog handles GET /api/admin/audit-logs/:id
func (s *Server) GetAuditLog(c *fiber.Ctx) error {
	ctx := c.Context()

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid audit log ID"))
	}

	entry, getErr := s.auditService.GetEntry(ctx, id)
	if getErr != nil {
		return respondServiceError(c, getErr)
	}

	return c.JSON(entry)
}

// parseAuditFilter builds an AuditLogFilter from query params. On a malformed
// param it writes a 400 response and returns a non-nil error.
func (s *Server) parseAuditFilter(c *fiber.Ctx) (models.AuditLogFilter, error) {
	var filter models.AuditLogFilter

	page := parsePagination(c, defaultAuditPageSize)
	filter.Limit = page.Limit
	filter.Offset = page.Offset

	filter.Action = c.Query("action")
	filter.ResourceType = c.Query("resource_type")

	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("user_id must be a positive integer"))
			return filter, errResponseWritten
		}
		uid := uint(id)
		filter.UserID = &uid
	}

	if raw := c.Query("resource_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("resource_id must be a positive integer"))
			return filter, errResponseWritten
		}
		rid := uint(id)
		filter.ResourceID = &rid
	}

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("from must be an RFC3339 timestamp"))
			return filter, errResponseWritten
		}
		filter.From = &parsed
	}

	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("to must be an RFC3339 timestamp"))
			return filter, errResponseWritten
		}
		filter.To = &parsed
	}

	return filter, nil
}
