package service

import (
	"context"
	"log/slog"
	"time"

	"murmur/internal/middleware"
	"murmur/internal/models"
	"murmur/internal/observability"
	"murmur/internal/repository"

	"github.com/google/uuid"
)

const auditWriteTimeout = 5 * time.Second

// AuditService records request audit entries and serves the admin query
// surface over them.
//
// Record is fire-and-forget: the write happens on its own goroutine with its
// own timeout so a slow audit insert never delays or fails the request that
// triggered it. A failed write is logged and counted, nothing more.
type AuditService struct {
	auditRepo repository.AuditRepository
}

type PurgeAuditInput struct {
	OlderThanDays int
}

func NewAuditService(auditRepo repository.AuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// Record persists the entry asynchronously. It never blocks and never
// reports an error to the caller.
func (s *AuditService) Record(entry *models.AuditLog) {
	if entry == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		defer cancel()

		if err := s.auditRepo.Create(ctx, entry); err != nil {
			observability.AuditWriteFailures.Inc()
			middleware.Logger.Error("Failed to write audit entry",
				slog.String("action", entry.Action),
				slog.String("resource_type", entry.ResourceType),
				slog.String("path", entry.Path),
				slog.String("error", err.Error()),
			)
			return
		}
		observability.AuditEntriesRecorded.WithLabelValues(entry.Action).Inc()
	}()
}

// ListEntries returns a filtered page of audit entries plus the total match count.
func (s *AuditService) ListEntries(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLog, int64, error) {
	return s.auditRepo.List(ctx, filter)
}

func (s *AuditService) GetEntry(ctx context.Context, id uuid.UUID) (*models.AuditLog, error) {
	return s.auditRepo.GetByID(ctx, id)
}

func (s *AuditService) RecentEntries(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return s.auditRepo.Recent(ctx, limit)
}

// ResourceHistory returns the audit trail of one resource, newest first.
func (s *AuditService) ResourceHistory(ctx context.Context, resourceType string, resourceID uint, limit, offset int) ([]models.AuditLog, error) {
	switch resourceType {
	case models.AuditResourcePost, models.AuditResourceComment, models.AuditResourceUser, models.AuditResourceAuth:
	default:
		return nil, models.NewValidationError("Unknown resource type")
	}
	return s.auditRepo.ForResource(ctx, resourceType, resourceID, limit, offset)
}

// UserActivity returns the audit trail of one actor, newest first.
func (s *AuditService) UserActivity(ctx context.Context, userID uint, limit, offset int) ([]models.AuditLog, error) {
	return s.auditRepo.ForUser(ctx, userID, limit, offset)
}

// Stats aggregates entry counts by action and resource type over a window.
func (s *AuditService) Stats(ctx context.Context, from, to time.Time) (*models.AuditStats, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, models.NewValidationError("Window end precedes window start")
	}
	return s.auditRepo.Stats(ctx, from, to)
}

// Purge removes entries older than the given number of days and reports how
// many were removed.
func (s *AuditService) Purge(ctx context.Context, in PurgeAuditInput) (int64, error) {
	if in.OlderThanDays < 1 {
		return 0, models.NewValidationError("Retention window must be at least one day")
	}
	cutoff := time.Now().AddDate(0, 0, -in.OlderThanDays)
	removed, err := s.auditRepo.Purge(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		middleware.Logger.Info("Purged audit entries",
			slog.Int64("removed", removed),
			slog.Int("older_than_days", in.OlderThanDays),
		)
	}
	return removed, nil
}
