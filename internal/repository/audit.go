package repository

import (
	"context"
	"errors"
	"time"

	"murmur/internal/models"
	"murmur/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditRepository defines persistence operations for audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AuditLog, error)
	List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLog, int64, error)
	Recent(ctx context.Context, limit int) ([]models.AuditLog, error)
	ForResource(ctx context.Context, resourceType string, resourceID uint, limit, offset int) ([]models.AuditLog, error)
	ForUser(ctx context.Context, userID uint, limit, offset int) ([]models.AuditLog, error)
	Stats(ctx context.Context, from, to time.Time) (*models.AuditStats, error)
	Purge(ctx context.Context, olderThan time.Time) (int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository returns a new AuditRepository implementation.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	done := observability.TrackQuery("insert", "audit_logs")
	defer done()
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AuditLog, error) {
	done := observability.TrackQuery("select", "audit_logs")
	defer done()

	var entry models.AuditLog
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("AuditLog", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &entry, nil
}

// List returns a page of entries matching the filter plus the total match count.
func (r *auditRepository) List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLog, int64, error) {
	done := observability.TrackQuery("select", "audit_logs")
	defer done()

	query := func() *gorm.DB {
		return r.applyFilter(r.db.WithContext(ctx).Model(&models.AuditLog{}), filter)
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var entries []models.AuditLog
	if err := query().
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&entries).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return entries, total, nil
}

func (r *auditRepository) applyFilter(db *gorm.DB, filter models.AuditLogFilter) *gorm.DB {
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		db = db.Where("action = ?", filter.Action)
	}
	if filter.ResourceType != "" {
		db = db.Where("resource_type = ?", filter.ResourceType)
	}
	if filter.ResourceID != nil {
		db = db.Where("resource_id = ?", *filter.ResourceID)
	}
	if filter.From != nil {
		db = db.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("created_at <= ?", *filter.To)
	}
	return db
}

func (r *auditRepository) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	done := observability.TrackQuery("select", "audit_logs")
	defer done()

	var entries []models.AuditLog
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

func (r *auditRepository) ForResource(ctx context.Context, resourceType string, resourceID uint, limit, offset int) ([]models.AuditLog, error) {
	done := observability.TrackQuery("select", "audit_logs")
	defer done()

	var entries []models.AuditLog
	if err := r.db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

func (r *auditRepository) ForUser(ctx context.Context, userID uint, limit, offset int) ([]models.AuditLog, error) {
	done := observability.TrackQuery("select", "audit_logs")
	defer done()

	var entries []models.AuditLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

// Stats aggregates entry counts by action and by resource type over a window.
// Zero From/To bounds are treated as open-ended.
func (r *auditRepository) Stats(ctx context.Context, from, to time.Time) (*models.AuditStats, error) {
	done := observability.TrackQuery("select", "audit_logs")
	defer done()

	window := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.AuditLog{})
		if !from.IsZero() {
			q = q.Where("created_at >= ?", from)
		}
		if !to.IsZero() {
			q = q.Where("created_at <= ?", to)
		}
		return q
	}

	stats := &models.AuditStats{
		ByAction:       map[string]int64{},
		ByResourceType: map[string]int64{},
	}

	if err := window().Count(&stats.Total).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var byAction []bucket
	if err := window().
		Select("action as key, COUNT(*) as count").
		Group("action").
		Scan(&byAction).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, b := range byAction {
		stats.ByAction[b.Key] = b.Count
	}

	var byResource []bucket
	if err := window().
		Select("resource_type as key, COUNT(*) as count").
		Group("resource_type").
		Scan(&byResource).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, b := range byResource {
		stats.ByResourceType[b.Key] = b.Count
	}

	return stats, nil
}

// Purge hard-deletes entries created before the cutoff and reports how many
// rows went away.
func (r *auditRepository) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	done := observability.TrackQuery("delete", "audit_logs")
	defer done()

	result := r.db.WithContext(ctx).
		Where("created_at < ?", olderThan).
		Delete(&models.AuditLog{})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}
