package repository

import (
	"context"
	"time"

	"murmur/internal/models"
	"murmur/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error)
	UpdateContent(ctx context.Context, id uint, content string, editorID uint) (bool, error)
	SoftDelete(ctx context.Context, id uint, deletedBy uint) (bool, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	done := observability.TrackQuery("insert", "comments")
	defer done()
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetByID returns the comment including tombstones; visibility is the caller's call.
func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	done := observability.TrackQuery("select", "comments")
	defer done()

	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns the active comments on a post, oldest first so threads
// read top to bottom.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	done := observability.TrackQuery("select", "comments")
	defer done()

	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, err
}

// UpdateContent rewrites the comment body and stamps the edit marker. The
// is_deleted guard arbitrates edit-vs-delete races; false means the comment
// was already tombstoned.
func (r *commentRepository) UpdateContent(ctx context.Context, id uint, content string, editorID uint) (bool, error) {
	done := observability.TrackQuery("update", "comments")
	defer done()

	result := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"content":   content,
			"is_edited": true,
			"edited_by": editorID,
			"edited_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SoftDelete tombstones the comment; false means another request got there first.
func (r *commentRepository) SoftDelete(ctx context.Context, id uint, deletedBy uint) (bool, error) {
	done := observability.TrackQuery("update", "comments")
	defer done()

	result := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_by": deletedBy,
			"deleted_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
