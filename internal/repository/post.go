// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"murmur/internal/models"
	"murmur/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.Post, error)
	UpdateContent(ctx context.Context, id uint, title, content string, editorID uint) (bool, error)
	SoftDelete(ctx context.Context, id uint, deletedBy uint) (bool, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	done := observability.TrackQuery("insert", "posts")
	defer done()
	return r.db.WithContext(ctx).Create(post).Error
}

// GetByID returns the post regardless of its deleted state; callers decide
// whether a tombstone is visible to the requesting actor.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	done := observability.TrackQuery("select", "posts")
	defer done()

	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("User").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	done := observability.TrackQuery("select", "posts")
	defer done()

	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("User").
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	done := observability.TrackQuery("select", "posts")
	defer done()

	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("User").
		Where("is_deleted = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// Search matches posts against the stored tsvector built from title and content.
// plainto_tsquery stems and tokenizes the raw query, so "running" finds "run".
func (r *postRepository) Search(ctx context.Context, query string, limit, offset int) ([]*models.Post, error) {
	done := observability.TrackQuery("select", "posts")
	defer done()

	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("User").
		Where("is_deleted = ?", false).
		Where("search_vector @@ plainto_tsquery('english', ?)", query).
		Order(gorm.Expr("ts_rank(search_vector, plainto_tsquery('english', ?)) DESC, created_at DESC", query)).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// applyPostDetails adds a subquery to fetch the active comment count in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.is_deleted = FALSE) as comments_count")
}

// UpdateContent rewrites the post body and stamps the edit marker in one
// conditional UPDATE. The is_deleted guard makes concurrent edit-vs-delete
// races resolve at the database: a false return means the post was already
// tombstoned when the update ran.
func (r *postRepository) UpdateContent(ctx context.Context, id uint, title, content string, editorID uint) (bool, error) {
	done := observability.TrackQuery("update", "posts")
	defer done()

	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"title":     title,
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

// SoftDelete tombstones the post. A false return means another request
// deleted it first.
func (r *postRepository) SoftDelete(ctx context.Context, id uint, deletedBy uint) (bool, error) {
	done := observability.TrackQuery("update", "posts")
	defer done()

	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
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
