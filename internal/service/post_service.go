package service

import (
	"context"
	"strings"

	"murmur/internal/authz"
	"murmur/internal/models"
	"murmur/internal/repository"
)

const (
	maxPostTitleLen   = 300
	maxPostContentLen = 50000
)

// PostService owns the lifecycle of posts: creation, reads that respect
// tombstones, edit tracking, and soft deletion.
//
// Mutations check in a fixed order: does the post exist, is it already
// deleted, may this actor touch it. Earlier checks win, so a non-author
// hitting a missing post sees "not found" rather than "forbidden".
type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	Actor   authz.Actor
	Title   string
	Content string
}

type UpdatePostInput struct {
	Actor   authz.Actor
	PostID  uint
	Title   string
	Content string
}

type DeletePostInput struct {
	Actor  authz.Actor
	PostID uint
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)

	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxPostTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	post := &models.Post{
		Title:   title,
		Content: content,
		UserID:  in.Actor.ID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}

	// Reload to pick up the author association and timestamps.
	return s.lookupPost(ctx, post.ID)
}

// GetPost returns the post or an error distinguishing "never existed" from
// "removed": a tombstoned post reads back as gone, not as not found.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.lookupPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.IsDeleted {
		return nil, models.NewGoneError("Post", id)
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	posts, err := s.postRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	posts, err := s.postRepo.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int) ([]*models.Post, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	posts, err := s.postRepo.Search(ctx, query, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// UpdatePost edits a post's title and content. The author and admins may
// edit; the edit marker always records the most recent editor, so an admin
// edit shows up as edited_by admin even on someone else's post.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxPostTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	post, err := s.lookupPost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.IsDeleted {
		return nil, models.NewAlreadyDeletedError("Post", in.PostID)
	}
	if !authz.CanEditResource(in.Actor, post.UserID) {
		return nil, models.NewForbiddenError(authz.ReasonOwnerOrAdminOnly)
	}

	updated, err := s.postRepo.UpdateContent(ctx, in.PostID, title, content, in.Actor.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !updated {
		// Lost the race against a concurrent delete.
		return nil, models.NewAlreadyDeletedError("Post", in.PostID)
	}

	return s.lookupPost(ctx, in.PostID)
}

// DeletePost tombstones a post. Deleting an already-deleted post is a
// conflict, not a no-op; the first delete wins and keeps its deleted_by.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.lookupPost(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.IsDeleted {
		return models.NewAlreadyDeletedError("Post", in.PostID)
	}
	if !authz.CanDeleteResource(in.Actor, post.UserID) {
		return models.NewForbiddenError(authz.ReasonOwnerOrAdminOnly)
	}

	deleted, err := s.postRepo.SoftDelete(ctx, in.PostID, in.Actor.ID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !deleted {
		return models.NewAlreadyDeletedError("Post", in.PostID)
	}
	return nil
}

func (s *PostService) lookupPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return post, nil
}
