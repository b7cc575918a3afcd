package service

import (
	"context"
	"strings"

	"murmur/internal/authz"
	"murmur/internal/models"
	"murmur/internal/repository"
)

const maxCommentLen = 10000

// CommentService owns the comment lifecycle. Comments follow the same
// tombstone rules as posts and may optionally reply to a parent comment on
// the same post.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	Actor    authz.Actor
	PostID   uint
	ParentID *uint
	Content  string
}

type UpdateCommentInput struct {
	Actor     authz.Actor
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	Actor     authz.Actor
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, models.NewInternalError(err)
	}
	if post.IsDeleted {
		return nil, models.NewGoneError("Post", in.PostID)
	}

	if in.ParentID != nil {
		parent, err := s.lookupComment(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
		if parent.IsDeleted {
			return nil, models.NewGoneError("Comment", *in.ParentID)
		}
	}

	comment := &models.Comment{
		Content:  content,
		UserID:   in.Actor.ID,
		PostID:   in.PostID,
		ParentID: in.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}

	return s.lookupComment(ctx, comment.ID)
}

// GetComment returns the comment; a tombstoned comment reads back as gone.
func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.lookupComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.IsDeleted {
		return nil, models.NewGoneError("Comment", id)
	}
	return comment, nil
}

// ListComments lists the active comments on an existing, non-deleted post.
func (s *CommentService) ListComments(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, models.NewInternalError(err)
	}
	if post.IsDeleted {
		return nil, models.NewGoneError("Post", postID)
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// UpdateComment edits a comment's content under the same rules as post
// edits: author or admin, never on a tombstone, and the edit marker records
// the most recent editor.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment, err := s.lookupComment(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.IsDeleted {
		return nil, models.NewAlreadyDeletedError("Comment", in.CommentID)
	}
	if !authz.CanEditResource(in.Actor, comment.UserID) {
		return nil, models.NewForbiddenError(authz.ReasonOwnerOrAdminOnly)
	}

	updated, err := s.commentRepo.UpdateContent(ctx, in.CommentID, content, in.Actor.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !updated {
		// Lost the race against a concurrent delete.
		return nil, models.NewAlreadyDeletedError("Comment", in.CommentID)
	}

	return s.lookupComment(ctx, in.CommentID)
}

// DeleteComment tombstones a comment; a repeat delete is a conflict.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.lookupComment(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment.IsDeleted {
		return models.NewAlreadyDeletedError("Comment", in.CommentID)
	}
	if !authz.CanDeleteResource(in.Actor, comment.UserID) {
		return models.NewForbiddenError(authz.ReasonOwnerOrAdminOnly)
	}

	deleted, err := s.commentRepo.SoftDelete(ctx, in.CommentID, in.Actor.ID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !deleted {
		return models.NewAlreadyDeletedError("Comment", in.CommentID)
	}
	return nil
}

func (s *CommentService) lookupComment(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}
