package services

import (
	"fmt"
	"sort"
	"time"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// CommentService handles business logic for comments. Updates and
// deletes are gated on the comment's owning principal.
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateComment creates a new comment on an existing post
func (s *CommentService) CreateComment(comment *models.Comment) error {
	// Verify post exists
	if _, err := s.postRepo.GetByID(comment.PostID); err != nil {
		return err
	}

	comment.BeforeCreate()
	if err := comment.Validate(); err != nil {
		return err
	}
	return s.commentRepo.Create(comment)
}

// ListPostComments retrieves all comments for a post, newest first
func (s *CommentService) ListPostComments(postID int) ([]*models.Comment, error) {
	// Verify post exists
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %v", err)
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

// UpdateComment replaces the content of a comment owned by userID
func (s *CommentService) UpdateComment(id int, userID, content string) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, ErrForbidden
	}

	comment.Content = content
	if err := comment.Validate(); err != nil {
		return nil, err
	}
	comment.UpdatedAt = time.Now()

	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment deletes a comment owned by userID
func (s *CommentService) DeleteComment(id int, userID string) error {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return ErrForbidden
	}
	return s.commentRepo.Delete(id)
}
