package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/repositories/mock"
)

func newTestCommentService() (*CommentService, *mock.PostRepository, *mock.CommentRepository) {
	postRepo := mock.NewPostRepository()
	commentRepo := mock.NewCommentRepository()
	service := NewCommentService(commentRepo, postRepo)
	return service, postRepo, commentRepo
}

func TestCommentServiceCreate(t *testing.T) {
	service, postRepo, _ := newTestCommentService()

	post := newServicePost("u1")
	assert.NoError(t, postRepo.Create(post))

	t.Run("create comment", func(t *testing.T) {
		comment := &models.Comment{PostID: post.ID, Content: "nice", Author: "bob", UserID: "u2"}
		err := service.CreateComment(comment)
		assert.NoError(t, err)
		assert.Equal(t, 1, comment.ID)
		assert.False(t, comment.CreatedAt.IsZero())
	})

	t.Run("comment on missing post", func(t *testing.T) {
		comment := &models.Comment{PostID: 999, Content: "nice", Author: "bob", UserID: "u2"}
		assert.Equal(t, repositories.ErrNotFound, service.CreateComment(comment))
	})

	t.Run("content boundaries", func(t *testing.T) {
		empty := &models.Comment{PostID: post.ID, Content: "", Author: "bob", UserID: "u2"}
		assert.Error(t, service.CreateComment(empty))

		long := &models.Comment{PostID: post.ID, Content: strings.Repeat("a", 501), Author: "bob", UserID: "u2"}
		assert.Error(t, service.CreateComment(long))
	})
}

func TestCommentServiceList(t *testing.T) {
	service, postRepo, commentRepo := newTestCommentService()

	post := newServicePost("u1")
	assert.NoError(t, postRepo.Create(post))

	older := &models.Comment{PostID: post.ID, Content: "older", Author: "bob", UserID: "u2",
		CreatedAt: time.Now().Add(-time.Minute)}
	newer := &models.Comment{PostID: post.ID, Content: "newer", Author: "bob", UserID: "u2",
		CreatedAt: time.Now()}
	assert.NoError(t, commentRepo.Create(older))
	assert.NoError(t, commentRepo.Create(newer))

	t.Run("newest first", func(t *testing.T) {
		comments, err := service.ListPostComments(post.ID)
		assert.NoError(t, err)
		assert.Len(t, comments, 2)
		assert.Equal(t, "newer", comments[0].Content)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := service.ListPostComments(999)
		assert.Equal(t, repositories.ErrNotFound, err)
	})
}

func TestCommentServiceOwnershipGate(t *testing.T) {
	service, postRepo, _ := newTestCommentService()

	post := newServicePost("u1")
	assert.NoError(t, postRepo.Create(post))

	comment := &models.Comment{PostID: post.ID, Content: "mine", Author: "bob", UserID: "u2"}
	assert.NoError(t, service.CreateComment(comment))

	t.Run("non-owner update is forbidden and mutates nothing", func(t *testing.T) {
		_, err := service.UpdateComment(comment.ID, "u3", "hijacked")
		assert.Equal(t, ErrForbidden, err)

		comments, err := service.ListPostComments(post.ID)
		assert.NoError(t, err)
		assert.Equal(t, "mine", comments[0].Content)
	})

	t.Run("non-owner delete is forbidden", func(t *testing.T) {
		assert.Equal(t, ErrForbidden, service.DeleteComment(comment.ID, "u3"))
	})

	t.Run("owner update", func(t *testing.T) {
		updated, err := service.UpdateComment(comment.ID, "u2", "edited")
		assert.NoError(t, err)
		assert.Equal(t, "edited", updated.Content)
	})

	t.Run("owner delete", func(t *testing.T) {
		assert.NoError(t, service.DeleteComment(comment.ID, "u2"))
		_, err := service.UpdateComment(comment.ID, "u2", "gone")
		assert.Equal(t, repositories.ErrNotFound, err)
	})
}
