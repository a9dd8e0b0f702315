package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/repositories/mock"
)

type fakeImageStore struct {
	removed []string
}

func (f *fakeImageStore) Remove(ref string) error {
	f.removed = append(f.removed, ref)
	return nil
}

func newTestPostService() (*PostService, *mock.PostRepository, *mock.CommentRepository, *mock.RelationRepository, *fakeImageStore) {
	postRepo := mock.NewPostRepository()
	commentRepo := mock.NewCommentRepository()
	relationRepo := mock.NewRelationRepository()
	images := &fakeImageStore{}
	service := NewPostService(postRepo, commentRepo, relationRepo, images)
	return service, postRepo, commentRepo, relationRepo, images
}

func newServicePost(userID string) *models.Post {
	return &models.Post{
		Title:   "Hello World",
		Content: "0123456789",
		Author:  "alice",
		UserID:  userID,
		Tags:    []string{"a"},
	}
}

func TestPostServiceCreate(t *testing.T) {
	service, _, _, _, _ := newTestPostService()

	t.Run("create post", func(t *testing.T) {
		post := newServicePost("u1")
		err := service.CreatePost(post)
		assert.NoError(t, err)
		assert.Equal(t, 1, post.ID)
		assert.False(t, post.CreatedAt.IsZero())
	})

	t.Run("validation boundaries", func(t *testing.T) {
		short := newServicePost("u1")
		short.Title = "ab"
		err := service.CreatePost(short)
		var verr *models.ValidationError
		assert.ErrorAs(t, err, &verr)

		noTags := newServicePost("u1")
		noTags.Tags = nil
		assert.Error(t, service.CreatePost(noTags))
	})
}

func TestPostServiceAggregation(t *testing.T) {
	service, _, commentRepo, relationRepo, _ := newTestPostService()

	post := newServicePost("u1")
	assert.NoError(t, service.CreatePost(post))

	// two likes, one bookmark, two comments
	_, err := relationRepo.Toggle(models.KindLike, post.ID, "u1")
	assert.NoError(t, err)
	_, err = relationRepo.Toggle(models.KindLike, post.ID, "u2")
	assert.NoError(t, err)
	_, err = relationRepo.Toggle(models.KindBookmark, post.ID, "u2")
	assert.NoError(t, err)

	older := &models.Comment{PostID: post.ID, Content: "first", Author: "bob", UserID: "u2",
		CreatedAt: time.Now().Add(-time.Hour)}
	newer := &models.Comment{PostID: post.ID, Content: "second", Author: "bob", UserID: "u2",
		CreatedAt: time.Now()}
	assert.NoError(t, commentRepo.Create(older))
	assert.NoError(t, commentRepo.Create(newer))

	t.Run("counts match the stores", func(t *testing.T) {
		view, err := service.GetPost(post.ID, "u1")
		assert.NoError(t, err)
		assert.Equal(t, 2, view.LikeCount)
		assert.Equal(t, 2, view.CommentCount)
	})

	t.Run("viewer flags reflect the viewer's rows", func(t *testing.T) {
		view, err := service.GetPost(post.ID, "u1")
		assert.NoError(t, err)
		assert.True(t, view.ViewerLiked)
		assert.False(t, view.ViewerBookmarked)

		view, err = service.GetPost(post.ID, "u2")
		assert.NoError(t, err)
		assert.True(t, view.ViewerLiked)
		assert.True(t, view.ViewerBookmarked)
	})

	t.Run("anonymous viewer gets false flags", func(t *testing.T) {
		view, err := service.GetPost(post.ID, "")
		assert.NoError(t, err)
		assert.True(t, view.LikeCount > 0)
		assert.False(t, view.ViewerLiked)
		assert.False(t, view.ViewerBookmarked)
	})

	t.Run("comments embedded newest first", func(t *testing.T) {
		view, err := service.GetPost(post.ID, "")
		assert.NoError(t, err)
		assert.Len(t, view.Comments, 2)
		assert.Equal(t, "second", view.Comments[0].Content)
		assert.Equal(t, "first", view.Comments[1].Content)
	})

	t.Run("list carries aggregates without comments", func(t *testing.T) {
		views, err := service.ListPosts("u1")
		assert.NoError(t, err)
		assert.Len(t, views, 1)
		assert.Equal(t, 2, views[0].LikeCount)
		assert.Equal(t, 2, views[0].CommentCount)
		assert.Nil(t, views[0].Comments)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := service.GetPost(999, "")
		assert.Equal(t, repositories.ErrNotFound, err)
	})
}

func TestPostServiceOwnershipGate(t *testing.T) {
	service, _, _, _, _ := newTestPostService()

	post := newServicePost("u1")
	assert.NoError(t, service.CreatePost(post))

	newTitle := "Changed Title"

	t.Run("non-owner update is forbidden and mutates nothing", func(t *testing.T) {
		_, err := service.UpdatePost(post.ID, "u2", PostPatch{Title: &newTitle})
		assert.Equal(t, ErrForbidden, err)

		view, err := service.GetPost(post.ID, "")
		assert.NoError(t, err)
		assert.Equal(t, "Hello World", view.Title)
	})

	t.Run("non-owner delete is forbidden", func(t *testing.T) {
		assert.Equal(t, ErrForbidden, service.DeletePost(post.ID, "u2"))
	})

	t.Run("owner update applies only provided fields", func(t *testing.T) {
		updated, err := service.UpdatePost(post.ID, "u1", PostPatch{Title: &newTitle})
		assert.NoError(t, err)
		assert.Equal(t, newTitle, updated.Title)
		assert.Equal(t, "0123456789", updated.Content)
		assert.Equal(t, []string{"a"}, updated.Tags)
		assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))
	})

	t.Run("legacy anonymous post is owned by nobody", func(t *testing.T) {
		orphan := newServicePost("")
		assert.NoError(t, service.CreatePost(orphan))

		_, err := service.UpdatePost(orphan.ID, "u1", PostPatch{Title: &newTitle})
		assert.Equal(t, ErrForbidden, err)
	})
}

func TestPostServiceImageLifecycle(t *testing.T) {
	service, _, _, _, images := newTestPostService()

	post := newServicePost("u1")
	post.Image = "old.png"
	assert.NoError(t, service.CreatePost(post))

	t.Run("replacing the image releases the old one", func(t *testing.T) {
		newImage := "new.png"
		_, err := service.UpdatePost(post.ID, "u1", PostPatch{Image: &newImage})
		assert.NoError(t, err)
		assert.Equal(t, []string{"old.png"}, images.removed)
	})

	t.Run("update without image field releases nothing", func(t *testing.T) {
		title := "Another Title"
		_, err := service.UpdatePost(post.ID, "u1", PostPatch{Title: &title})
		assert.NoError(t, err)
		assert.Len(t, images.removed, 1)
	})

	t.Run("delete releases the current image", func(t *testing.T) {
		assert.NoError(t, service.DeletePost(post.ID, "u1"))
		assert.Equal(t, []string{"old.png", "new.png"}, images.removed)
	})
}

func TestPostServiceCascadeDelete(t *testing.T) {
	service, _, commentRepo, relationRepo, _ := newTestPostService()

	post := newServicePost("u1")
	assert.NoError(t, service.CreatePost(post))

	comment := &models.Comment{PostID: post.ID, Content: "hi", Author: "bob", UserID: "u2"}
	comment.BeforeCreate()
	assert.NoError(t, commentRepo.Create(comment))
	_, err := relationRepo.Toggle(models.KindLike, post.ID, "u2")
	assert.NoError(t, err)
	_, err = relationRepo.Toggle(models.KindBookmark, post.ID, "u2")
	assert.NoError(t, err)

	assert.NoError(t, service.DeletePost(post.ID, "u1"))

	_, err = service.GetPost(post.ID, "")
	assert.Equal(t, repositories.ErrNotFound, err)

	comments, err := commentRepo.ListByPost(post.ID)
	assert.NoError(t, err)
	assert.Empty(t, comments)

	likes, err := relationRepo.CountByPost(models.KindLike, post.ID)
	assert.NoError(t, err)
	bookmarks, err := relationRepo.CountByPost(models.KindBookmark, post.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, likes)
	assert.Equal(t, 0, bookmarks)
}
