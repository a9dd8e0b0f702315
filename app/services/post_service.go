package services

import (
	"fmt"
	"sort"
	"time"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// PostService handles business logic for blog posts: creation,
// ownership-gated mutation, and read-side aggregation into PostViews.
type PostService struct {
	postRepo     repositories.PostRepository
	commentRepo  repositories.CommentRepository
	relationRepo repositories.RelationRepository
	images       ImageStore
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository,
	relationRepo repositories.RelationRepository, images ImageStore) *PostService {
	return &PostService{
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		relationRepo: relationRepo,
		images:       images,
	}
}

// PostPatch carries a partial update. Nil fields are left untouched.
type PostPatch struct {
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
	Image   *string  `json:"image"`
}

// CreatePost creates a new blog post with validation
func (s *PostService) CreatePost(post *models.Post) error {
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return err
	}
	return s.postRepo.Create(post)
}

// GetPost retrieves a post as a PostView with its comments embedded
// newest first
func (s *PostService) GetPost(id int, viewerID string) (*models.PostView, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	view, err := s.buildView(post, viewerID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %v", err)
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	view.Comments = comments
	view.CommentCount = len(comments)

	return view, nil
}

// ListPosts retrieves all posts as PostViews, newest first, without
// embedded comments
func (s *PostService) ListPosts(viewerID string) ([]*models.PostView, error) {
	posts, err := s.postRepo.List()
	if err != nil {
		return nil, err
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	views := make([]*models.PostView, 0, len(posts))
	for _, post := range posts {
		view, err := s.buildView(post, viewerID)
		if err != nil {
			return nil, err
		}
		count, err := s.commentRepo.CountByPost(post.ID)
		if err != nil {
			return nil, err
		}
		view.CommentCount = count
		views = append(views, view)
	}
	return views, nil
}

// UpdatePost applies a partial update to a post owned by userID.
// Omitted fields keep their stored values. When the image reference
// changes, the old image is released only after the updated record has
// been committed, so the record never points at a missing file.
func (s *PostService) UpdatePost(id int, userID string, patch PostPatch) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, ErrForbidden
	}

	oldImage := post.Image
	if patch.Title != nil {
		post.Title = *patch.Title
	}
	if patch.Content != nil {
		post.Content = *patch.Content
	}
	if patch.Tags != nil {
		post.Tags = patch.Tags
	}
	if patch.Image != nil {
		post.Image = *patch.Image
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}
	post.UpdatedAt = time.Now()

	if err := s.postRepo.Update(post); err != nil {
		return nil, err
	}

	if patch.Image != nil && oldImage != "" && oldImage != post.Image {
		// Record is committed; the old image is now unreferenced.
		_ = s.images.Remove(oldImage)
	}

	return post, nil
}

// DeletePost deletes a post owned by userID along with its comments,
// likes, bookmarks, and image
func (s *PostService) DeletePost(id int, userID string) error {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return ErrForbidden
	}

	if err := s.postRepo.Delete(id); err != nil {
		return err
	}
	if err := s.commentRepo.DeleteByPost(id); err != nil {
		return fmt.Errorf("failed to delete comments: %v", err)
	}
	if err := s.relationRepo.DeleteByPost(id); err != nil {
		return fmt.Errorf("failed to delete likes and bookmarks: %v", err)
	}
	if post.Image != "" {
		_ = s.images.Remove(post.Image)
	}
	return nil
}

// buildView assembles the aggregate fields of a PostView. Viewer flags
// stay false for anonymous reads (empty viewerID).
func (s *PostService) buildView(post *models.Post, viewerID string) (*models.PostView, error) {
	view := &models.PostView{Post: *post}

	likeCount, err := s.relationRepo.CountByPost(models.KindLike, post.ID)
	if err != nil {
		return nil, err
	}
	view.LikeCount = likeCount

	if viewerID != "" {
		liked, err := s.relationRepo.Exists(models.KindLike, post.ID, viewerID)
		if err != nil {
			return nil, err
		}
		bookmarked, err := s.relationRepo.Exists(models.KindBookmark, post.ID, viewerID)
		if err != nil {
			return nil, err
		}
		view.ViewerLiked = liked
		view.ViewerBookmarked = bookmarked
	}
	return view, nil
}
