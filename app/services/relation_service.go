package services

import (
	"inkwell/app/models"
	"inkwell/app/repositories"
)

// RelationService handles the toggle semantics shared by likes and
// bookmarks: at most one relation per (user, post), alternating
// added/removed on repeated toggles.
type RelationService struct {
	relationRepo repositories.RelationRepository
	postRepo     repositories.PostRepository
}

// NewRelationService creates a new RelationService
func NewRelationService(relationRepo repositories.RelationRepository, postRepo repositories.PostRepository) *RelationService {
	return &RelationService{
		relationRepo: relationRepo,
		postRepo:     postRepo,
	}
}

// ToggleResult reports the outcome of a toggle call
type ToggleResult struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

// RelationStatus is the read-side view of a relation on a post
type RelationStatus struct {
	Count             int  `json:"count"`
	ViewerHasRelation bool `json:"viewerHasRelation"`
}

const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
)

// Toggle flips the (kind, post, user) relation and reports which way it
// went, with the post's live relation count. Calling it twice in a row
// yields added then removed, never added twice.
func (s *RelationService) Toggle(kind models.RelationKind, postID int, userID string) (*ToggleResult, error) {
	// Verify post exists
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return nil, err
	}

	added, err := s.relationRepo.Toggle(kind, postID, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.relationRepo.CountByPost(kind, postID)
	if err != nil {
		return nil, err
	}

	result := &ToggleResult{Action: ActionRemoved, Count: count}
	if added {
		result.Action = ActionAdded
	}
	return result, nil
}

// Status returns the live relation count for a post and whether the
// viewer holds the relation. The flag is false for anonymous viewers.
func (s *RelationService) Status(kind models.RelationKind, postID int, viewerID string) (*RelationStatus, error) {
	// Verify post exists
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return nil, err
	}

	count, err := s.relationRepo.CountByPost(kind, postID)
	if err != nil {
		return nil, err
	}

	status := &RelationStatus{Count: count}
	if viewerID != "" {
		exists, err := s.relationRepo.Exists(kind, postID, viewerID)
		if err != nil {
			return nil, err
		}
		status.ViewerHasRelation = exists
	}
	return status, nil
}

// ListPosts returns the posts the user holds the relation with. Rows
// pointing at posts deleted since are skipped.
func (s *RelationService) ListPosts(kind models.RelationKind, userID string) ([]*models.Post, error) {
	postIDs, err := s.relationRepo.ListPostIDsByUser(kind, userID)
	if err != nil {
		return nil, err
	}

	posts := make([]*models.Post, 0, len(postIDs))
	for _, id := range postIDs {
		post, err := s.postRepo.GetByID(id)
		if err == repositories.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}
