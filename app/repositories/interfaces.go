package repositories

import "inkwell/app/models"

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	List() ([]*models.Post, error)
	Update(post *models.Post) error
	Delete(id int) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id int) (*models.Comment, error)
	ListByPost(postID int) ([]*models.Comment, error)
	CountByPost(postID int) (int, error)
	Update(comment *models.Comment) error
	Delete(id int) error
	DeleteByPost(postID int) error
}

// RelationRepository defines the interface for like/bookmark data
// access. Toggle reports whether the relation was added (true) or
// removed (false).
type RelationRepository interface {
	Toggle(kind models.RelationKind, postID int, userID string) (bool, error)
	Exists(kind models.RelationKind, postID int, userID string) (bool, error)
	CountByPost(kind models.RelationKind, postID int) (int, error)
	ListPostIDsByUser(kind models.RelationKind, userID string) ([]int, error)
	DeleteByPost(postID int) error
}

// UserRepository defines the interface for user data access. Create
// and Update return ErrConflict when the username or email is taken.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
}
