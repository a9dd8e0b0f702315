package models

import "time"

// Post represents a blog post. UserID is the owning principal; posts
// created before accounts existed have an empty UserID.
type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title" validate:"required,min=3,max=120"`
	Content   string    `json:"content" validate:"required,min=10"`
	Author    string    `json:"author" validate:"required"`
	UserID    string    `json:"userId,omitempty"`
	Tags      []string  `json:"tags" validate:"required,min=1,dive,required"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostView is a Post enriched with read-time aggregates and the
// requesting viewer's relation flags. Comments are only embedded on
// single-post reads.
type PostView struct {
	Post
	LikeCount        int        `json:"likeCount"`
	CommentCount     int        `json:"commentCount"`
	ViewerLiked      bool       `json:"viewerLiked"`
	ViewerBookmarked bool       `json:"viewerBookmarked"`
	Comments         []*Comment `json:"comments,omitempty"`
}

// Comment represents a comment on a blog post.
type Comment struct {
	ID        int       `json:"id"`
	PostID    int       `json:"postId" validate:"required,gte=1"`
	Content   string    `json:"content" validate:"required,min=1,max=500"`
	Author    string    `json:"author"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RelationKind distinguishes the two toggleable per-(user, post)
// relations.
type RelationKind string

const (
	KindLike     RelationKind = "like"
	KindBookmark RelationKind = "bookmark"
)

// Relation is a Like or Bookmark row. At most one exists per
// (kind, post, user); the store key encodes that uniqueness.
type Relation struct {
	ID        int       `json:"id"`
	PostID    int       `json:"postId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// User is an account. The password hash never serializes outward.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username" validate:"required,min=3,max=30"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
