package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"inkwell/app/middleware"
	"inkwell/app/models"
	"inkwell/app/services"
)

// RelationController handles HTTP requests for likes and bookmarks.
// Both go through the same toggle semantics; only the kind differs.
type RelationController struct {
	relationService *services.RelationService
}

// NewRelationController creates a new RelationController
func NewRelationController(relationService *services.RelationService) *RelationController {
	return &RelationController{relationService: relationService}
}

// ToggleLike flips the caller's like on a post
func (rc *RelationController) ToggleLike(w http.ResponseWriter, r *http.Request) {
	rc.toggle(w, r, models.KindLike)
}

// ToggleBookmark flips the caller's bookmark on a post
func (rc *RelationController) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	rc.toggle(w, r, models.KindBookmark)
}

// LikeStatus returns the like count for a post and the viewer's flag
func (rc *RelationController) LikeStatus(w http.ResponseWriter, r *http.Request) {
	rc.status(w, r, models.KindLike)
}

// BookmarkStatus returns the bookmark count for a post and the
// viewer's flag
func (rc *RelationController) BookmarkStatus(w http.ResponseWriter, r *http.Request) {
	rc.status(w, r, models.KindBookmark)
}

// LikedPosts lists the posts the caller has liked
func (rc *RelationController) LikedPosts(w http.ResponseWriter, r *http.Request) {
	rc.listPosts(w, r, models.KindLike)
}

// BookmarkedPosts lists the posts the caller has bookmarked
func (rc *RelationController) BookmarkedPosts(w http.ResponseWriter, r *http.Request) {
	rc.listPosts(w, r, models.KindBookmark)
}

func (rc *RelationController) toggle(w http.ResponseWriter, r *http.Request, kind models.RelationKind) {
	postID, err := strconv.Atoi(mux.Vars(r)["postId"])
	if err != nil {
		respondBadRequest(w, "invalid post ID")
		return
	}
	principal, _ := middleware.PrincipalFrom(r.Context())

	result, err := rc.relationService.Toggle(kind, postID, principal.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	status := http.StatusOK
	if result.Action == services.ActionAdded {
		status = http.StatusCreated
	}
	respondJSON(w, status, result)
}

func (rc *RelationController) status(w http.ResponseWriter, r *http.Request, kind models.RelationKind) {
	postID, err := strconv.Atoi(mux.Vars(r)["postId"])
	if err != nil {
		respondBadRequest(w, "invalid post ID")
		return
	}

	viewerID := ""
	if principal, ok := middleware.PrincipalFrom(r.Context()); ok {
		viewerID = principal.UserID
	}

	status, err := rc.relationService.Status(kind, postID, viewerID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

func (rc *RelationController) listPosts(w http.ResponseWriter, r *http.Request, kind models.RelationKind) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	posts, err := rc.relationService.ListPosts(kind, principal.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}
