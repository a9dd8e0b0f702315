package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"inkwell/app/middleware"
	"inkwell/app/models"
	"inkwell/app/services"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	commentService *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// Index handles listing all comments for a post, newest first
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(mux.Vars(r)["postId"])
	if err != nil {
		respondBadRequest(w, "invalid post ID")
		return
	}

	comments, err := cc.commentService.ListPostComments(postID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, comments)
}

// Create handles adding a comment to a post
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(mux.Vars(r)["postId"])
	if err != nil {
		respondBadRequest(w, "invalid post ID")
		return
	}
	principal, _ := middleware.PrincipalFrom(r.Context())

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}

	comment := &models.Comment{
		PostID:  postID,
		Content: req.Content,
		Author:  principal.Username,
		UserID:  principal.UserID,
	}
	if err := cc.commentService.CreateComment(comment); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

// Edit handles updating a comment by its owner
func (cc *CommentController) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondBadRequest(w, "invalid comment ID")
		return
	}
	principal, _ := middleware.PrincipalFrom(r.Context())

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}

	comment, err := cc.commentService.UpdateComment(id, principal.UserID, req.Content)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, comment)
}

// Delete handles deleting a comment by its owner
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondBadRequest(w, "invalid comment ID")
		return
	}
	principal, _ := middleware.PrincipalFrom(r.Context())

	if err := cc.commentService.DeleteComment(id, principal.UserID); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "comment deleted")
}
