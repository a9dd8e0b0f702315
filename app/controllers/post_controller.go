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

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService) *PostController {
	return &PostController{postService: postService}
}

// Index handles listing all posts. Viewer flags in the response come
// from the optional principal and stay false for anonymous readers.
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	viewerID := ""
	if principal, ok := middleware.PrincipalFrom(r.Context()); ok {
		viewerID = principal.UserID
	}

	views, err := pc.postService.ListPosts(viewerID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// Show handles displaying a single post with its comments
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondBadRequest(w, "invalid post ID")
		return
	}

	viewerID := ""
	if principal, ok := middleware.PrincipalFrom(r.Context()); ok {
		viewerID = principal.UserID
	}

	view, err := pc.postService.GetPost(id, viewerID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	var req struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
		Image   string   `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}

	post := &models.Post{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
		Image:   req.Image,
		Author:  principal.Username,
		UserID:  principal.UserID,
	}
	if err := pc.postService.CreatePost(post); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

// Edit handles a partial update of a post by its owner
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondBadRequest(w, "invalid post ID")
		return
	}
	principal, _ := middleware.PrincipalFrom(r.Context())

	var patch services.PostPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}

	post, err := pc.postService.UpdatePost(id, principal.UserID, patch)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// Delete handles deleting a post by its owner
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondBadRequest(w, "invalid post ID")
		return
	}
	principal, _ := middleware.PrincipalFrom(r.Context())

	if err := pc.postService.DeletePost(id, principal.UserID); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "post deleted")
}
