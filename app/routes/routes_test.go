package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"inkwell/app/models"
	"inkwell/app/repositories/mock"
	"inkwell/app/services"
	"inkwell/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  []string        `json:"errors"`
}

func setupTestRouter(t *testing.T) *mux.Router {
	postRepo := mock.NewPostRepository()
	commentRepo := mock.NewCommentRepository()
	relationRepo := mock.NewRelationRepository()
	userRepo := mock.NewUserRepository()

	images := services.NewDiskImageStore(t.TempDir())
	authService := services.NewAuthService(userRepo, "test-secret", time.Hour)
	postService := services.NewPostService(postRepo, commentRepo, relationRepo, images)
	commentService := services.NewCommentService(commentRepo, postRepo)
	relationService := services.NewRelationService(relationRepo, postRepo)

	cfg := &config.Config{CORSAllowedOrigins: []string{"*"}}
	return Setup(authService, postService, commentService, relationService, cfg)
}

func doJSON(t *testing.T, router *mux.Router, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func registerUser(t *testing.T, router *mux.Router, username string) string {
	w, env := doJSON(t, router, "POST", "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.NotEmpty(t, payload.Token)
	return payload.Token
}

func createPost(t *testing.T, router *mux.Router, token, title string) int {
	w, env := doJSON(t, router, "POST", "/api/posts", token, map[string]interface{}{
		"title":   title,
		"content": "This post has enough content to pass validation",
		"tags":    []string{"go"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var post models.Post
	require.NoError(t, json.Unmarshal(env.Data, &post))
	require.NotZero(t, post.ID)
	return post.ID
}

func TestHealthRoute(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRoutes(t *testing.T) {
	router := setupTestRouter(t)

	t.Run("register returns user and token", func(t *testing.T) {
		w, env := doJSON(t, router, "POST", "/api/auth/register", "", map[string]string{
			"username": "alice",
			"email":    "alice@example.com",
			"password": "secret1",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		require.True(t, env.Success)

		var payload struct {
			User  models.User `json:"user"`
			Token string      `json:"token"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &payload))
		require.Equal(t, "alice", payload.User.Username)
		require.NotEmpty(t, payload.User.ID)
		require.NotEmpty(t, payload.Token)
	})

	t.Run("login with wrong password returns 401", func(t *testing.T) {
		w, env := doJSON(t, router, "POST", "/api/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.False(t, env.Success)
	})

	t.Run("duplicate registration returns 409", func(t *testing.T) {
		w, _ := doJSON(t, router, "POST", "/api/auth/register", "", map[string]string{
			"username": "alice",
			"email":    "elsewhere@example.com",
			"password": "secret1",
		})
		require.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("profile requires a token", func(t *testing.T) {
		w, _ := doJSON(t, router, "GET", "/api/auth/profile", "", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("profile with token", func(t *testing.T) {
		w, env := doJSON(t, router, "POST", "/api/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "secret1",
		})
		require.Equal(t, http.StatusOK, w.Code)
		var payload struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &payload))

		w, env = doJSON(t, router, "GET", "/api/auth/profile", payload.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var user models.User
		require.NoError(t, json.Unmarshal(env.Data, &user))
		require.Equal(t, "alice", user.Username)
	})
}

func TestPostRoutes(t *testing.T) {
	router := setupTestRouter(t)
	ownerToken := registerUser(t, router, "owner")
	otherToken := registerUser(t, router, "other")

	t.Run("create requires a token", func(t *testing.T) {
		w, _ := doJSON(t, router, "POST", "/api/posts", "", map[string]interface{}{
			"title":   "No token",
			"content": "This should never be accepted by the server",
			"tags":    []string{"go"},
		})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		w, _ := doJSON(t, router, "GET", "/api/auth/profile", "not.a.token", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("validation failure returns 400 with messages", func(t *testing.T) {
		w, env := doJSON(t, router, "POST", "/api/posts", ownerToken, map[string]interface{}{
			"title":   "ab",
			"content": "short",
			"tags":    []string{},
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.False(t, env.Success)
		require.NotEmpty(t, env.Errors)
	})

	postID := createPost(t, router, ownerToken, "First post")

	t.Run("anonymous read shows false viewer flags", func(t *testing.T) {
		w, env := doJSON(t, router, "GET", fmt.Sprintf("/api/posts/%d", postID), "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var view models.PostView
		require.NoError(t, json.Unmarshal(env.Data, &view))
		require.Equal(t, "First post", view.Title)
		require.Equal(t, "owner", view.Author)
		require.False(t, view.ViewerLiked)
		require.False(t, view.ViewerBookmarked)
	})

	t.Run("update by non-owner returns 403 and leaves the post unchanged", func(t *testing.T) {
		w, _ := doJSON(t, router, "PUT", fmt.Sprintf("/api/posts/%d", postID), otherToken, map[string]string{
			"title": "Hijacked title",
		})
		require.Equal(t, http.StatusForbidden, w.Code)

		w, env := doJSON(t, router, "GET", fmt.Sprintf("/api/posts/%d", postID), "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var view models.PostView
		require.NoError(t, json.Unmarshal(env.Data, &view))
		require.Equal(t, "First post", view.Title)
	})

	t.Run("update by owner patches only given fields", func(t *testing.T) {
		w, env := doJSON(t, router, "PUT", fmt.Sprintf("/api/posts/%d", postID), ownerToken, map[string]string{
			"title": "Renamed post",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var post models.Post
		require.NoError(t, json.Unmarshal(env.Data, &post))
		require.Equal(t, "Renamed post", post.Title)
		require.Equal(t, "This post has enough content to pass validation", post.Content)
	})

	t.Run("delete by non-owner returns 403", func(t *testing.T) {
		w, _ := doJSON(t, router, "DELETE", fmt.Sprintf("/api/posts/%d", postID), otherToken, nil)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("delete by owner then read returns 404", func(t *testing.T) {
		w, _ := doJSON(t, router, "DELETE", fmt.Sprintf("/api/posts/%d", postID), ownerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w, _ = doJSON(t, router, "GET", fmt.Sprintf("/api/posts/%d", postID), "", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCommentRoutes(t *testing.T) {
	router := setupTestRouter(t)
	ownerToken := registerUser(t, router, "owner")
	otherToken := registerUser(t, router, "other")
	postID := createPost(t, router, ownerToken, "Commented post")

	var commentID int

	t.Run("create comment", func(t *testing.T) {
		w, env := doJSON(t, router, "POST", fmt.Sprintf("/api/comments/post/%d", postID), otherToken, map[string]string{
			"content": "Nice post",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var comment models.Comment
		require.NoError(t, json.Unmarshal(env.Data, &comment))
		require.Equal(t, postID, comment.PostID)
		require.Equal(t, "other", comment.Author)
		commentID = comment.ID
	})

	t.Run("comment on missing post returns 404", func(t *testing.T) {
		w, _ := doJSON(t, router, "POST", "/api/comments/post/999", otherToken, map[string]string{
			"content": "Into the void",
		})
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("single post read embeds comments", func(t *testing.T) {
		w, env := doJSON(t, router, "GET", fmt.Sprintf("/api/posts/%d", postID), "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var view models.PostView
		require.NoError(t, json.Unmarshal(env.Data, &view))
		require.Equal(t, 1, view.CommentCount)
		require.Len(t, view.Comments, 1)
		require.Equal(t, "Nice post", view.Comments[0].Content)
	})

	t.Run("edit by non-author returns 403", func(t *testing.T) {
		w, _ := doJSON(t, router, "PUT", fmt.Sprintf("/api/comments/%d", commentID), ownerToken, map[string]string{
			"content": "Rewritten",
		})
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("delete by author", func(t *testing.T) {
		w, _ := doJSON(t, router, "DELETE", fmt.Sprintf("/api/comments/%d", commentID), otherToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w, env := doJSON(t, router, "GET", fmt.Sprintf("/api/comments/post/%d", postID), "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var comments []*models.Comment
		require.NoError(t, json.Unmarshal(env.Data, &comments))
		require.Empty(t, comments)
	})
}

func TestLikeRoutes(t *testing.T) {
	router := setupTestRouter(t)
	ownerToken := registerUser(t, router, "owner")
	readerToken := registerUser(t, router, "reader")
	postID := createPost(t, router, ownerToken, "Likeable post")

	togglePath := fmt.Sprintf("/api/likes/post/%d/toggle", postID)
	statusPath := fmt.Sprintf("/api/likes/post/%d", postID)

	t.Run("first toggle adds", func(t *testing.T) {
		w, env := doJSON(t, router, "POST", togglePath, readerToken, nil)
		require.Equal(t, http.StatusCreated, w.Code)

		var result services.ToggleResult
		require.NoError(t, json.Unmarshal(env.Data, &result))
		require.Equal(t, services.ActionAdded, result.Action)
		require.Equal(t, 1, result.Count)
	})

	t.Run("liker sees the flag, anonymous does not", func(t *testing.T) {
		w, env := doJSON(t, router, "GET", statusPath, readerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var status services.RelationStatus
		require.NoError(t, json.Unmarshal(env.Data, &status))
		require.Equal(t, 1, status.Count)
		require.True(t, status.ViewerHasRelation)

		w, env = doJSON(t, router, "GET", statusPath, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(env.Data, &status))
		require.Equal(t, 1, status.Count)
		require.False(t, status.ViewerHasRelation)
	})

	t.Run("second toggle removes", func(t *testing.T) {
		w, env := doJSON(t, router, "POST", togglePath, readerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var result services.ToggleResult
		require.NoError(t, json.Unmarshal(env.Data, &result))
		require.Equal(t, services.ActionRemoved, result.Action)
		require.Equal(t, 0, result.Count)
	})

	t.Run("toggle on missing post returns 404", func(t *testing.T) {
		w, _ := doJSON(t, router, "POST", "/api/likes/post/999/toggle", readerToken, nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBookmarkRoutes(t *testing.T) {
	router := setupTestRouter(t)
	ownerToken := registerUser(t, router, "owner")
	readerToken := registerUser(t, router, "reader")
	firstID := createPost(t, router, ownerToken, "First bookmark")
	secondID := createPost(t, router, ownerToken, "Second bookmark")

	for _, id := range []int{firstID, secondID} {
		w, _ := doJSON(t, router, "POST", fmt.Sprintf("/api/bookmarks/post/%d/toggle", id), readerToken, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("bookmarks do not count as likes", func(t *testing.T) {
		w, env := doJSON(t, router, "GET", fmt.Sprintf("/api/likes/post/%d", firstID), readerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var status services.RelationStatus
		require.NoError(t, json.Unmarshal(env.Data, &status))
		require.Equal(t, 0, status.Count)
	})

	t.Run("bookmarked posts list", func(t *testing.T) {
		w, env := doJSON(t, router, "GET", "/api/bookmarks/user", readerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var posts []*models.Post
		require.NoError(t, json.Unmarshal(env.Data, &posts))
		require.Len(t, posts, 2)
	})

	t.Run("liked posts list stays empty", func(t *testing.T) {
		w, env := doJSON(t, router, "GET", "/api/likes/user/liked", readerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var posts []*models.Post
		require.NoError(t, json.Unmarshal(env.Data, &posts))
		require.Empty(t, posts)
	})
}
