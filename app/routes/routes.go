package routes

import (
	"net/http"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"inkwell/app/controllers"
	"inkwell/app/middleware"
	"inkwell/app/repositories"
	"inkwell/app/services"
	"inkwell/config"
)

// SetupRoutes wires repositories, services, and controllers onto a
// router. The store handle is constructed once by the caller and
// injected here; nothing holds process-global state.
func SetupRoutes(db *badger.DB, cfg *config.Config) *mux.Router {
	postRepo := repositories.NewBadgerPostRepository(db)
	commentRepo := repositories.NewBadgerCommentRepository(db)
	relationRepo := repositories.NewBadgerRelationRepository(db)
	userRepo := repositories.NewBadgerUserRepository(db)

	images := services.NewDiskImageStore(cfg.UploadDir)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	postService := services.NewPostService(postRepo, commentRepo, relationRepo, images)
	commentService := services.NewCommentService(commentRepo, postRepo)
	relationService := services.NewRelationService(relationRepo, postRepo)

	return Setup(authService, postService, commentService, relationService, cfg)
}

// Setup assembles the router from already-constructed services. Tests
// use it directly with mock-backed services.
func Setup(authService *services.AuthService, postService *services.PostService,
	commentService *services.CommentService, relationService *services.RelationService,
	cfg *config.Config) *mux.Router {

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	authController := controllers.NewAuthController(authService)
	postController := controllers.NewPostController(postService)
	commentController := controllers.NewCommentController(commentService)
	relationController := controllers.NewRelationController(relationService)

	requireAuth := middleware.RequireAuth(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Auth endpoints
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authController.Register).Methods("POST")
	auth.HandleFunc("/login", authController.Login).Methods("POST")
	auth.Handle("/profile", requireAuth(http.HandlerFunc(authController.Profile))).Methods("GET")
	auth.Handle("/profile", requireAuth(http.HandlerFunc(authController.UpdateProfile))).Methods("PUT")
	auth.Handle("/change-password", requireAuth(http.HandlerFunc(authController.ChangePassword))).Methods("PUT")

	// Posts endpoints
	posts := api.PathPrefix("/posts").Subrouter()
	posts.Handle("", optionalAuth(http.HandlerFunc(postController.Index))).Methods("GET")
	posts.Handle("/{id:[0-9]+}", optionalAuth(http.HandlerFunc(postController.Show))).Methods("GET")
	posts.Handle("", requireAuth(http.HandlerFunc(postController.Create))).Methods("POST")
	posts.Handle("/{id:[0-9]+}", requireAuth(http.HandlerFunc(postController.Edit))).Methods("PUT")
	posts.Handle("/{id:[0-9]+}", requireAuth(http.HandlerFunc(postController.Delete))).Methods("DELETE")

	// Comments endpoints
	comments := api.PathPrefix("/comments").Subrouter()
	comments.Handle("/post/{postId:[0-9]+}", optionalAuth(http.HandlerFunc(commentController.Index))).Methods("GET")
	comments.Handle("/post/{postId:[0-9]+}", requireAuth(http.HandlerFunc(commentController.Create))).Methods("POST")
	comments.Handle("/{id:[0-9]+}", requireAuth(http.HandlerFunc(commentController.Edit))).Methods("PUT")
	comments.Handle("/{id:[0-9]+}", requireAuth(http.HandlerFunc(commentController.Delete))).Methods("DELETE")

	// Likes endpoints
	likes := api.PathPrefix("/likes").Subrouter()
	likes.Handle("/post/{postId:[0-9]+}", optionalAuth(http.HandlerFunc(relationController.LikeStatus))).Methods("GET")
	likes.Handle("/post/{postId:[0-9]+}/toggle", requireAuth(http.HandlerFunc(relationController.ToggleLike))).Methods("POST")
	likes.Handle("/user/liked", requireAuth(http.HandlerFunc(relationController.LikedPosts))).Methods("GET")

	// Bookmarks endpoints
	bookmarks := api.PathPrefix("/bookmarks").Subrouter()
	bookmarks.Handle("/post/{postId:[0-9]+}", optionalAuth(http.HandlerFunc(relationController.BookmarkStatus))).Methods("GET")
	bookmarks.Handle("/post/{postId:[0-9]+}/toggle", requireAuth(http.HandlerFunc(relationController.ToggleBookmark))).Methods("POST")
	bookmarks.Handle("/user", requireAuth(http.HandlerFunc(relationController.BookmarkedPosts))).Methods("GET")

	return router
}
