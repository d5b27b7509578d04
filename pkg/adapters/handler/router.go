package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"bookmarksapi/pkg/config"
	"bookmarksapi/pkg/ports"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, log zerolog.Logger, authService ports.AuthService, bookmarkService ports.BookmarkService) http.Handler {
	h := NewBookmarkHandler(bookmarkService)
	ah := NewAuthHandler(cfg, authService, log)
	mw := NewMiddleware(authService, log)

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.HandleFunc("POST /api/v1/auth/register", ah.Register)
	mux.HandleFunc("POST /api/v1/auth/login", ah.Login)
	mux.HandleFunc("GET /api/v1/auth/token/refresh", ah.Refresh)
	mux.HandleFunc("GET /auth/google/login", ah.GoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", ah.GoogleCallback)
	mux.HandleFunc("GET /auth/logout", ah.Logout)

	// Public redirect by short code, the only unauthenticated bookmark path.
	mux.HandleFunc("GET /{short_url}", h.Redirect)

	// Protected Routes
	protected := http.NewServeMux()
	protected.HandleFunc("POST /api/v1/bookmarks", h.Create)
	protected.HandleFunc("GET /api/v1/bookmarks", h.List)
	protected.HandleFunc("GET /api/v1/bookmarks/stats", h.Stats)
	protected.HandleFunc("GET /api/v1/bookmarks/{id}", h.Get)
	protected.HandleFunc("PUT /api/v1/bookmarks/{id}", h.Update)
	protected.HandleFunc("PATCH /api/v1/bookmarks/{id}", h.Update)
	protected.HandleFunc("DELETE /api/v1/bookmarks/{id}", h.Delete)

	mux.Handle("/api/v1/bookmarks", mw.Authenticate(protected))
	mux.Handle("/api/v1/bookmarks/", mw.Authenticate(protected))
	mux.Handle("GET /api/v1/auth/user", mw.Authenticate(http.HandlerFunc(ah.Me)))

	return mw.Log(mux)
}
