package handler

import (
	"net/http"

	"bookmarksapi/pkg/adapters/handler"
	"bookmarksapi/pkg/adapters/repository/sqlite"
	"bookmarksapi/pkg/config"
	"bookmarksapi/pkg/core/services"
	"bookmarksapi/pkg/logger"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	log := logger.New(cfg.AppEnv)

	// Note: On Vercel, a local sqlite file is ephemeral unless DATABASE_URL
	// points at a remote libsql/Turso database.
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}

	authService := services.NewAuthService(repo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	bookmarkService := services.NewBookmarkService(repo)
	mux = handler.NewRouter(cfg, log, authService, bookmarkService)
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
