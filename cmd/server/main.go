package main

import (
	"net/http"
	"time"

	"bookmarksapi/pkg/adapters/handler"
	"bookmarksapi/pkg/adapters/repository/sqlite"
	"bookmarksapi/pkg/config"
	"bookmarksapi/pkg/core/services"
	"bookmarksapi/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.AppEnv)

	// Initialize Repository
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Initialize Services
	authService := services.NewAuthService(repo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	bookmarkService := services.NewBookmarkService(repo)

	// Initialize Router
	mux := handler.NewRouter(cfg, log, authService, bookmarkService)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
