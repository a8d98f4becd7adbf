package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	_ "github.com/rohits-web03/collabdrive/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rohits-web03/collabdrive/internal/api/handlers"
	"github.com/rohits-web03/collabdrive/internal/api/middleware"
	"github.com/rohits-web03/collabdrive/internal/auth"
	"github.com/rohits-web03/collabdrive/internal/config"
	"github.com/rohits-web03/collabdrive/internal/realtime"
	"github.com/rohits-web03/collabdrive/internal/repositories"
	"github.com/rs/cors"
)

func SetupRouter(tokens *auth.TokenService, hub *realtime.Hub, shutdownCtx context.Context) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	authMux := http.NewServeMux()
	authMux.HandleFunc("POST /register", handlers.RegisterUser)
	authMux.HandleFunc("POST /login", handlers.LoginUser)
	authMux.HandleFunc("/google/login", handlers.HandleGoogleLogin)
	authMux.HandleFunc("/google/callback", handlers.HandleGoogleCallback)

	mainMux.Handle("/api/auth/",
		http.StripPrefix("/api/auth", authMux),
	)

	// Public on purpose: answers valid=false for dead tokens instead of 401.
	mainMux.HandleFunc("GET /api/sessions/verify", handlers.VerifySession)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()

	fileMux := http.NewServeMux()
	fileMux.HandleFunc("GET /", handlers.ListFiles)
	fileMux.HandleFunc("POST /upload", handlers.UploadFile)
	fileMux.HandleFunc("GET /{id}/content", handlers.GetContent)
	fileMux.HandleFunc("PUT /{id}/content", handlers.UpdateContent)
	fileMux.HandleFunc("GET /{id}/download", handlers.DownloadFile)
	fileMux.HandleFunc("DELETE /{id}", handlers.DeleteFile)
	fileMux.HandleFunc("POST /{id}/share", handlers.CreateShare)
	fileMux.HandleFunc("GET /{id}/share", handlers.GetShareToken)
	fileMux.HandleFunc("POST /join-team", handlers.JoinTeam)

	protectedMux.Handle("/files/",
		http.StripPrefix("/files", fileMux),
	)

	protectedMux.HandleFunc("POST /session/validate", handlers.ValidateSession)
	protectedMux.HandleFunc("POST /music/metadata", handlers.SaveMusicMetadata)

	protectedMux.HandleFunc("GET /auth/me", handlers.Me)
	protectedMux.HandleFunc("POST /auth/logout", handlers.Logout)

	mainMux.Handle("/api/",
		http.StripPrefix(
			"/api",
			middleware.Auth(tokens)(protectedMux),
		),
	)

	// Websocket auth rides the subprotocol header, so this stays outside
	// the HTTP middleware chain.
	wsHandler := realtime.NewHandler(tokens, repositories.DB, hub)
	upgrader := wsHandler.NewUpgrader(config.Envs.CorsConfig.AllowedOrigins)
	mainMux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		wsHandler.ServeWS(upgrader, w, r, shutdownCtx)
	})

	log.Println("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(handler)
	return handler
}
