package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rohits-web03/collabdrive/internal/api"
	"github.com/rohits-web03/collabdrive/internal/api/handlers"
	"github.com/rohits-web03/collabdrive/internal/auth"
	"github.com/rohits-web03/collabdrive/internal/config"
	"github.com/rohits-web03/collabdrive/internal/realtime"
	"github.com/rohits-web03/collabdrive/internal/repositories"
)

// @title CollabDrive API
// @version 1.0
// @description Encrypted file storage with shareable access and live co-editing.
// @BasePath /api
func main() {
	repositories.ConnectDatabase()

	if err := repositories.InitBlobStore(config.Envs.Blob); err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	tokens, err := auth.LoadTokenService(config.Envs.PrivateKeyPath, config.Envs.PublicKeyPath, auth.DefaultTokenLifetime)
	if err != nil {
		log.Fatalf("Failed to load signing keys: %v", err)
	}
	handlers.Init(tokens)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub()
	mux := api.SetupRouter(tokens, hub, ctx)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Envs.Port),
		Handler: mux,
		// No ReadTimeout/WriteTimeout: downloads and websocket sessions are
		// long-lived. Slowloris protection comes from the header timeout.
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		log.Printf("Starting CollabDrive server on port: %s", config.Envs.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
