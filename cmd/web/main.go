package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"Postboard/internal/api/routes"
	"Postboard/internal/client"
	"Postboard/internal/config"
	"Postboard/internal/web"
)

func main() {
	cfg := config.WebConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	templates, err := web.NewTemplates()
	if err != nil {
		log.Fatal("Failed to load web templates: ", err)
	}

	sessionStore, err := web.NewSessionStore(cfg.SessionSecret)
	if err != nil {
		log.Fatal("Failed to create session store: ", err)
	}

	// Data layer: one Feed serves as both the posts provider and the mutation trigger
	feed := client.NewFeed(client.NewClient(cfg.APIURL, cfg.APITimeout))
	handlers := web.NewHandlers(templates, feed, feed, sessionStore)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	routes.RegisterWebRoutes(r, handlers)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		slog.Info("Postboard web starting", "addr", "http://localhost:"+cfg.Port, "api", cfg.APIURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed: ", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}
