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
	"github.com/go-chi/cors"

	"Postboard/internal/api/routes"
	"Postboard/internal/api/schema"
	"Postboard/internal/config"
	"Postboard/internal/core/posts"
	"Postboard/internal/db"
)

func main() {
	cfg := config.ServerConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	// Post Store: constructed once here, closed on shutdown
	repo, err := db.OpenPostRepository(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to open post store: ", err)
	}
	slog.Info("post store ready", "backend", cfg.Backend, "durable", cfg.Backend != config.BackendMemory)

	postService := posts.NewPostService(repo)

	if cfg.SeedSamplePosts {
		n, err := posts.SeedPosts(context.Background(), postService, posts.SamplePosts)
		if err != nil {
			log.Fatal("Failed to seed sample posts: ", err)
		}
		slog.Info("seeded sample posts", "count", n)
	}

	// Schema is checked against its resolvers before serving any request
	postSchema, err := schema.NewSchema(postService)
	if err != nil {
		log.Fatal("Failed to build GraphQL schema: ", err)
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	// The web frontend and other browser clients call the API cross-origin
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	routes.RegisterPostRoutes(r, postSchema)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		slog.Info("Postboard API starting",
			"addr", "http://localhost:"+cfg.Port+routes.GraphQLPath,
			"backend", cfg.Backend,
		)
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
	if err := repo.Close(ctx); err != nil {
		slog.Error("failed to close post store", "error", err)
	}
}
