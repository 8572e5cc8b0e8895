// Package db selects and opens the Post Store backend named in configuration.
package db

import (
	"context"
	"fmt"

	"Postboard/internal/config"
	"Postboard/internal/core/posts"
	"Postboard/internal/db/memory"
	"Postboard/internal/db/mongodb"
	"Postboard/internal/db/postgres"
)

// OpenPostRepository opens the backend selected by cfg.Backend.
// The connect and ping steps are bounded by cfg.StoreTimeout. For mongo the same
// bound applies to server selection on every later operation.
func OpenPostRepository(ctx context.Context, cfg config.ServerConfig) (posts.Repository, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()

	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewPostRepository(), nil
	case config.BackendMongo:
		return mongodb.Open(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, cfg.StoreTimeout)
	case config.BackendPostgres:
		return postgres.Open(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}
