package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/lib/pq"

	"Postboard/internal/core/posts"
	"Postboard/internal/db/migrations"
)

type postgresPostRepo struct {
	db *sql.DB
	// ownsDB is true when the repository opened db itself and must close it
	ownsDB bool
}

// Open connects to dsn, verifies the connection, applies migrations, and returns
// a repository that closes the pool on Close.
func Open(ctx context.Context, dsn string) (posts.Repository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, posts.StorageUnavailable("ping database", err)
	}

	if err := migrations.Up(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &postgresPostRepo{db: db, ownsDB: true}, nil
}

// NewPostRepository creates a new PostgreSQL post repository over an existing pool
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// Create inserts a new post into the posts table
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	query := `
		INSERT INTO posts (title, content, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, post.Title, post.Content).Scan(&id, &post.CreatedAt)
	if err != nil {
		return wrapError("insert post", err)
	}

	post.ID = strconv.FormatInt(id, 10)
	return nil
}

// List retrieves every post ordered by id, which follows insertion order
func (r *postgresPostRepo) List(ctx context.Context) ([]*posts.Post, error) {
	query := `
		SELECT id, title, content, created_at
		FROM posts
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapError("list posts", err)
	}
	defer func() { _ = rows.Close() }()

	result := []*posts.Post{}
	for rows.Next() {
		var post posts.Post
		var id int64
		if err := rows.Scan(&id, &post.Title, &post.Content, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		post.ID = strconv.FormatInt(id, 10)
		result = append(result, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapError("iterate posts", err)
	}

	return result, nil
}

// Close closes the pool when the repository opened it
func (r *postgresPostRepo) Close(ctx context.Context) error {
	if !r.ownsDB {
		return nil
	}
	return r.db.Close()
}

// wrapError marks connectivity failures as posts.ErrStorageUnavailable
func wrapError(op string, err error) error {
	if isUnavailable(err) {
		return posts.StorageUnavailable(op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func isUnavailable(err error) bool {
	// A caller's expired context is not an outage; only pool and driver failures count
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08: connection exception; 57P0x: server shutting down or unavailable
		switch {
		case pqErr.Code.Class() == "08":
			return true
		case pqErr.Code == "57P01", pqErr.Code == "57P02", pqErr.Code == "57P03":
			return true
		}
	}
	return false
}
