// Package memory provides a volatile Post Store backed by an ordered slice.
// Posts are lost when the process exits.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"Postboard/internal/core/posts"
)

type memoryPostRepo struct {
	mu    sync.RWMutex
	posts []posts.Post
}

// NewPostRepository creates an empty in-memory post repository
func NewPostRepository() posts.Repository {
	return &memoryPostRepo{}
}

// Create appends post to the collection under the write lock
func (r *memoryPostRepo) Create(ctx context.Context, post *posts.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	post.ID = uuid.NewString()
	post.CreatedAt = time.Now().UTC()

	r.mu.Lock()
	r.posts = append(r.posts, *post)
	r.mu.Unlock()

	return nil
}

// List returns copies of all posts in insertion order
func (r *memoryPostRepo) List(ctx context.Context) ([]*posts.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*posts.Post, 0, len(r.posts))
	for i := range r.posts {
		p := r.posts[i]
		result = append(result, &p)
	}
	return result, nil
}

// Close drops the collection
func (r *memoryPostRepo) Close(ctx context.Context) error {
	r.mu.Lock()
	r.posts = nil
	r.mu.Unlock()
	return nil
}
