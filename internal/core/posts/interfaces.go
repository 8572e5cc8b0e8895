package posts

import "context"

// Service defines the business logic interface for posts
// Used by the GraphQL resolvers
type Service interface {
	// ListPosts returns every post in store order
	ListPosts(ctx context.Context) ([]*Post, error)

	// CreatePost validates the request and persists a new post
	// Returns a *ValidationError before touching the repository when a field is blank
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
}

// Repository defines the data access interface for posts.
// Implementations: memory (volatile, lost on restart), mongo and postgres (durable).
// The backend is a deployment choice made in config; callers see the same contract.
type Repository interface {
	// Create persists post and fills in its ID and CreatedAt.
	// Concurrent calls must not lose writes.
	Create(ctx context.Context, post *Post) error

	// List returns all posts in insertion order.
	// Two calls with no Create between them return the same posts in the same order.
	List(ctx context.Context) ([]*Post, error)

	// Close releases any resources held by the backend.
	Close(ctx context.Context) error
}
