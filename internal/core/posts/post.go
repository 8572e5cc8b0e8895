package posts

import (
	"time"
)

// Post represents a single blog post.
// ID is assigned by the Repository on Create and never changes afterwards.
type Post struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
}

// CreatePostRequest represents input for creating a new post
// Matches the addPost mutation arguments
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
