package posts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

type postService struct {
	repo Repository
}

// NewPostService creates a new post service
func NewPostService(repo Repository) Service {
	return &postService{
		repo: repo,
	}
}

// ListPosts returns all posts from the repository
func (s *postService) ListPosts(ctx context.Context) ([]*Post, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if result == nil {
		result = []*Post{}
	}
	return result, nil
}

// CreatePost validates and persists a new post
// Flow: Validate -> Create in repository -> Return persisted post with ID
func (s *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	post := &Post{
		Title:   req.Title,
		Content: req.Content,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Debug("post created", "id", post.ID)
	return post, nil
}

// validateCreateRequest validates basic input requirements
func (s *postService) validateCreateRequest(req CreatePostRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return NewValidationError("title", "title is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return NewValidationError("content", "content is required")
	}
	return nil
}
