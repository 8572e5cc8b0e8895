package client

import (
	"context"
	"sync"
)

// PostsState is what the list view observes.
// Loading is true only before the first fetch completes. Err is set when the
// last fetch failed, in which case Posts holds nothing.
type PostsState struct {
	Err     error
	Posts   []Post
	Loading bool
}

// PostsProvider exposes the posts read
type PostsProvider interface {
	// Posts returns the current state without issuing a request
	Posts() PostsState
	// Fetch issues the posts query and returns the resulting state
	Fetch(ctx context.Context) PostsState
}

// PostAdder is the mutation trigger used by the form view
type PostAdder interface {
	AddPost(ctx context.Context, title, content string) (*Post, error)
}

// API is the subset of *Client that Feed depends on
type API interface {
	Posts(ctx context.Context) ([]Post, error)
	AddPost(ctx context.Context, title, content string) (*Post, error)
}

// Feed holds the posts read state and re-fetches it after every successful mutation.
type Feed struct {
	api   API
	state PostsState
	mu    sync.RWMutex
}

var (
	_ PostsProvider = (*Feed)(nil)
	_ PostAdder     = (*Feed)(nil)
)

// NewFeed creates a Feed in the loading state
func NewFeed(api API) *Feed {
	return &Feed{
		api:   api,
		state: PostsState{Loading: true},
	}
}

// Posts returns a copy of the current state
func (f *Feed) Posts() PostsState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshot()
}

// Fetch issues the posts query and records the outcome
func (f *Feed) Fetch(ctx context.Context) PostsState {
	result, err := f.api.Posts(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = PostsState{Err: err}
	} else {
		f.state = PostsState{Posts: result}
	}
	return f.snapshot()
}

// AddPost runs the mutation and then re-fetches the posts list.
// The list is not patched locally.
func (f *Feed) AddPost(ctx context.Context, title, content string) (*Post, error) {
	post, err := f.api.AddPost(ctx, title, content)
	if err != nil {
		return nil, err
	}
	f.Fetch(ctx)
	return post, nil
}

// snapshot must be called with mu held
func (f *Feed) snapshot() PostsState {
	s := f.state
	if s.Posts != nil {
		s.Posts = append(make([]Post, 0, len(s.Posts)), s.Posts...)
	}
	return s
}
