// Package client is the data layer used by the web frontend. It issues the
// posts query and addPost mutation against the GraphQL API and exposes their
// state to the presentation layer.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	postsQuery = `query Posts {
  posts {
    id
    title
    content
  }
}`

	addPostMutation = `mutation AddPost($title: String!, $content: String!) {
  addPost(title: $title, content: $content) {
    id
    title
    content
  }
}`
)

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 10 * 1024 * 1024

// Post is a post as returned by the API
type Post struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Client talks GraphQL over HTTP to the posts API
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient creates a client for the GraphQL endpoint at endpoint
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type graphQLRequest struct {
	Variables     map[string]interface{} `json:"variables,omitempty"`
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
}

type graphQLError struct {
	Extensions struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	} `json:"extensions"`
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Posts issues the posts query
func (c *Client) Posts(ctx context.Context) ([]Post, error) {
	var data struct {
		Posts []Post `json:"posts"`
	}
	if err := c.do(ctx, graphQLRequest{Query: postsQuery, OperationName: "Posts"}, &data); err != nil {
		return nil, err
	}
	if data.Posts == nil {
		data.Posts = []Post{}
	}
	return data.Posts, nil
}

// AddPost issues the addPost mutation and returns the persisted post
func (c *Client) AddPost(ctx context.Context, title, content string) (*Post, error) {
	var data struct {
		AddPost *Post `json:"addPost"`
	}
	req := graphQLRequest{
		Query:         addPostMutation,
		OperationName: "AddPost",
		Variables: map[string]interface{}{
			"title":   title,
			"content": content,
		},
	}
	if err := c.do(ctx, req, &data); err != nil {
		return nil, err
	}
	if data.AddPost == nil {
		return nil, &OperationError{Message: "addPost returned no post"}
	}
	return data.AddPost, nil
}

// do sends req and decodes the data member of the response into out
func (c *Client) do(ctx context.Context, req graphQLRequest, out interface{}) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal graphql request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build graphql request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &NetworkError{URL: c.endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return &NetworkError{URL: c.endpoint, StatusCode: resp.StatusCode}
	}

	var gqlResp graphQLResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&gqlResp); err != nil {
		return &NetworkError{URL: c.endpoint, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if len(gqlResp.Errors) > 0 {
		first := gqlResp.Errors[0]
		return &OperationError{
			Message: first.Message,
			Code:    first.Extensions.Code,
			Field:   first.Extensions.Field,
		}
	}

	if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		return &OperationError{Message: "response contained no data"}
	}
	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
