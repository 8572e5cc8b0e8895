package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Postboard/internal/api/handlers/post"
	"Postboard/internal/api/schema"
	"Postboard/internal/core/posts"
	"Postboard/internal/db/memory"
)

const graphqlPath = "/graphql"

// newAPIServer starts a real API stack backed by the in-memory store
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := schema.NewSchema(posts.NewPostService(memory.NewPostRepository()))
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Post(graphqlPath, post.NewGraphQLHandler(s).HandleGraphQL)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_AgainstAPI(t *testing.T) {
	srv := newAPIServer(t)
	c := NewClient(srv.URL+graphqlPath, 5*time.Second)
	ctx := context.Background()

	list, err := c.Posts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	added, err := c.AddPost(ctx, "Hello", "World")
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "Hello", added.Title)
	assert.Equal(t, "World", added.Content)

	list, err = c.Posts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, *added, list[0])
}

func TestClient_ValidationErrorIsOperationError(t *testing.T) {
	srv := newAPIServer(t)
	c := NewClient(srv.URL+graphqlPath, 5*time.Second)

	_, err := c.AddPost(context.Background(), "", "World")
	require.Error(t, err)
	assert.True(t, IsOperationError(err))
	assert.False(t, IsNetworkError(err))

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, schema.CodeValidation, opErr.Code)
	assert.Equal(t, "title", opErr.Field)
}

func TestClient_StorageUnavailableIsOperationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"posts": nil},
			"errors": []map[string]interface{}{{
				"message":    "post storage is unavailable",
				"extensions": map[string]string{"code": "STORAGE_UNAVAILABLE"},
			}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.Posts(context.Background())
	require.Error(t, err)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "STORAGE_UNAVAILABLE", opErr.Code)
}

func TestClient_NetworkErrors(t *testing.T) {
	t.Run("server unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := NewClient(url, time.Second)
		_, err := c.Posts(context.Background())
		require.Error(t, err)
		assert.True(t, IsNetworkError(err))
	})

	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		_, err := c.Posts(context.Background())
		require.Error(t, err)

		var netErr *NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.Equal(t, http.StatusBadGateway, netErr.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>not json</html>"))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		_, err := c.AddPost(context.Background(), "Hello", "World")
		require.Error(t, err)
		assert.True(t, IsNetworkError(err))
	})
}

func TestClient_SendsOperation(t *testing.T) {
	var got graphQLRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"data":{"addPost":{"id":"1","title":"Hello","content":"World"}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	added, err := c.AddPost(context.Background(), "Hello", "World")
	require.NoError(t, err)
	assert.Equal(t, "1", added.ID)

	assert.Equal(t, "AddPost", got.OperationName)
	assert.Equal(t, "Hello", got.Variables["title"])
	assert.Equal(t, "World", got.Variables["content"])
}

func TestFeed_AgainstAPI(t *testing.T) {
	srv := newAPIServer(t)
	f := NewFeed(NewClient(srv.URL+graphqlPath, 5*time.Second))
	ctx := context.Background()

	assert.True(t, f.Posts().Loading)

	state := f.Fetch(ctx)
	assert.False(t, state.Loading)
	assert.NoError(t, state.Err)
	assert.Empty(t, state.Posts)

	_, err := f.AddPost(ctx, "Hello", "World")
	require.NoError(t, err)

	// AddPost re-fetched; the snapshot already holds the new post
	state = f.Posts()
	require.NoError(t, state.Err)
	require.Len(t, state.Posts, 1)
	assert.Equal(t, "Hello", state.Posts[0].Title)

	_, err = f.AddPost(ctx, "Hello", "")
	require.Error(t, err)
	assert.True(t, IsOperationError(err))
	assert.False(t, IsNetworkError(err))
	assert.Len(t, f.Posts().Posts, 1)
}

func TestFeed_UnreachableAPIIsErrorNotEmpty(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := NewFeed(NewClient(url, time.Second))
	state := f.Fetch(context.Background())

	require.Error(t, state.Err)
	assert.True(t, IsNetworkError(state.Err))
	assert.False(t, state.Loading)
	assert.Nil(t, state.Posts)
}
