package post

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Postboard/internal/api/schema"
	"Postboard/internal/core/posts"
	"Postboard/internal/db/memory"
)

func newTestHandler(t *testing.T) *GraphQLHandler {
	t.Helper()
	s, err := schema.NewSchema(posts.NewPostService(memory.NewPostRepository()))
	require.NoError(t, err)
	return NewGraphQLHandler(s)
}

func postJSON(t *testing.T, h *GraphQLHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.HandleGraphQL(w, req)
	return w
}

func TestHandleGraphQL_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/graphql?query={posts{id}}", nil)
	w := httptest.NewRecorder()
	h.HandleGraphQL(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
}

func TestHandleGraphQL_InvalidBody(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.HandleGraphQL(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "InvalidRequest", resp.Error)
}

func TestHandleGraphQL_EmptyQuery(t *testing.T) {
	h := newTestHandler(t)

	w := postJSON(t, h, map[string]interface{}{"query": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "query is required", resp.Message)
}

func TestHandleGraphQL_TooLarge(t *testing.T) {
	h := newTestHandler(t)

	big := `{"query": "` + strings.Repeat("a", maxRequestBytes+1) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(big))
	w := httptest.NewRecorder()
	h.HandleGraphQL(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestHandleGraphQL_AddPostThenList(t *testing.T) {
	h := newTestHandler(t)

	w := postJSON(t, h, map[string]interface{}{
		"query":     `mutation($title: String!, $content: String!) { addPost(title: $title, content: $content) { id title content } }`,
		"variables": map[string]string{"title": "Hello", "content": "World"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var added struct {
		Data struct {
			AddPost struct {
				ID      string `json:"id"`
				Title   string `json:"title"`
				Content string `json:"content"`
			} `json:"addPost"`
		} `json:"data"`
		Errors []json.RawMessage `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&added))
	require.Empty(t, added.Errors)
	assert.NotEmpty(t, added.Data.AddPost.ID)

	w = postJSON(t, h, map[string]interface{}{"query": `{ posts { id title content } }`})
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Data struct {
			Posts []struct {
				ID      string `json:"id"`
				Title   string `json:"title"`
				Content string `json:"content"`
			} `json:"posts"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listed))
	require.Len(t, listed.Data.Posts, 1)
	assert.Equal(t, added.Data.AddPost.ID, listed.Data.Posts[0].ID)
	assert.Equal(t, "Hello", listed.Data.Posts[0].Title)
	assert.Equal(t, "World", listed.Data.Posts[0].Content)
}

func TestHandleGraphQL_OperationErrorsReturn200(t *testing.T) {
	h := newTestHandler(t)

	w := postJSON(t, h, map[string]interface{}{"query": `mutation { addPost(title: "Hello") { id } }`})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Errors)
}
