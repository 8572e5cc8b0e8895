package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Postboard/internal/api/schema"
	"Postboard/internal/core/posts"
	"Postboard/internal/db/memory"
)

func TestRegisterPostRoutes_SingleEndpoint(t *testing.T) {
	s, err := schema.NewSchema(posts.NewPostService(memory.NewPostRepository()))
	require.NoError(t, err)

	r := chi.NewRouter()
	RegisterPostRoutes(r, s)

	t.Run("POST /graphql executes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, GraphQLPath, strings.NewReader(`{"query":"{ posts { id } }"}`))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"posts":[]}}`, w.Body.String())
	})

	t.Run("GET /graphql is not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, GraphQLPath, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("other paths are not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
