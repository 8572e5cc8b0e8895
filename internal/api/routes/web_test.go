package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Postboard/internal/api/schema"
	"Postboard/internal/client"
	"Postboard/internal/core/posts"
	"Postboard/internal/db/memory"
	"Postboard/internal/web"
)

// newWebRouter wires the web frontend to a live API backed by the memory store
func newWebRouter(t *testing.T) chi.Router {
	t.Helper()

	s, err := schema.NewSchema(posts.NewPostService(memory.NewPostRepository()))
	require.NoError(t, err)
	api := chi.NewRouter()
	RegisterPostRoutes(api, s)
	apiSrv := httptest.NewServer(api)
	t.Cleanup(apiSrv.Close)

	templates, err := web.NewTemplates()
	require.NoError(t, err)
	store, err := web.NewSessionStore("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	feed := client.NewFeed(client.NewClient(apiSrv.URL+GraphQLPath, 5*time.Second))

	r := chi.NewRouter()
	RegisterWebRoutes(r, web.NewHandlers(templates, feed, feed, store))
	return r
}

func TestRegisterWebRoutes_CreateThenList(t *testing.T) {
	r := newWebRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No posts available")

	form := url.Values{"title": {"Hello"}, "content": {"World"}}
	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusSeeOther, w.Code)

	// Following the redirect renders the list re-fetched by the mutation
	redirect := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		redirect.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, redirect)
	assertSinglePost(t, w.Body.String())

	// A fresh visit fetches and sees the same list
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assertSinglePost(t, w.Body.String())
}

func assertSinglePost(t *testing.T, body string) {
	t.Helper()
	assert.NotContains(t, body, "No posts available")
	assert.Equal(t, 1, strings.Count(body, `class="post-card"`))
	assert.Contains(t, body, "Hello")
	assert.Contains(t, body, "World")
}

func TestRegisterWebRoutes_Static(t *testing.T) {
	r := newWebRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/styles.css", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
