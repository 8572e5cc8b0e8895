package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"Postboard/internal/client"
)

// Handlers provides HTTP handlers for the posts page.
// The list view reads from a PostsProvider and the form view calls a PostAdder;
// both are injected so the page never talks to the API directly.
type Handlers struct {
	templates *Templates
	posts     client.PostsProvider
	adder     client.PostAdder
	sessions  sessions.Store
}

// NewHandlers creates a new Handlers instance with the provided dependencies.
func NewHandlers(templates *Templates, posts client.PostsProvider, adder client.PostAdder, store sessions.Store) *Handlers {
	return &Handlers{
		templates: templates,
		posts:     posts,
		adder:     adder,
		sessions:  store,
	}
}

// PostsPageData holds data for the posts page template.
type PostsPageData struct {
	Title string
	List  PostListData
	Form  PostFormData
}

// PostListData is the input of the list view.
// Error takes precedence; otherwise Loading or an empty Posts shows the placeholder.
type PostListData struct {
	Error   string
	Posts   []client.Post
	Loading bool
}

// PostFormData is the input of the form view.
type PostFormData struct {
	// Error is the surfaced failure of the previous submission, if any
	Error string
}

// NewPostListData converts the data layer state into list view input
func NewPostListData(state client.PostsState) PostListData {
	if state.Err != nil {
		return PostListData{Error: describeError(state.Err)}
	}
	return PostListData{
		Loading: state.Loading,
		Posts:   state.Posts,
	}
}

// PostsPageHandler renders the posts list and the new post form
// GET /
// Right after a successful submission the list re-fetched by the mutation
// trigger is rendered as is; any other visit fetches.
func (h *Handlers) PostsPageHandler(w http.ResponseWriter, r *http.Request) {
	flash, refreshed := h.popSubmission(w, r)

	var state client.PostsState
	if refreshed {
		state = h.posts.Posts()
	} else {
		state = h.posts.Fetch(r.Context())
	}
	if state.Err != nil {
		slog.Warn("posts page: failed to fetch posts", "error", state.Err)
	}

	data := PostsPageData{
		Title: "Posts",
		List:  NewPostListData(state),
		Form:  PostFormData{Error: flash},
	}

	if err := h.templates.Render(w, "posts.html", data); err != nil {
		slog.Error("failed to render posts page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// CreatePostHandler submits the form through the mutation trigger and
// redirects back to the list, which re-renders from a fresh fetch.
// POST /posts
func (h *Handlers) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.Warn("create post: failed to parse form", "error", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	title := r.PostFormValue("title")
	content := r.PostFormValue("content")

	post, err := h.adder.AddPost(r.Context(), title, content)
	if err != nil {
		slog.Warn("create post: mutation failed", "error", err)
		h.saveSubmission(w, r, describeError(err))
	} else {
		slog.Info("post created via web", "id", post.ID)
		h.saveSubmission(w, r, "")
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// describeError turns data layer errors into text shown on the page
func describeError(err error) string {
	var opErr *client.OperationError
	switch {
	case client.IsNetworkError(err):
		return "Could not reach the posts service. Please try again."
	case errors.As(err, &opErr) && opErr.Code == client.CodeStorageUnavailable:
		return "Posts are temporarily unavailable. Please try again later."
	case errors.As(err, &opErr) && opErr.Code == client.CodeValidation:
		return opErr.Message
	default:
		return "Something went wrong. Please try again."
	}
}

// saveSubmission records the outcome of a form POST for the page rendered after
// the redirect: an error message as a flash, or a marker that the list was refreshed.
func (h *Handlers) saveSubmission(w http.ResponseWriter, r *http.Request, errMsg string) {
	session, err := h.sessions.Get(r, sessionName)
	if err != nil {
		// A stale or tampered cookie still yields a fresh session
		slog.Debug("create post: discarding invalid session", "error", err)
	}
	if errMsg != "" {
		session.AddFlash(errMsg)
	} else {
		session.Values[refreshedKey] = true
	}
	if err := session.Save(r, w); err != nil {
		slog.Error("create post: failed to save session", "error", err)
	}
}

// popSubmission consumes what saveSubmission stored
func (h *Handlers) popSubmission(w http.ResponseWriter, r *http.Request) (string, bool) {
	session, err := h.sessions.Get(r, sessionName)
	if err != nil {
		return "", false
	}

	refreshed, _ := session.Values[refreshedKey].(bool)
	flashes := session.Flashes()
	if !refreshed && len(flashes) == 0 {
		return "", false
	}
	delete(session.Values, refreshedKey)
	if err := session.Save(r, w); err != nil {
		slog.Error("posts page: failed to save session", "error", err)
	}

	if len(flashes) == 0 {
		return "", refreshed
	}
	msg, _ := flashes[len(flashes)-1].(string)
	return msg, refreshed
}
