package web

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	// sessionName is the cookie holding flash messages between the form POST and the redirect
	sessionName = "postboard_session"

	// refreshedKey marks that the mutation trigger already re-fetched the list
	refreshedKey = "refreshed"

	// MinSessionSecretLength is the minimum length for the cookie signing secret
	MinSessionSecretLength = 32
)

// NewSessionStore creates the cookie store used for form flash messages
func NewSessionStore(secret string) (*sessions.CookieStore, error) {
	if len(secret) < MinSessionSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d bytes", MinSessionSecretLength)
	}

	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store, nil
}
