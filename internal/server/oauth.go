package server

import (
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"golang.org/x/oauth2"
)

var (
	ErrStateMismatch = errors.New("callback state does not match")
	ErrDeclined      = errors.New("authorization declined")
)

const successPage = `<!DOCTYPE html>
<html>
<head><title>playlists: authorized</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 20vh;">
    <h1 style="color: #1DB954;">Authorization Successful</h1>
    <p>You can close this window; the export continues in your terminal.</p>
</body>
</html>
`

// CallbackResult is the outcome of the authorization callback: a token or the reason there is none.
type CallbackResult struct {
	Token *oauth2.Token
	Err   error
}

// OAuthHandler accepts exactly one authorization code callback on its path and exchanges the code for a token.
type OAuthHandler struct {
	config  *oauth2.Config
	state   string
	path    string
	handled atomic.Bool
	results chan CallbackResult
}

// NewOAuthHandler creates a handler for callbacks on path that carry the given state.
// An empty path means "/".
func NewOAuthHandler(config *oauth2.Config, state, path string) *OAuthHandler {
	if path == "" {
		path = "/"
	}
	return &OAuthHandler{
		config:  config,
		state:   state,
		path:    path,
		results: make(chan CallbackResult, 1),
	}
}

func (h *OAuthHandler) Routes() []string {
	return []string{h.path}
}

// Result delivers the single callback outcome and is then closed.
func (h *OAuthHandler) Result() <-chan CallbackResult {
	return h.results
}

func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != h.path {
		http.NotFound(w, r)
		return
	}

	if !h.handled.CompareAndSwap(false, true) {
		http.Error(w, "callback already processed", http.StatusConflict)
		return
	}

	token, status, err := h.exchange(r)
	h.results <- CallbackResult{Token: token, Err: err}
	close(h.results)

	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, successPage)
}

// exchange validates the callback query and trades its code for a token, returning the HTTP status to answer with.
func (h *OAuthHandler) exchange(r *http.Request) (*oauth2.Token, int, error) {
	query := r.URL.Query()

	switch {
	case query.Get("state") != h.state:
		return nil, http.StatusBadRequest, ErrStateMismatch
	case query.Get("error") != "":
		return nil, http.StatusBadRequest, fmt.Errorf("%w: %s", ErrDeclined, query.Get("error"))
	case query.Get("code") == "":
		return nil, http.StatusBadRequest, fmt.Errorf("%w: no authorization code", ErrDeclined)
	}

	token, err := h.config.Exchange(r.Context(), query.Get("code"))
	if err != nil {
		return nil, http.StatusBadGateway, fmt.Errorf("token exchange failed: %w", err)
	}
	if token.AccessToken == "" {
		return nil, http.StatusBadGateway, errors.New("token exchange returned no access token")
	}

	return token, http.StatusOK, nil
}
