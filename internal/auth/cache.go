package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/playlists/internal/shared"
	"golang.org/x/oauth2"
)

type cachedToken struct {
	Scope string        `json:"scope"`
	Token *oauth2.Token `json:"token"`
}

// CachePath returns the token cache file for username, or "" when caching is disabled.
func (a *Authenticator) CachePath(username string) string {
	if a.config.CacheDir == "" {
		return ""
	}
	return filepath.Join(a.config.CacheDir, ".cache-"+shared.SafeFilename(username))
}

// cachedToken loads a still-valid token granted for [Scope]. Any problem reading the cache means "no token".
func (a *Authenticator) cachedToken(username string) *oauth2.Token {
	path := a.CachePath(username)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var cached cachedToken
	if err := json.Unmarshal(data, &cached); err != nil {
		a.logger.Warn("ignoring unreadable token cache", "path", path, "error", err)
		return nil
	}

	if cached.Scope != Scope || !cached.Token.Valid() {
		return nil
	}
	return cached.Token
}

func (a *Authenticator) saveToken(username string, token *oauth2.Token) error {
	path := a.CachePath(username)
	if path == "" {
		return nil
	}

	data, err := shared.MarshalJSON(cachedToken{Scope: Scope, Token: token}, true)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create token cache directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	return nil
}
