// Package google provides OAuth2 authentication and token management
// for the Gmail API.
//
// Tokens are cached in the user cache directory. The credential object
// (client ID/secret) is passed in explicitly by the caller; the package
// holds no module-level session state.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"

	"github.com/kbouqdir/jobtrack/internal/logging"
)

// ErrNoToken indicates that no cached OAuth token exists. Callers
// surface it as a fatal authentication failure with a hint to run the
// auth command.
var ErrNoToken = errors.New("no valid Google OAuth token found")

// Credentials identifies the OAuth application.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Validate reports whether the credentials are usable.
func (c Credentials) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("google OAuth client_id and client_secret are required")
	}
	return nil
}

// oauthConfig returns the OAuth2 configuration. Only read-only Gmail
// access is requested.
func oauthConfig(creds Credentials) *oauth2.Config {
	const oob = "urn:ietf:wg:oauth:2.0:oob"
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  oob,
		Scopes: []string{
			gmail.GmailReadonlyScope,
		},
	}
}

// tokenFile returns the path of the cached token.
func tokenFile() string {
	return filepath.Join(cacheDir(), "google.token")
}

func cacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "jobtrack")
	}
	return ".jobtrack"
}

// HasToken checks if a cached OAuth token exists.
func HasToken() bool {
	_, err := os.ReadFile(tokenFile())
	return err == nil
}

// AuthURL returns the OAuth URL for user authorization.
func AuthURL(creds Credentials) string {
	return oauthConfig(creds).AuthCodeURL("state")
}

// SaveToken exchanges an authorization code for tokens and caches them.
func SaveToken(ctx context.Context, creds Credentials, authCode string) error {
	conf := oauthConfig(creds)

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	if err := os.MkdirAll(cacheDir(), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tokenData := t.AccessToken + " " + t.RefreshToken
	if err := os.WriteFile(tokenFile(), []byte(tokenData), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// ClearToken removes the cached token, invalidating the session.
func ClearToken() error {
	if err := os.Remove(tokenFile()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// TokenSource returns an OAuth2 token source backed by the cached
// token, or ErrNoToken when none exists.
func TokenSource(ctx context.Context, creds Credentials) (oauth2.TokenSource, error) {
	conf := oauthConfig(creds)

	slurp, err := os.ReadFile(tokenFile())
	if err != nil {
		return nil, ErrNoToken
	}

	f := strings.Fields(strings.TrimSpace(string(slurp)))
	if len(f) != 2 {
		return nil, fmt.Errorf("%w: invalid token format (%s)", ErrNoToken,
			logging.SanitizeToken(string(slurp)))
	}

	ts := conf.TokenSource(ctx, &oauth2.Token{
		AccessToken:  f[0],
		TokenType:    "Bearer",
		RefreshToken: f[1],
		Expiry:       time.Unix(1, 0),
	})

	// Validate the token; a revoked refresh token fails here rather
	// than mid-run.
	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("cached token is invalid: %w", err)
	}
	return ts, nil
}

// HTTPClient returns an HTTP client configured with OAuth2
// authentication for the cached token.
func HTTPClient(ctx context.Context, creds Credentials) (*http.Client, error) {
	ts, err := TokenSource(ctx, creds)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, ts), nil
}
