package google

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsValidate(t *testing.T) {
	assert.NoError(t, Credentials{ClientID: "id", ClientSecret: "secret"}.Validate())
	assert.Error(t, Credentials{ClientID: "id"}.Validate())
	assert.Error(t, Credentials{ClientSecret: "secret"}.Validate())
	assert.Error(t, Credentials{}.Validate())
}

func TestAuthURL(t *testing.T) {
	url := AuthURL(Credentials{ClientID: "id-123", ClientSecret: "secret"})

	assert.Contains(t, url, "client_id=id-123")
	assert.Contains(t, url, "gmail.readonly")
	assert.NotContains(t, url, "secret")
}

func TestTokenLifecycle(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	creds := Credentials{ClientID: "id", ClientSecret: "secret"}

	assert.False(t, HasToken())

	_, err := TokenSource(context.Background(), creds)
	assert.ErrorIs(t, err, ErrNoToken)

	// A malformed token file is treated as absent, not as a crash.
	require.NoError(t, os.MkdirAll(cacheDir(), 0700))
	require.NoError(t, os.WriteFile(tokenFile(), []byte("only-one-field"), 0600))
	assert.True(t, HasToken())
	_, err = TokenSource(context.Background(), creds)
	assert.ErrorIs(t, err, ErrNoToken)
	assert.NotContains(t, err.Error(), "only-one-field", "token content must not leak into errors")

	require.NoError(t, ClearToken())
	assert.False(t, HasToken())

	// Clearing an already absent token is not an error.
	require.NoError(t, ClearToken())
}

func TestTokenFileLocation(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "jobtrack", "google.token"), tokenFile())
}
