package main

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackCode(t *testing.T) {
	code, err := callbackCode(httptest.NewRequest("GET", "/callback?state=s1&code=abc", nil), "s1")
	require.NoError(t, err)
	assert.Equal(t, "abc", code)

	_, err = callbackCode(httptest.NewRequest("GET", "/callback?state=other&code=abc", nil), "s1")
	assert.EqualError(t, err, "invalid state")

	_, err = callbackCode(httptest.NewRequest("GET", "/callback?state=s1&error=access_denied", nil), "s1")
	assert.EqualError(t, err, "auth error: access_denied")

	_, err = callbackCode(httptest.NewRequest("GET", "/callback?state=s1", nil), "s1")
	assert.EqualError(t, err, "missing code")
}

func TestOAuthConfig(t *testing.T) {
	t.Setenv("YOUTUBE_CLIENT_ID", "yt-id")
	t.Setenv("YOUTUBE_CLIENT_SECRET", "yt-secret")
	t.Setenv("GDRIVE_CLIENT_ID", "gd-id")
	t.Setenv("GDRIVE_CLIENT_SECRET", "gd-secret")

	conf, key, err := oauthConfig("youtube")
	require.NoError(t, err)
	assert.Equal(t, "yt-id", conf.ClientID)
	assert.Equal(t, "YOUTUBE_REFRESH_TOKEN", key)

	conf, key, err = oauthConfig("gdrive")
	require.NoError(t, err)
	assert.Equal(t, "gd-id", conf.ClientID)
	assert.Equal(t, "GDRIVE_REFRESH_TOKEN", key)

	_, _, err = oauthConfig("dropbox")
	assert.Error(t, err)
}

func TestRandomState(t *testing.T) {
	a, b := randomState(), randomState()
	assert.Len(t, a, 24)
	assert.NotEqual(t, a, b)
}
