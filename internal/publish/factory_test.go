package publish

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aith/internal/config"
)

func TestNewPublisher(t *testing.T) {
	ctx := context.Background()

	p, err := NewPublisher(ctx, &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = NewPublisher(ctx, &config.Config{PublishProvider: "youtube", YouTube: config.YouTube{ClientID: "id", RefreshToken: "r"}})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "youtube", p.Provider())

	_, err = NewPublisher(ctx, &config.Config{PublishProvider: "vimeo"})
	assert.Error(t, err)
}

func TestYouTubeOAuthConfig(t *testing.T) {
	c := YouTubeOAuthConfig(config.YouTube{ClientID: "id", ClientSecret: "s", RedirectURL: "http://localhost:8085/callback"})
	assert.Equal(t, "id", c.ClientID)
	assert.Equal(t, YouTubeScopes, c.Scopes)
	assert.Contains(t, c.AuthCodeURL("st"), "youtube.upload")
}
