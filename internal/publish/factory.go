package publish

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"aith/internal/adapters/publish/youtube"
	"aith/internal/config"
	"aith/internal/ports"
)

// YouTubeScopes are requested by the auth helper and used for token refresh.
var YouTubeScopes = []string{yt.YoutubeUploadScope}

// NewPublisher returns the publisher selected by PUBLISH_PROVIDER, or nil when
// publishing is disabled.
func NewPublisher(ctx context.Context, cfg *config.Config) (ports.Publisher, error) {
	if !cfg.PublishEnabled() {
		return nil, nil
	}

	switch cfg.PublishProvider {
	case "youtube":
		srv, err := yt.NewService(ctx, option.WithHTTPClient(YouTubeHTTPClient(ctx, cfg.YouTube)))
		if err != nil {
			return nil, fmt.Errorf("youtube service: %w", err)
		}
		return youtube.NewPublisher(srv, cfg.YouTube.CategoryID), nil
	default:
		return nil, fmt.Errorf("unknown publish provider: %s", cfg.PublishProvider)
	}
}

func YouTubeOAuthConfig(c config.YouTube) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       YouTubeScopes,
	}
}

// YouTubeHTTPClient refreshes access tokens from the long-lived refresh token.
func YouTubeHTTPClient(ctx context.Context, c config.YouTube) *http.Client {
	return YouTubeOAuthConfig(c).Client(ctx, &oauth2.Token{RefreshToken: c.RefreshToken})
}
