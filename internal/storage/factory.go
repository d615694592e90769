package storage

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"aith/internal/adapters/storage/gdrive"
	"aith/internal/adapters/storage/localfs"
	"aith/internal/adapters/storage/minio"
	"aith/internal/adapters/storage/supabase"
	"aith/internal/config"
)

// NewProvider builds the blob store selected by cfg.Provider.
func NewProvider(ctx context.Context, cfg config.Storage) (Provider, error) {
	switch cfg.Provider {
	case "", "localfs":
		return localfs.New(cfg.LocalRoot), nil

	case "supabase":
		return supabase.New(cfg.SupabaseURL, cfg.SupabaseKey, cfg.Bucket, nil), nil

	case "minio":
		c, err := minio.New(ctx, minio.Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.Bucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, err
		}
		return c, nil

	case "gdrive":
		return newGDriveProvider(ctx, cfg)

	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}

func newGDriveProvider(ctx context.Context, cfg config.Storage) (Provider, error) {
	srv, err := drive.NewService(ctx, option.WithHTTPClient(GDriveHTTPClient(ctx, cfg)))
	if err != nil {
		return nil, err
	}
	return gdrive.NewClient(srv, cfg.GDriveFolderID), nil
}

// GDriveOAuthConfig limits the grant to files the service itself creates.
func GDriveOAuthConfig(cfg config.Storage) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GDriveClientID,
		ClientSecret: cfg.GDriveClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveFileScope},
	}
}

// GDriveHTTPClient returns an HTTP client that refreshes Drive access tokens
// from the configured refresh token.
func GDriveHTTPClient(ctx context.Context, cfg config.Storage) *http.Client {
	return GDriveOAuthConfig(cfg).Client(ctx, &oauth2.Token{RefreshToken: cfg.GDriveRefreshToken})
}
