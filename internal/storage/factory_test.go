package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aith/internal/config"
)

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	p, err := NewProvider(ctx, config.Storage{LocalRoot: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "localfs", p.Provider())

	p, err = NewProvider(ctx, config.Storage{Provider: "supabase", SupabaseURL: "https://x.supabase.co", SupabaseKey: "k", Bucket: "videos"})
	require.NoError(t, err)
	assert.Equal(t, "supabase", p.Provider())

	p, err = NewProvider(ctx, config.Storage{Provider: "gdrive", GDriveClientID: "id", GDriveClientSecret: "s", GDriveRefreshToken: "r"})
	require.NoError(t, err)
	assert.Equal(t, "gdrive", p.Provider())

	_, err = NewProvider(ctx, config.Storage{Provider: "ftp"})
	assert.EqualError(t, err, "unknown storage provider: ftp")
}

func TestGDriveOAuthConfig(t *testing.T) {
	conf := GDriveOAuthConfig(config.Storage{GDriveClientID: "id", GDriveClientSecret: "s"})
	assert.Equal(t, "id", conf.ClientID)
	assert.Equal(t, []string{"https://www.googleapis.com/auth/drive.file"}, conf.Scopes)
}
