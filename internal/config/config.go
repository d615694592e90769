// Package config loads the runtime configuration shared by the render API,
// the worker and the OAuth helper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"aith/internal/worker/util"
)

type Storage struct {
	Provider  string
	Bucket    string
	LocalRoot string

	SupabaseURL string
	SupabaseKey string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	GDriveClientID     string
	GDriveClientSecret string
	GDriveRefreshToken string
	GDriveFolderID     string
}

type YouTube struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	RefreshToken string
	Privacy      string
	CategoryID   string
}

type Config struct {
	Port           string
	DatabaseURL    string
	AutoMigrate    bool
	RedisAddr      string
	QueueName      string
	Schedule       string
	CORSOrigins    []string
	RequestTimeout time.Duration

	AssetBaseURL      string
	AudioPrefix       string
	ThumbnailPrefix   string
	AssetFetchTimeout time.Duration

	WorkDir      string
	CleanupLocal bool
	FFmpegPath   string
	FFprobePath  string

	Storage         Storage
	PublishProvider string
	YouTube         YouTube
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment. Every missing required
// key is reported in a single error.
func FromEnv() (*Config, error) {
	c := &Config{
		Port:           util.FirstEnv("3000", "PORT", "HTTP_PORT"),
		DatabaseURL:    util.Env("DATABASE_URL", ""),
		AutoMigrate:    util.BoolEnv("DB_AUTO_MIGRATE", false),
		RedisAddr:      util.Env("REDIS_ADDR", ""),
		QueueName:      util.Env("RENDER_QUEUE_NAME", "aith:render"),
		Schedule:       util.Env("RENDER_SCHEDULE", ""),
		CORSOrigins:    strings.Split(util.Env("CORS_ALLOWED_ORIGINS", ""), ","),
		RequestTimeout: util.DurationEnv("HTTP_REQUEST_TIMEOUT", 30*time.Second),

		AssetBaseURL:      strings.TrimRight(util.FirstEnv("", "ASSET_BASE_URL", "SUPABASE_STORAGE_BASE"), "/"),
		AudioPrefix:       strings.Trim(util.Env("AUDIO_PREFIX", "audio"), "/"),
		ThumbnailPrefix:   strings.Trim(util.Env("THUMBNAIL_PREFIX", "thumbnails"), "/"),
		AssetFetchTimeout: util.DurationEnv("ASSET_FETCH_TIMEOUT", 2*time.Minute),

		WorkDir:      util.Env("WORK_DIR", filepath.Join(os.TempDir(), "aith")),
		CleanupLocal: util.BoolEnv("CLEANUP_LOCAL", true),
		FFmpegPath:   util.Env("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:  util.Env("FFPROBE_PATH", "ffprobe"),

		Storage: Storage{
			Provider:  strings.ToLower(util.Env("STORAGE_PROVIDER", "localfs")),
			Bucket:    util.Env("STORAGE_BUCKET", "videos"),
			LocalRoot: util.Env("STORAGE_LOCAL_ROOT", "/data"),

			SupabaseURL: strings.TrimRight(util.Env("SUPABASE_URL", ""), "/"),
			SupabaseKey: util.Env("SUPABASE_SERVICE_ROLE_KEY", ""),

			MinioEndpoint:  util.Env("MINIO_ENDPOINT", ""),
			MinioAccessKey: util.Env("MINIO_ACCESS_KEY", ""),
			MinioSecretKey: util.Env("MINIO_SECRET_KEY", ""),
			MinioUseSSL:    util.BoolEnv("MINIO_USE_SSL", false),

			GDriveClientID:     util.Env("GDRIVE_CLIENT_ID", ""),
			GDriveClientSecret: util.Env("GDRIVE_CLIENT_SECRET", ""),
			GDriveRefreshToken: util.Env("GDRIVE_REFRESH_TOKEN", ""),
			GDriveFolderID:     util.Env("GDRIVE_FOLDER_ID", ""),
		},

		PublishProvider: strings.ToLower(util.Env("PUBLISH_PROVIDER", "")),
		YouTube: YouTube{
			ClientID:     util.Env("YOUTUBE_CLIENT_ID", ""),
			ClientSecret: util.Env("YOUTUBE_CLIENT_SECRET", ""),
			RedirectURL:  util.Env("YOUTUBE_REDIRECT_URL", "http://localhost:8085/callback"),
			RefreshToken: util.Env("YOUTUBE_REFRESH_TOKEN", ""),
			Privacy:      util.Env("YOUTUBE_PRIVACY", "public"),
			CategoryID:   util.Env("YOUTUBE_CATEGORY_ID", "22"),
		},
	}

	if missing := c.missing(); len(missing) > 0 {
		return nil, fmt.Errorf("config: missing required env: %s", strings.Join(missing, ", "))
	}
	return c, nil
}

// PublishEnabled reports whether renders are also published (variant B).
func (c *Config) PublishEnabled() bool {
	return c.PublishProvider != "" && c.PublishProvider != "none"
}

// QueueEnabled reports whether a Redis queue is configured.
func (c *Config) QueueEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) missing() []string {
	var out []string
	need := func(key, val string) {
		if val == "" {
			out = append(out, key)
		}
	}

	need("DATABASE_URL", c.DatabaseURL)
	need("ASSET_BASE_URL", c.AssetBaseURL)

	switch c.Storage.Provider {
	case "supabase":
		need("SUPABASE_URL", c.Storage.SupabaseURL)
		need("SUPABASE_SERVICE_ROLE_KEY", c.Storage.SupabaseKey)
	case "minio":
		need("MINIO_ENDPOINT", c.Storage.MinioEndpoint)
		need("MINIO_ACCESS_KEY", c.Storage.MinioAccessKey)
		need("MINIO_SECRET_KEY", c.Storage.MinioSecretKey)
	case "gdrive":
		need("GDRIVE_CLIENT_ID", c.Storage.GDriveClientID)
		need("GDRIVE_CLIENT_SECRET", c.Storage.GDriveClientSecret)
		need("GDRIVE_REFRESH_TOKEN", c.Storage.GDriveRefreshToken)
	}

	if c.PublishProvider == "youtube" {
		need("YOUTUBE_CLIENT_ID", c.YouTube.ClientID)
		need("YOUTUBE_CLIENT_SECRET", c.YouTube.ClientSecret)
		need("YOUTUBE_REFRESH_TOKEN", c.YouTube.RefreshToken)
	}
	return out
}
