package ports

import (
	"context"
	"io"
)

type Privacy string

const (
	PrivacyPublic   Privacy = "public"
	PrivacyUnlisted Privacy = "unlisted"
	PrivacyPrivate  Privacy = "private"
)

type PublishInput struct {
	Title       string
	Description string
	Privacy     Privacy
	Tags        []string
	ContentType string
	Video       io.Reader
}

type PublishOutput struct {
	ID  string
	URL string
}

// Publisher hands a rendered video to a third-party video platform.
type Publisher interface {
	Provider() string
	Publish(ctx context.Context, in PublishInput) (PublishOutput, error)
}
