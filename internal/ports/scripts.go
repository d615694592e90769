package ports

import (
	"context"
	"errors"

	"aith/internal/models"
)

var (
	// ErrNoScript is returned when no script matches a claim or lookup.
	ErrNoScript = errors.New("no script found")
	// ErrStatusConflict is returned by SetStatus when the script is no longer in the expected status.
	ErrStatusConflict = errors.New("script status changed concurrently")
)

// ScriptStore is the record store consumed by the render pipeline.
type ScriptStore interface {
	ClaimLatest(ctx context.Context, from, to models.ScriptStatus) (*models.Script, error)
	SetStatus(ctx context.Context, id string, from, to models.ScriptStatus) error
}
