package models

import "time"

type ScriptStatus string

const (
	StatusThumbed   ScriptStatus = "thumbed"
	StatusRendering ScriptStatus = "rendering"
	StatusReady     ScriptStatus = "ready"
	StatusPublished ScriptStatus = "published"
)

func (s ScriptStatus) Valid() bool {
	switch s {
	case StatusThumbed, StatusRendering, StatusReady, StatusPublished:
		return true
	}
	return false
}

// Script is a row of the scripts table. Assets and the rendered video are
// addressed by ID; the pipeline only ever writes Status.
type Script struct {
	ID        string       `json:"id"`
	Status    ScriptStatus `json:"status"`
	Topic     string       `json:"topic,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt *time.Time   `json:"updated_at,omitempty"`
}
