// Package v0 holds the JSON bodies of the render trigger.
package v0

const StatusSuccess = "success"

// RenderResult is the success body of GET /render. YouTube fields are set
// only when the video was published.
type RenderResult struct {
	Status          string  `json:"status"`
	Video           string  `json:"video"`
	ScriptID        string  `json:"script_id"`
	ScriptStatus    string  `json:"script_status"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	YouTubeID       string  `json:"youtube_id,omitempty"`
	YouTubeURL      string  `json:"youtube_url,omitempty"`
}

// Trigger is the message pushed on the render queue.
type Trigger struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	RequestedAt string `json:"requested_at"`
}

// QueuedResponse is the body of POST /render/queue.
type QueuedResponse struct {
	TriggerID string `json:"trigger_id"`
	Queue     string `json:"queue"`
}
