package processor

import (
	"aith/internal/models"
	"aith/internal/ports"
)

// Result describes one completed render.
type Result struct {
	ScriptID        string
	Status          models.ScriptStatus
	VideoKey        string
	DurationSeconds float64
	Published       *ports.PublishOutput
}

// LocalInputs are the downloaded assets, written to disk.
type LocalInputs struct {
	ImagePath string
	AudioPath string
}
