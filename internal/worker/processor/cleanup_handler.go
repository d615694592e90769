package processor

import (
	"errors"
	"io/fs"
	"os"

	"aith/internal/pkg/logger"
)

type Cleanup struct {
	enabled bool
	log     *logger.Logger
}

func NewCleanup(enabled bool, log *logger.Logger) *Cleanup {
	return &Cleanup{enabled: enabled, log: log}
}

// Files removes the working files of a render. Missing files are ignored.
func (c *Cleanup) Files(paths LocalPaths) {
	if !c.enabled {
		return
	}
	for _, p := range paths.All() {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.log.WithError(err).Warn("failed to remove work file", "path", p)
		}
	}
}
