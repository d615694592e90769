package util

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns "{prefix}_{uuid}" without dashes, e.g. "trg_4f0c...".
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
