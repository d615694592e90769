package processor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const (
	imageExt = ".jpg"
	audioExt = ".mp3"
	videoExt = ".mp4"

	VideoContentType = "video/mp4"
)

// LocalPaths are the working files of one render.
type LocalPaths struct {
	Image string
	Audio string
	Video string
}

func (p LocalPaths) All() []string {
	return []string{p.Image, p.Audio, p.Video}
}

// LocalPathsFor places the files of scriptID directly under workDir.
func LocalPathsFor(workDir, scriptID string) LocalPaths {
	base := filepath.Join(workDir, SanitizeFilename(scriptID))
	return LocalPaths{
		Image: base + imageExt,
		Audio: base + audioExt,
		Video: base + videoExt,
	}
}

// VideoKey is the blob store key of the rendered video of scriptID.
func VideoKey(scriptID string) string {
	return scriptID + videoExt
}

// AssetURL builds {base}/{prefix}/{id}{ext} with the id as one escaped path segment.
func AssetURL(base, prefix, scriptID, ext string) string {
	base = strings.TrimRight(base, "/")
	prefix = strings.Trim(prefix, "/")
	name := url.PathEscape(scriptID + ext)
	if prefix == "" {
		return fmt.Sprintf("%s/%s", base, name)
	}
	return fmt.Sprintf("%s/%s/%s", base, prefix, name)
}

// SanitizeFilename strips path separators and traversal from s. When that
// changes s, a short hash of the original is appended so distinct ids never
// share a work file.
func SanitizeFilename(s string) string {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "..", "")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	if s == orig && s != "" {
		return s
	}
	sum := sha256.Sum256([]byte(orig))
	if s == "" {
		s = "script"
	}
	return s + "_" + hex.EncodeToString(sum[:4])
}
