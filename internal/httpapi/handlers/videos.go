package handlers

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"aith/internal/pkg/errors"
	"aith/internal/ports"
	"aith/internal/worker/processor"
)

// signedURLTTL is how long a redirect issued by ?signed=true stays valid.
const signedURLTTL = 15 * time.Minute

// StreamVideo serves a rendered video from the blob store.
// GET /videos/{scriptId}[?signed=true]
//
// With signed=true it redirects to a provider URL instead, falling back to
// streaming when the provider cannot sign (localfs).
func (h *Handler) StreamVideo(w http.ResponseWriter, r *http.Request) error {
	id := strings.TrimSuffix(chi.URLParam(r, "scriptId"), ".mp4")
	key := processor.VideoKey(id)

	if r.URL.Query().Get("signed") == "true" {
		out, err := h.sp.GetSignedURL(r.Context(), key, signedURLTTL)
		if stderrors.Is(err, ports.ErrObjectNotFound) {
			return errors.NotFound("video", id)
		}
		if err != nil {
			return errors.Wrap(err, "videos.sign", "failed to sign video url").WithField("key", key)
		}
		if out.URL != "" {
			http.Redirect(w, r, out.URL, http.StatusFound)
			return nil
		}
	}

	rc, ct, size, err := h.sp.GetObject(r.Context(), key)
	if stderrors.Is(err, ports.ErrObjectNotFound) {
		return errors.NotFound("video", id)
	}
	if err != nil {
		return errors.Wrap(err, "videos.get", "failed to read video").WithField("key", key)
	}
	defer rc.Close()

	if ct == "" {
		ct = processor.VideoContentType
	}
	w.Header().Set("Content-Type", ct)
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	w.Header().Set("Content-Disposition", `inline; filename="`+key+`"`)
	if _, err := io.Copy(w, rc); err != nil {
		h.log.FromContext(r.Context()).WithError(err).Warn("video stream interrupted", "key", key)
	}
	return nil
}
