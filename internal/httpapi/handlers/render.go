package handlers

import (
	"net/http"

	v0 "aith/internal/contracts/render/v0"
	"aith/internal/httpkit"
	"aith/internal/pkg/errors"
	"aith/internal/worker/processor"
)

// Render runs the pipeline synchronously for the newest thumbed script.
// GET /render
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) error {
	res, err := h.renderer.Render(r.Context())
	if err != nil {
		return err
	}
	httpkit.WriteJSON(w, http.StatusOK, RenderResponse(res))
	return nil
}

// EnqueueRender pushes a trigger for the worker and returns immediately.
// POST /render/queue
func (h *Handler) EnqueueRender(w http.ResponseWriter, r *http.Request) error {
	if h.queue == nil {
		return errors.Unavailable("render queue")
	}

	t, err := h.queue.Push(r.Context(), "api")
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "render.enqueue", "failed to enqueue render trigger")
	}

	h.log.FromContext(r.Context()).Info("render trigger enqueued", "trigger_id", t.ID)
	httpkit.WriteJSON(w, http.StatusAccepted, v0.QueuedResponse{TriggerID: t.ID, Queue: h.queue.Name()})
	return nil
}

func RenderResponse(res *processor.Result) v0.RenderResult {
	out := v0.RenderResult{
		Status:          v0.StatusSuccess,
		Video:           res.VideoKey,
		ScriptID:        res.ScriptID,
		ScriptStatus:    string(res.Status),
		DurationSeconds: res.DurationSeconds,
	}
	if res.Published != nil {
		out.YouTubeID = res.Published.ID
		out.YouTubeURL = res.Published.URL
	}
	return out
}
