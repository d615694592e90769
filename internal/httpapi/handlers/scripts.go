package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"aith/internal/httpkit"
	"aith/internal/models"
	"aith/internal/pkg/errors"
	"aith/internal/ports"
)

// ListScripts GET /scripts?status=thumbed&limit=20
func (h *Handler) ListScripts(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	status := models.ScriptStatus(strings.TrimSpace(q.Get("status")))
	if status != "" && !status.Valid() {
		return errors.Newf(errors.CodeValidation, "invalid status %q", status).
			WithField("allowed", []string{"thumbed", "rendering", "ready", "published"})
	}

	limit := 50
	if s := strings.TrimSpace(q.Get("limit")); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 || v > 200 {
			return errors.New(errors.CodeValidation, "limit must be between 1 and 200")
		}
		limit = v
	}

	items, err := h.scripts.List(r.Context(), status, limit)
	if err != nil {
		if !httpkit.IsUndefinedTable(err) {
			return errors.Wrap(err, "scripts.list", "failed to list scripts")
		}
		items = []models.Script{}
	}

	httpkit.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
	return nil
}

// GetScript GET /scripts/{scriptId}
func (h *Handler) GetScript(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "scriptId")

	s, err := h.scripts.Get(r.Context(), id)
	if stderrors.Is(err, ports.ErrNoScript) || httpkit.IsUndefinedTable(err) {
		return errors.NotFound("script", id)
	}
	if err != nil {
		return errors.Wrap(err, "scripts.get", "failed to load script")
	}

	httpkit.WriteJSON(w, http.StatusOK, s)
	return nil
}
