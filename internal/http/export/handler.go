package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jpcarvalho/divvy/internal/export"
	"github.com/jpcarvalho/divvy/internal/group"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{groupID}/export", h.download)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	// The archive is built before any header is written so a failed load
	// still produces a clean error response.
	var buf bytes.Buffer

	snap, err := h.svc.Export(r.Context(), chi.URLParam(r, "groupID"), &buf)
	if err != nil {
		if errors.Is(err, group.ErrNotFound) {
			writeError(w, http.StatusNotFound, "group not found")
			return
		}

		writeError(w, http.StatusInternalServerError, err.Error())

		return
	}

	filename := export.Filename(snap.Group.Name, time.Now().UTC())

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export archive", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
