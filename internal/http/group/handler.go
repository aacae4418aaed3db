package group

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jpcarvalho/divvy/internal/group"
	"github.com/jpcarvalho/divvy/internal/restore"
)

type Handler struct {
	svc    *group.Service
	engine *restore.Engine
}

func NewHandler(svc *group.Service, engine *restore.Engine) *Handler {
	return &Handler{svc: svc, engine: engine}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{groupID}", h.get)
	r.Get("/{groupID}/import/marker", h.importMarker)
	r.Post("/{groupID}/import/undo", h.undoImport)
}

type groupResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Information  string    `json:"information,omitempty"`
	Currency     string    `json:"currency"`
	CurrencyCode string    `json:"currencyCode"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toGroupResponse(g *group.Group) groupResponse {
	return groupResponse{
		ID:           g.ID,
		Name:         g.Name,
		Information:  g.Information,
		Currency:     g.Currency,
		CurrencyCode: g.CurrencyCode,
		CreatedAt:    g.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, toGroupResponse(g))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Get(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		if errors.Is(err, group.ErrNotFound) {
			writeError(w, http.StatusNotFound, "group not found")
			return
		}

		writeError(w, http.StatusInternalServerError, err.Error())

		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(g))
}

type markerResponse struct {
	HasImportMarker bool `json:"hasImportMarker"`
}

func (h *Handler) importMarker(w http.ResponseWriter, r *http.Request) {
	has, err := h.svc.HasImportMarker(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, markerResponse{HasImportMarker: has})
}

type undoRequest struct {
	Action string `json:"action"`
}

type undoResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
}

func (h *Handler) undoImport(w http.ResponseWriter, r *http.Request) {
	var req undoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.Action != "undo-import" {
		writeError(w, http.StatusBadRequest, `action must be "undo-import"`)
		return
	}

	result, err := h.engine.UndoLastImport(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		switch {
		case errors.Is(err, group.ErrNoImportMarker):
			writeError(w, http.StatusBadRequest, "no import to undo")
		case errors.Is(err, group.ErrNotFound):
			writeError(w, http.StatusNotFound, "group not found")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}

		return
	}

	writeJSON(w, http.StatusOK, undoResponse{
		Success:  true,
		Message:  fmt.Sprintf("removed %d expenses and %d activity entries", result.Expenses, result.Activities),
		Warnings: result.Warnings,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
