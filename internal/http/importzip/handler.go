// Package importzip handles uploads of the zip-archived full-backup format.
package importzip

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jpcarvalho/divvy/internal/group"
	"github.com/jpcarvalho/divvy/internal/reconcile"
	"github.com/jpcarvalho/divvy/internal/restore"
	"github.com/jpcarvalho/divvy/internal/snapshot"
)

type Handler struct {
	groups         *group.Service
	engine         *restore.Engine
	maxUploadBytes int64
}

func NewHandler(groups *group.Service, engine *restore.Engine, maxUploadBytes int64) *Handler {
	return &Handler{groups: groups, engine: engine, maxUploadBytes: maxUploadBytes}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importBackup)
}

type comparisonResponse struct {
	Result            reconcile.Result `json:"result"`
	SnapshotTimestamp time.Time        `json:"snapshotTimestamp"`
	LiveTimestamp     *time.Time       `json:"liveTimestamp,omitempty"`

	AddedExpenses       int `json:"addedExpenses"`
	RemovedExpenses     int `json:"removedExpenses"`
	ModifiedExpenses    int `json:"modifiedExpenses"`
	AddedParticipants   int `json:"addedParticipants"`
	RemovedParticipants int `json:"removedParticipants"`
}

type analyzeResponse struct {
	Success    bool               `json:"success"`
	Comparison comparisonResponse `json:"comparison"`
	GroupName  string             `json:"groupName"`
	Warnings   []string           `json:"warnings,omitempty"`
}

type restoreResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	GroupName string       `json:"groupName"`
	GroupID   string       `json:"groupId"`
	Mode      restore.Mode `json:"mode"`
	Warnings  []string     `json:"warnings,omitempty"`
}

func (h *Handler) importBackup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	action := r.FormValue("action")
	if action != "analyze" && action != "restore" && action != "rollback" {
		writeError(w, http.StatusBadRequest, "action must be analyze, restore or rollback")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	snap, warnings, err := snapshot.ParseBackup(file, header.Size)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	live, err := h.groups.Summary(r.Context(), snap.Group.ID)
	if err != nil && !errors.Is(err, group.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	cmp := reconcile.Compare(snap, live)

	if action == "analyze" {
		resp := analyzeResponse{
			Success:    true,
			Comparison: toComparisonResponse(cmp, snap, live),
			GroupName:  snap.Group.Name,
			Warnings:   warnings,
		}

		writeJSON(w, http.StatusOK, resp)

		return
	}

	mode, err := restore.ModeFor(action == "rollback", cmp)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.engine.Restore(r.Context(), snap, mode)
	if err != nil {
		switch {
		case errors.Is(err, restore.ErrIntegrity):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, group.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}

		return
	}

	writeJSON(w, http.StatusOK, restoreResponse{
		Success:   true,
		Message:   restoreMessage(result),
		GroupName: result.GroupName,
		GroupID:   result.GroupID,
		Mode:      result.Mode,
		Warnings:  append(warnings, result.Warnings...),
	})
}

func toComparisonResponse(cmp reconcile.Comparison, snap *snapshot.Snapshot, live *group.Summary) comparisonResponse {
	resp := comparisonResponse{
		Result:            cmp.Result,
		SnapshotTimestamp: cmp.SnapshotTime,
		LiveTimestamp:     cmp.LiveTime,
	}

	if live != nil {
		d := reconcile.Diff(snap, live)
		resp.AddedExpenses = d.AddedExpenses
		resp.RemovedExpenses = d.RemovedExpenses
		resp.ModifiedExpenses = d.ModifiedExpenses
		resp.AddedParticipants = d.AddedParticipants
		resp.RemovedParticipants = d.RemovedParticipants
	}

	return resp
}

func restoreMessage(result *restore.Result) string {
	switch result.Mode {
	case restore.ModeCreate:
		return "group created from backup"
	case restore.ModeUpdate:
		return "group updated with new backup entries"
	case restore.ModeRollback:
		return "group replaced with backup contents"
	default:
		return "restore completed"
	}
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
