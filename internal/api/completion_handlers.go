package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"careminder/internal/model"
	"careminder/internal/service"
)

type completionRequest struct {
	TaskType       model.TaskKind `json:"task_type"`
	ParentTaskUUID string         `json:"parent_task_uuid"`
}

func (c completionRequest) validate() string {
	if c.TaskType == "" || c.ParentTaskUUID == "" {
		return "task_type and parent_task_uuid are required."
	}
	if c.TaskType != model.KindTask && c.TaskType != model.KindMedication {
		return "task_type must be task or medication."
	}
	return ""
}

func (a *API) handleRecordCompletion(w http.ResponseWriter, r *http.Request) {
	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	completionUUID, err := a.completions.Record(r.Context(), req.TaskType, req.ParentTaskUUID)
	if err != nil {
		log.Printf("record completion for %s %s: %v", req.TaskType, req.ParentTaskUUID, err)
		writeError(w, http.StatusInternalServerError, "Server error.")
		return
	}
	writeData(w, http.StatusCreated, "Task marked as complete.", map[string]string{"completion_uuid": completionUUID})
}

// handleUndoCompletion removes the latest completion made today. "Nothing to
// undo" is a distinct, non-error outcome.
func (a *API) handleUndoCompletion(w http.ResponseWriter, r *http.Request) {
	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	err := a.completions.UndoLatestToday(r.Context(), req.TaskType, req.ParentTaskUUID)
	switch {
	case err == nil:
		writeData(w, http.StatusOK, "Last completion for today undone.", nil)
	case errors.Is(err, service.ErrNothingToUndo):
		writeError(w, http.StatusNotFound, "No completion to undo for today.")
	default:
		log.Printf("undo completion for %s %s: %v", req.TaskType, req.ParentTaskUUID, err)
		writeError(w, http.StatusInternalServerError, "Server error.")
	}
}
