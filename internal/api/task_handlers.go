package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"careminder/internal/model"
	"careminder/internal/service"
)

// taskRoutes maps URL prefixes to the task kind they operate on. Tasks and
// medications share schema and handlers; only the kind differs.
var taskRoutes = map[string]model.TaskKind{
	"/tasks":       model.KindTask,
	"/medications": model.KindMedication,
}

type ruleRequest struct {
	RuleType      model.RuleKind  `json:"rule_type"`
	Count         int             `json:"count"`
	StartTime     string          `json:"start_time"`
	IntervalHours int             `json:"interval_hours"`
	DurationDays  int             `json:"duration_days"`
	Extras        json.RawMessage `json:"extras"`
}

func (r ruleRequest) toInput() service.RuleInput {
	return service.RuleInput{
		Kind:          r.RuleType,
		Count:         r.Count,
		StartTime:     r.StartTime,
		IntervalHours: r.IntervalHours,
		DurationDays:  r.DurationDays,
		Extras:        extrasString(r.Extras),
	}
}

// extrasString normalizes the extras blob: clients send either a JSON object
// or that object pre-serialized as a string.
func extrasString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

type taskRequest struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Priority     int          `json:"priority"`
	AssigneeUUID string       `json:"assignee_uuid"`
	ValidUntil   string       `json:"valid_until"`
	StartDate    string       `json:"start_date"`
	Rule         *ruleRequest `json:"rule"`
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (a *API) actor(r *http.Request) (*model.User, error) {
	claims, ok := claimsFrom(r)
	if !ok {
		return nil, errors.New("no claims in context")
	}
	return a.users.FindByUUID(r.Context(), claims.UserUUID)
}

func (a *API) handleCreateTask(kind model.TaskKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := a.actor(r)
		if err != nil {
			writeError(w, http.StatusForbidden, "Actor not found.")
			return
		}
		var req taskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		if req.Name == "" || req.AssigneeUUID == "" || req.Rule == nil {
			writeError(w, http.StatusBadRequest, "name, assignee_uuid and rule are required.")
			return
		}
		validUntil, err := parseDate(req.ValidUntil)
		if err != nil {
			writeError(w, http.StatusBadRequest, "valid_until must be YYYY-MM-DD.")
			return
		}
		startDate, err := parseDate(req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD.")
			return
		}

		task, err := a.tasks.CreateTask(r.Context(), actor, service.TaskInput{
			Kind:         kind,
			Name:         req.Name,
			Description:  req.Description,
			Priority:     req.Priority,
			AssigneeUUID: req.AssigneeUUID,
			ValidUntil:   validUntil,
			StartDate:    startDate,
			Rule:         req.Rule.toInput(),
		})
		if err != nil {
			log.Printf("create %s: %v", kind, err)
			writeError(w, http.StatusInternalServerError, "Server error.")
			return
		}
		writeData(w, http.StatusCreated, "Task added successfully.", map[string]string{"task_uuid": task.UUID})
	}
}

func (a *API) handleListTasks(kind model.TaskKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required.")
			return
		}
		// Callers may list another user's tasks (caretaker views); default to
		// their own.
		assignee := r.URL.Query().Get("user_uuid")
		if assignee == "" {
			assignee = claims.UserUUID
		}
		listed, err := a.tasks.ListTasks(r.Context(), assignee, kind)
		if err != nil {
			log.Printf("list %s: %v", kind, err)
			writeError(w, http.StatusInternalServerError, "Server error.")
			return
		}
		out := make([]taskResponse, 0, len(listed))
		for _, item := range listed {
			out = append(out, toTaskResponse(item))
		}
		writeData(w, http.StatusOK, "", out)
	}
}

type taskResponse struct {
	TaskUUID           string         `json:"task_uuid"`
	Kind               model.TaskKind `json:"kind"`
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	Priority           int            `json:"priority"`
	Status             string         `json:"status"`
	SenderUUID         string         `json:"sender_uuid"`
	AssigneeUUID       string         `json:"assignee_uuid"`
	ValidUntil         *time.Time     `json:"valid_until,omitempty"`
	StartDate          *time.Time     `json:"start_date,omitempty"`
	Rule               *ruleResponse  `json:"rule,omitempty"`
	CompletedToday     int64          `json:"completed_occurrences"`
	TotalDaysCompleted int64          `json:"total_days_completed"`
	CreatedAt          time.Time      `json:"created_at"`
}

type ruleResponse struct {
	RuleUUID      string         `json:"rule_uuid"`
	RuleType      model.RuleKind `json:"rule_type"`
	Count         int            `json:"count,omitempty"`
	StartTime     string         `json:"start_time,omitempty"`
	IntervalHours int            `json:"interval_hours,omitempty"`
	DurationDays  int            `json:"duration_days,omitempty"`
	Extras        string         `json:"extras,omitempty"`
}

func toTaskResponse(item service.TaskWithStats) taskResponse {
	resp := taskResponse{
		TaskUUID:           item.Task.UUID,
		Kind:               item.Task.Kind,
		Name:               item.Task.Name,
		Description:        item.Task.Description,
		Priority:           item.Task.Priority,
		Status:             item.Task.Status,
		SenderUUID:         item.Task.SenderUUID,
		AssigneeUUID:       item.Task.AssigneeUUID,
		ValidUntil:         item.Task.ValidUntil,
		StartDate:          item.Task.StartDate,
		CompletedToday:     item.CompletedToday,
		TotalDaysCompleted: item.TotalDaysCompleted,
		CreatedAt:          item.Task.CreatedAt,
	}
	if rule := item.Task.Rule; rule != nil {
		resp.Rule = &ruleResponse{
			RuleUUID:      rule.UUID,
			RuleType:      rule.Kind,
			Count:         rule.Count,
			StartTime:     rule.StartTime,
			IntervalHours: rule.IntervalHours,
			DurationDays:  rule.DurationDays,
			Extras:        rule.Extras,
		}
	}
	return resp
}

type taskPatchRequest struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	Priority    *int         `json:"priority"`
	Status      *string      `json:"status"`
	ValidUntil  *string      `json:"valid_until"`
	StartDate   *string      `json:"start_date"`
	Rule        *ruleRequest `json:"rule"`
}

func (a *API) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	actor, err := a.actor(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "Actor not found.")
		return
	}
	var req taskPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	update := service.TaskUpdate{
		Name:        req.Name,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
	}
	if req.ValidUntil != nil {
		parsed, err := parseDate(*req.ValidUntil)
		if err != nil {
			writeError(w, http.StatusBadRequest, "valid_until must be YYYY-MM-DD.")
			return
		}
		update.ValidUntil = parsed
	}
	if req.StartDate != nil {
		parsed, err := parseDate(*req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD.")
			return
		}
		update.StartDate = parsed
	}
	if req.Rule != nil {
		input := req.Rule.toInput()
		update.Rule = &input
	}

	taskUUID := mux.Vars(r)["task_uuid"]
	if _, err := a.tasks.UpdateTask(r.Context(), actor, taskUUID, update); err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			writeError(w, http.StatusForbidden, "Permission denied.")
		case errors.Is(err, gorm.ErrRecordNotFound):
			writeError(w, http.StatusNotFound, "Task not found.")
		default:
			log.Printf("update task %s: %v", taskUUID, err)
			writeError(w, http.StatusInternalServerError, "Server error.")
		}
		return
	}
	writeData(w, http.StatusOK, "Task updated.", nil)
}

func (a *API) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	actor, err := a.actor(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "Actor not found.")
		return
	}
	taskUUID := mux.Vars(r)["task_uuid"]
	if err := a.tasks.DeleteTask(r.Context(), actor, taskUUID); err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			writeError(w, http.StatusForbidden, "Permission denied.")
		case errors.Is(err, gorm.ErrRecordNotFound):
			writeError(w, http.StatusNotFound, "Task not found.")
		default:
			log.Printf("delete task %s: %v", taskUUID, err)
			writeError(w, http.StatusInternalServerError, "Server error.")
		}
		return
	}
	writeData(w, http.StatusOK, "Task deleted.", nil)
}
