package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dohr-michael/ozzie-core/internal/core"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
)

type submitRequest struct {
	Utterance string `json:"utterance"`
}

// taskView is the JSON-safe projection of a tasks.Task: Result.Undo is a
// closure and cannot round-trip, so only whether the result carries an
// undo thunk is reported.
type taskView struct {
	ID          string           `json:"id"`
	Action      string           `json:"action"`
	Content     string           `json:"content"`
	Params      map[string]any   `json:"params,omitempty"`
	Priority    int              `json:"priority"`
	Queue       string           `json:"queue"`
	Status      tasks.Status     `json:"status"`
	Attempt     int              `json:"attempt"`
	MaxAttempts int              `json:"max_attempts"`
	DependsOn   []string         `json:"depends_on,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	LastError   string           `json:"last_error,omitempty"`
	Checkpoints []tasks.Checkpoint `json:"checkpoints,omitempty"`
	AgentID     string           `json:"agent_id,omitempty"`
	ResultValue any              `json:"result_value,omitempty"`
	HasUndo     bool             `json:"has_undo"`
}

func toTaskView(t tasks.Task) taskView {
	v := taskView{
		ID: t.ID, Action: t.Action, Content: t.Content, Params: t.Params,
		Priority: t.Priority, Queue: t.Queue, Status: t.Status,
		Attempt: t.Attempt, MaxAttempts: t.MaxAttempts, DependsOn: t.DependsOn,
		CreatedAt: t.CreatedAt, StartedAt: t.StartedAt, CompletedAt: t.CompletedAt,
		LastError: t.LastError, Checkpoints: t.Checkpoints, AgentID: t.AgentID,
	}
	if t.Result != nil {
		v.ResultValue = t.Result.Value
		v.HasUndo = t.Result.Undo != nil
	}
	return v
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Utterance == "" {
		writeError(w, http.StatusBadRequest, core.New("httpapi.submit", core.KindValidation, nil))
		return
	}

	task, err := s.sdk.Submit(r.Context(), req.Utterance)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if task == nil {
		writeJSON(w, http.StatusOK, map[string]any{"dropped": true})
		return
	}
	writeJSON(w, http.StatusOK, toTaskView(*task))
}

func (s *Server) handleTasksList(w http.ResponseWriter, r *http.Request) {
	queue := r.URL.Query().Get("queue")
	list := s.sdk.Tasks.List(queue)
	out := make([]taskView, len(list))
	for i, t := range list {
		out[i] = toTaskView(t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTaskGet(w http.ResponseWriter, r *http.Request) {
	task, err := s.sdk.Tasks.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskView(*task))
}

func (s *Server) handleTaskCancel(w http.ResponseWriter, r *http.Request) {
	if err := s.sdk.Tasks.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleTaskRetry(w http.ResponseWriter, r *http.Request) {
	task, err := s.sdk.Tasks.Retry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskView(*task))
}

// undoEntryView is the JSON-safe projection of an undo.Entry: its Undo
// thunk is a closure and cannot round-trip.
type undoEntryView struct {
	ID        string `json:"id"`
	TaskID    string `json:"task_id"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleUndoHistory(w http.ResponseWriter, r *http.Request) {
	entries := s.sdk.Undo.GetHistory(0)
	out := make([]undoEntryView, len(entries))
	for i, e := range entries {
		out[i] = undoEntryView{ID: e.ID, TaskID: e.TaskID, Action: e.Action, Timestamp: e.Timestamp.Format(time.RFC3339Nano)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": s.sdk.Undo.Undo()})
}

func (s *Server) handleUndoByID(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": s.sdk.Undo.UndoByID(chi.URLParam(r, "id"))})
}
