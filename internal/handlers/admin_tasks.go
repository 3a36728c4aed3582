package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/michael-berardi/harborform/internal/models"
)

func (h *AdminHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Ledgers.Tasks.List(r.Context())
	if err != nil {
		slog.Error("Error fetching tasks", "error", err)
		http.Error(w, "Error fetching tasks", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin_tasks.html", map[string]interface{}{
		"Tasks":    tasks,
		"Statuses": []models.TaskStatus{models.TaskPending, models.TaskInProgress, models.TaskCompleted, models.TaskBlocked},
	})
}

func (h *AdminHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	in := models.NewTask{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Client:      strings.TrimSpace(r.FormValue("client")),
		Property:    strings.TrimSpace(r.FormValue("property")),
		Priority:    models.Priority(r.FormValue("priority")),
		AssignedTo:  models.Assignee(r.FormValue("assigned_to")),
		Notes:       strings.TrimSpace(r.FormValue("notes")),
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if in.AssignedTo == "" {
		in.AssignedTo = models.AssigneeAdmin
	}
	if msg := checkForm(in); msg != "" {
		h.redirect(w, r, "/admin/tasks", "error", msg)
		return
	}

	task, err := h.Ledgers.Tasks.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, "/admin/tasks", err)
		return
	}
	h.redirect(w, r, "/admin/tasks", "success", "Task \""+task.Title+"\" added.")
}

func (h *AdminHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id := r.FormValue("id")
	status := models.TaskStatus(r.FormValue("status"))
	if !status.Valid() {
		h.redirect(w, r, "/admin/tasks", "error", "Invalid status selected.")
		return
	}

	_, found, err := h.Ledgers.Tasks.Update(r.Context(), id, models.TaskPatch{Status: &status})
	if err != nil {
		h.fail(w, r, "/admin/tasks", err)
		return
	}
	if !found {
		h.redirect(w, r, "/admin/tasks", "error", "Task not found.")
		return
	}
	h.redirect(w, r, "/admin/tasks", "success", "Task updated!")
}

func (h *AdminHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledgers.Tasks.Delete(r.Context(), r.FormValue("id")); err != nil {
		h.fail(w, r, "/admin/tasks", err)
		return
	}
	h.redirect(w, r, "/admin/tasks", "success", "Task deleted.")
}
