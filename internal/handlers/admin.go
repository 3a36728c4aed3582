package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"github.com/michael-berardi/harborform/internal/ledger"
)

// render fills in the fields every admin page shows and clears flashes.
func (h *AdminHandler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) {
	session, _ := h.SessionStore.Get(r, adminSession)
	data["CsrfField"] = csrf.TemplateField(r)
	data["Flashes"] = GetFlash(session)
	data["Login"], _ = session.Values["github_login"].(string)
	session.Save(r, w)
	h.Templates.Render(w, http.StatusOK, name, data)
}

func (h *AdminHandler) redirect(w http.ResponseWriter, r *http.Request, to, kind, msg string) {
	session, _ := h.SessionStore.Get(r, adminSession)
	session.AddFlash(FlashMessage{Type: kind, Message: msg})
	session.Save(r, w)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// formValidator checks admin form input against the validate tags on the
// models. The ledgers store whatever they are given.
var formValidator = validator.New()

// checkForm returns a flash-ready message naming the fields that failed,
// or "" when v is valid.
func checkForm(v any) string {
	err := formValidator.Struct(v)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Please check the form."
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	sort.Strings(fields)
	return "Please check: " + strings.Join(fields, ", ") + "."
}

// fail reports a ledger error: bad input goes back to the form as a flash,
// anything else is a server error.
func (h *AdminHandler) fail(w http.ResponseWriter, r *http.Request, to string, err error) {
	if errors.Is(err, ledger.ErrInvalid) {
		h.redirect(w, r, to, "error", err.Error())
		return
	}
	slog.Error("Admin action failed", "path", r.URL.Path, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Ledgers.DashboardStats(r.Context())
	if err != nil {
		slog.Error("Error fetching stats", "error", err)
		http.Error(w, "Error fetching stats", http.StatusInternalServerError)
		return
	}
	submissions, err := h.Store.GetTotalSubmissionsCount(r.Context())
	if err != nil {
		slog.Error("Error counting submissions", "error", err)
		http.Error(w, "Error fetching stats", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin.html", map[string]interface{}{
		"Stats":       stats,
		"Submissions": submissions,
	})
}

func (h *AdminHandler) Clients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Ledgers.Clients(r.Context())
	if err != nil {
		slog.Error("Error fetching clients", "error", err)
		http.Error(w, "Error fetching clients", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin_clients.html", map[string]interface{}{
		"Clients": clients,
	})
}

func (h *AdminHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	submissions, err := h.Store.GetSubmissions(r.Context(), limit, offset)
	if err != nil {
		slog.Error("Error fetching submissions", "error", err)
		http.Error(w, "Error fetching submissions", http.StatusInternalServerError)
		return
	}
	total, err := h.Store.GetTotalSubmissionsCount(r.Context())
	if err != nil {
		slog.Error("Error counting submissions", "error", err)
		http.Error(w, "Error fetching total submission count", http.StatusInternalServerError)
		return
	}

	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	h.render(w, r, "admin_submissions.html", map[string]interface{}{
		"Submissions": submissions,
		"CurrentPage": page,
		"TotalPages":  totalPages,
		"Limit":       limit,
	})
}
