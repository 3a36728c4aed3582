package handlers

import (
	"net/http"

	"github.com/michael-berardi/harborform/internal/content"
)

// Register mounts the sign-in flow and every /admin route behind AuthMiddleware.
func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /login", h.LoginGet)
	mux.HandleFunc("GET /auth/github", h.GitHubLogin)
	mux.HandleFunc("GET /auth/github/callback", h.GitHubCallback)
	mux.HandleFunc("GET /logout", h.Logout)

	mux.HandleFunc("GET /admin", h.AuthMiddleware(h.Dashboard))
	mux.HandleFunc("GET /admin/clients", h.AuthMiddleware(h.Clients))
	mux.HandleFunc("GET /admin/submissions", h.AuthMiddleware(h.ListSubmissions))

	mux.HandleFunc("GET /admin/tasks", h.AuthMiddleware(h.ListTasks))
	mux.HandleFunc("POST /admin/tasks", h.AuthMiddleware(h.CreateTask))
	mux.HandleFunc("POST /admin/tasks/status", h.AuthMiddleware(h.UpdateTaskStatus))
	mux.HandleFunc("POST /admin/tasks/delete", h.AuthMiddleware(h.DeleteTask))

	mux.HandleFunc("GET /admin/billing", h.AuthMiddleware(h.ListBilling))
	mux.HandleFunc("POST /admin/billing", h.AuthMiddleware(h.CreateBilling))
	mux.HandleFunc("POST /admin/billing/status", h.AuthMiddleware(h.UpdateBillingStatus))
	mux.HandleFunc("POST /admin/billing/delete", h.AuthMiddleware(h.DeleteBilling))

	mux.HandleFunc("GET /admin/invoices", h.AuthMiddleware(h.ListInvoices))
	mux.HandleFunc("POST /admin/invoices", h.AuthMiddleware(h.CreateInvoice))
	mux.HandleFunc("POST /admin/invoices/status", h.AuthMiddleware(h.UpdateInvoiceStatus))

	if h.Metrics != nil {
		mux.HandleFunc("GET /admin/metrics", h.AuthMiddleware(h.Metrics.ServeHTTP))
	}
}

// Register mounts the form endpoints. A nil limiter leaves them unthrottled.
func (h *LeadHandler) Register(mux *http.ServeMux, limiter *RateLimiter) {
	lead, audit := h.SubmitLead, h.BookAudit
	if limiter != nil {
		lead, audit = limiter.Middleware(lead), limiter.Middleware(audit)
	}
	mux.HandleFunc("POST /api/lead", lead)
	mux.HandleFunc("POST /api/book-audit", audit)
}

// Register mounts the home page, one listing and one detail route per
// content section, robots.txt and the not-found fallback.
func (h *PageHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Home)
	for _, name := range content.Sections {
		mux.HandleFunc("GET /"+name, h.Section(name))
		mux.HandleFunc("GET /"+name+"/{slug}", h.Page(name))
	}
	mux.HandleFunc("GET /robots.txt", h.Robots)
	mux.HandleFunc("GET /", h.NotFound)
}
