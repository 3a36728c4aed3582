package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/michael-berardi/harborform/internal/content"
)

type navLink struct {
	Name  string
	Title string
}

// PageHandler renders the public marketing site.
type PageHandler struct {
	Site         *content.Site
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

func (h *PageHandler) base(r *http.Request) map[string]interface{} {
	var nav []navLink
	for _, name := range content.Sections {
		if sec, ok := h.Site.Section(name); ok {
			nav = append(nav, navLink{Name: name, Title: sec.Title})
		}
	}
	isAdmin := false
	if h.SessionStore != nil {
		session, _ := h.SessionStore.Get(r, adminSession)
		if auth, ok := session.Values["authenticated"].(bool); ok && auth {
			isAdmin = true
		}
	}
	return map[string]interface{}{
		"Site":    h.Site,
		"Nav":     nav,
		"IsAdmin": isAdmin,
	}
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.Templates.Render(w, http.StatusOK, "home.html", h.base(r))
}

// Section lists the pages of one content section.
func (h *PageHandler) Section(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sec, ok := h.Site.Section(name)
		if !ok {
			h.NotFound(w, r)
			return
		}
		data := h.base(r)
		data["SectionName"] = name
		data["Section"] = sec
		h.Templates.Render(w, http.StatusOK, "section.html", data)
	}
}

// Page renders /{section}/{slug}.
func (h *PageHandler) Page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := h.Site.Page(name, r.PathValue("slug"))
		if !ok {
			h.NotFound(w, r)
			return
		}
		sec, _ := h.Site.Section(name)
		data := h.base(r)
		data["SectionName"] = name
		data["Section"] = sec
		data["Page"] = page
		h.Templates.Render(w, http.StatusOK, "page.html", data)
	}
}

func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Templates.Render(w, http.StatusNotFound, "not_found.html", h.base(r))
}

func (h *PageHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("User-agent: *\nDisallow: /admin\nDisallow: /api/\n"))
}
