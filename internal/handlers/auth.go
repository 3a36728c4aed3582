package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/michael-berardi/harborform/internal/ledger"
	"github.com/michael-berardi/harborform/internal/store"
	"golang.org/x/oauth2"
)

const adminSession = "admin-session"

// OAuthProvider is the part of *oauth2.Config the sign-in flow needs.
type OAuthProvider interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}

// IdentityFetcher resolves an access token to a GitHub login.
type IdentityFetcher interface {
	Login(ctx context.Context, token *oauth2.Token) (string, error)
}

type AdminHandler struct {
	Store        *store.Store
	Ledgers      *ledger.Ledgers
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache

	OAuth      OAuthProvider
	Identity   IdentityFetcher
	AdminLogin string // the only GitHub account allowed in

	// Metrics is served at /admin/metrics to the signed-in admin. Nil
	// leaves the route unmounted.
	Metrics http.Handler
}

func (h *AdminHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, adminSession)
	data := map[string]interface{}{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	h.Templates.Render(w, http.StatusOK, "login.html", data)
}

// GitHubLogin starts the OAuth flow with a fresh state kept in the session.
func (h *AdminHandler) GitHubLogin(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, adminSession)
	state := randomState()
	session.Values["oauth_state"] = state
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, h.OAuth.AuthCodeURL(state), http.StatusFound)
}

func (h *AdminHandler) GitHubCallback(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, adminSession)
	expected, _ := session.Values["oauth_state"].(string)
	delete(session.Values, "oauth_state")

	fail := func(msg string) {
		session.AddFlash(FlashMessage{Type: "error", Message: msg})
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}

	q := r.URL.Query()
	if expected == "" || q.Get("state") != expected {
		slog.Warn("OAuth state mismatch")
		fail("Sign-in expired. Please try again.")
		return
	}
	if q.Get("code") == "" {
		fail("GitHub did not return an authorization code.")
		return
	}

	token, err := h.OAuth.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		slog.Error("OAuth code exchange failed", "error", err)
		fail("GitHub sign-in failed.")
		return
	}
	login, err := h.Identity.Login(r.Context(), token)
	if err != nil {
		slog.Error("Failed to fetch GitHub identity", "error", err)
		fail("GitHub sign-in failed.")
		return
	}
	if h.AdminLogin == "" || !strings.EqualFold(login, h.AdminLogin) {
		slog.Warn("Rejected admin sign-in", "login", login)
		fail("This GitHub account is not allowed to access the admin.")
		return
	}

	session.Values["authenticated"] = true
	session.Values["github_login"] = login
	session.Options.Path = "/"
	session.AddFlash(FlashMessage{Type: "success", Message: "Welcome, " + login + "!"})
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	slog.Info("Login successful, redirecting to /admin", "login", login)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, adminSession)
	session.Values["authenticated"] = false
	delete(session.Values, "github_login")
	session.Options.MaxAge = -1
	session.Save(r, w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// AuthMiddleware ensures the user is logged in
func (h *AdminHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := h.SessionStore.Get(r, adminSession)
		if auth, ok := session.Values["authenticated"].(bool); !ok || !auth {
			slog.Debug("AuthMiddleware: not authenticated, redirecting to /login", "path", r.URL.Path)
			session.AddFlash(FlashMessage{Type: "error", Message: "You must be logged in to access this page."})
			session.Save(r, w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func randomState() string {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		return fmt.Sprintf("state-%d", time.Now().UnixNano())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// GitHubIdentity looks up the signed-in user through the GitHub REST API.
type GitHubIdentity struct {
	client *resty.Client
}

func NewGitHubIdentity(apiURL string, timeout time.Duration) *GitHubIdentity {
	client := resty.New().
		SetBaseURL(strings.TrimRight(apiURL, "/")).
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("User-Agent", "harborform")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &GitHubIdentity{client: client}
}

func (g *GitHubIdentity) Login(ctx context.Context, token *oauth2.Token) (string, error) {
	var user struct {
		Login string `json:"login"`
	}
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		SetResult(&user).
		Get("/user")
	if err != nil {
		return "", fmt.Errorf("github user lookup: %w", err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("github user lookup: status %d", resp.StatusCode())
	}
	if user.Login == "" {
		return "", errors.New("github user lookup: empty login")
	}
	return user.Login, nil
}
