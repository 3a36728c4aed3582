package handlers

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/michael-berardi/harborform/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPageMux(t *testing.T) *http.ServeMux {
	t.Helper()
	site, err := content.Load(filepath.Join("..", "..", "content", "site.yaml"))
	require.NoError(t, err)
	templates := NewTemplateCache()
	require.NoError(t, templates.Load(filepath.Join("..", "..", "templates")))

	mux := http.NewServeMux()
	(&PageHandler{Site: site, Templates: templates}).Register(mux)
	return mux
}

func TestPublicPages(t *testing.T) {
	mux := newPageMux(t)

	tests := []struct {
		path     string
		wantCode int
		want     string
	}{
		{"/", http.StatusOK, `data-endpoint="/api/book-audit"`},
		{"/services", http.StatusOK, `href="/services/local-seo"`},
		{"/services/local-seo", http.StatusOK, "What we do</h2>"},
		{"/case-studies/lakeside-bistro", http.StatusOK, "Lakeside Bistro"},
		{"/insights/review-velocity", http.StatusOK, "2024-02-12"},
		{"/services/no-such-page", http.StatusNotFound, "Page not found"},
		{"/pricing", http.StatusNotFound, "Page not found"},
		{"/robots.txt", http.StatusOK, "Disallow: /admin"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}
