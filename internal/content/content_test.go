package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
name: Harbor Digital
tagline: Growth marketing for local businesses
sections:
  services:
    title: Services
    pages:
      - slug: local-seo
        title: Local SEO
        summary: Rank in the map pack.
        body: |
          ## What we do

          We fix your **listings**. <script>alert(1)</script>
  insights:
    title: Insights
    pages:
      - slug: gbp-checklist
        title: GBP checklist
        date: "2024-02-10"
        body: "See [Google](https://google.com)."
`

func TestParse(t *testing.T) {
	site, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, "Harbor Digital", site.Name)

	page, ok := site.Page("services", "local-seo")
	require.True(t, ok)
	assert.Equal(t, "Local SEO", page.Title)
	html := string(page.HTML)
	assert.Contains(t, html, "What we do</h2>")
	assert.Contains(t, html, "<strong>listings</strong>")
	assert.NotContains(t, html, "<script>")

	post, ok := site.Page("insights", "gbp-checklist")
	require.True(t, ok)
	assert.True(t, strings.Contains(string(post.HTML), `target="_blank"`))

	_, ok = site.Page("services", "nope")
	assert.False(t, ok)
	_, ok = site.Page("locations", "anything")
	assert.False(t, ok)
}

func TestParseEmptySection(t *testing.T) {
	site, err := Parse([]byte("sections:\n  services:\n"))
	require.NoError(t, err)

	sec, ok := site.Section("services")
	require.True(t, ok)
	require.NotNil(t, sec)
	assert.Empty(t, sec.Pages)

	_, ok = site.Page("services", "local-seo")
	assert.False(t, ok)
}

func TestParseRejectsBadContent(t *testing.T) {
	tests := map[string]string{
		"unknown section": "sections:\n  pricing:\n    pages: []\n",
		"missing slug":    "sections:\n  services:\n    pages:\n      - title: x\n",
		"duplicate slug":  "sections:\n  services:\n    pages:\n      - slug: a\n      - slug: a\n",
		"invalid yaml":    "sections: [",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	site, err := Load(path)
	require.NoError(t, err)
	_, ok := site.Section("services")
	assert.True(t, ok)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
