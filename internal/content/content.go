// Package content loads the marketing site's copy from a YAML file. Page
// bodies are written in Markdown and rendered to HTML once, at load time.
package content

import (
	"fmt"
	"html/template"
	"os"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"gopkg.in/yaml.v3"
)

// Sections served by the site, in navigation order.
var Sections = []string{"services", "industries", "locations", "case-studies", "insights"}

type Page struct {
	Slug    string        `yaml:"slug"`
	Title   string        `yaml:"title"`
	Summary string        `yaml:"summary"`
	Date    string        `yaml:"date,omitempty"` // insights only
	Body    string        `yaml:"body"`
	HTML    template.HTML `yaml:"-"`
}

type Section struct {
	Title string `yaml:"title"`
	Intro string `yaml:"intro"`
	Pages []Page `yaml:"pages"`
}

type Site struct {
	Name     string              `yaml:"name"`
	Tagline  string              `yaml:"tagline"`
	Hero     string              `yaml:"hero"`
	Sections map[string]*Section `yaml:"sections"`
}

func Load(path string) (*Site, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(raw, &site); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if site.Sections == nil {
		site.Sections = make(map[string]*Section)
	}

	for name, sec := range site.Sections {
		if !knownSection(name) {
			return nil, fmt.Errorf("unknown section %q", name)
		}
		if sec == nil {
			sec = &Section{}
			site.Sections[name] = sec
		}
		seen := make(map[string]bool)
		for i := range sec.Pages {
			p := &sec.Pages[i]
			if p.Slug == "" {
				return nil, fmt.Errorf("section %s: page %d has no slug", name, i)
			}
			if seen[p.Slug] {
				return nil, fmt.Errorf("section %s: duplicate slug %q", name, p.Slug)
			}
			seen[p.Slug] = true
			p.HTML = renderMarkdown(p.Body)
		}
	}
	return &site, nil
}

func (s *Site) Section(name string) (*Section, bool) {
	sec, ok := s.Sections[name]
	return sec, ok
}

func (s *Site) Page(section, slug string) (*Page, bool) {
	sec, ok := s.Sections[section]
	if !ok {
		return nil, false
	}
	for i := range sec.Pages {
		if sec.Pages[i].Slug == slug {
			return &sec.Pages[i], true
		}
	}
	return nil, false
}

func knownSection(name string) bool {
	for _, s := range Sections {
		if s == name {
			return true
		}
	}
	return false
}

func renderMarkdown(src string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank | html.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(src), p, renderer))
}
