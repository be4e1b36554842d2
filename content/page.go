package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/frontmatter"
)

// Project is one entry on the projects page.
type Project struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Tags        []string `yaml:"tags" json:"tags"`
	Status      string   `yaml:"status" json:"status"`
	URL         string   `yaml:"url" json:"url,omitempty"`
}

// Link is a contact channel.
type Link struct {
	Label       string `yaml:"label" json:"label"`
	URL         string `yaml:"url" json:"url"`
	Handle      string `yaml:"handle" json:"handle,omitempty"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// Page is a standalone markdown page such as about or contact.
type Page struct {
	Slug        string    `yaml:"-" json:"slug"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description" json:"description"`
	Projects    []Project `yaml:"projects" json:"projects,omitempty"`
	Links       []Link    `yaml:"links" json:"links,omitempty"`
	Content     string    `yaml:"-" json:"content"`
}

// ReadPage loads <dir>/<slug>.md. The title falls back to the file name.
func ReadPage(dir, slug string) (Page, error) {
	if slug == "" || !filepath.IsLocal(slug) || filepath.Base(slug) != slug {
		return Page{}, fmt.Errorf("read page %q: %w", slug, os.ErrNotExist)
	}
	data, err := os.ReadFile(filepath.Join(dir, slug+".md"))
	if err != nil {
		return Page{}, fmt.Errorf("read page %q: %w", slug, err)
	}
	var p Page
	body, err := frontmatter.Parse(bytes.NewReader(data), &p)
	if err != nil {
		return Page{}, fmt.Errorf("parse front-matter of page %q: %w", slug, err)
	}
	p.Slug = slug
	p.Content = string(body)
	if p.Title == "" {
		p.Title = TitleFromSlug(slug)
	}
	p.Description = CleanDescription(p.Description)
	return p, nil
}

// LoadPages reads every page in dir, keyed by slug. Pages are optional, so
// a missing dir yields an empty set, but an unreadable page is an error.
func LoadPages(dir string) (map[string]Page, error) {
	slugs, err := FindMarkdownFiles(dir, 0)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]Page{}, nil
	}
	if err != nil {
		return nil, err
	}
	pages := make(map[string]Page, len(slugs))
	for _, slug := range slugs {
		p, err := ReadPage(dir, slug)
		if err != nil {
			return nil, err
		}
		pages[slug] = p
	}
	return pages, nil
}
