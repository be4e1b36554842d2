// Package search builds the flat search index behind the search palette and
// answers fuzzy queries against it.
package search

import (
	"fmt"
	"strings"

	"github.com/eringen/pubfolio/content"
)

// Metadata carries the secondary searchable fields of an entry.
type Metadata struct {
	Category string         `json:"category,omitempty"`
	Tags     []string       `json:"tags,omitempty"`
	Genre    *content.Label `json:"genre,omitempty"`
	Location string         `json:"location,omitempty"`
	Date     string         `json:"date,omitempty"`
}

// Entry is one searchable document. Content holds every textual field of the
// source item joined by spaces.
type Entry struct {
	ID          string       `json:"id"`
	Type        content.Kind `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Content     string       `json:"content"`
	URL         string       `json:"url"`
	Metadata    *Metadata    `json:"metadata,omitempty"`
}

// Page is a static page listed in the index.
type Page struct {
	ID          string
	Title       string
	Description string
	Keywords    string
	URL         string
}

// DefaultPages are the static pages every site exposes.
var DefaultPages = []Page{
	{ID: "about", Title: "About", Description: "Learn more about me", Keywords: "about software engineer developer personal information biography", URL: "/about"},
	{ID: "projects", Title: "Projects", Description: "View my projects and work", Keywords: "projects portfolio work software development coding programming", URL: "/projects"},
	{ID: "contact", Title: "Contact", Description: "Get in touch", Keywords: "contact email social media linkedin github twitter get in touch", URL: "/contact"},
	{ID: "reviews", Title: "Reviews", Description: "Book, movie, and TV reviews", Keywords: "reviews books movies tv shows television ratings recommendations", URL: "/posts"},
	{ID: "backpacking", Title: "Backpacking Adventures", Description: "Backpacking trip reports and guides", Keywords: "backpacking hiking trails wilderness camping outdoor adventures trip reports", URL: "/backpacking"},
}

func join(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// ReviewEntries indexes reviews.
func ReviewEntries(reviews []content.Review) []Entry {
	out := make([]Entry, 0, len(reviews))
	for _, r := range reviews {
		md := &Metadata{
			Category: r.Category.Display(),
			Tags:     r.Tags,
			Date:     r.Completed.String(),
		}
		if !r.Genre.IsZero() {
			g := r.Genre
			md.Genre = &g
		}
		out = append(out, Entry{
			ID:          "review-" + r.Slug,
			Type:        content.KindReview,
			Title:       r.Title,
			Description: r.Description,
			Content: join(
				r.Title,
				r.Description,
				r.Content,
				r.Category.Display(),
				strings.Join(r.Genre.Values(), " "),
				strings.Join(r.Tags, " "),
			),
			URL:      r.Link(),
			Metadata: md,
		})
	}
	return out
}

// TripEntries indexes backpacking trips.
func TripEntries(trips []content.Trip) []Entry {
	out := make([]Entry, 0, len(trips))
	for _, t := range trips {
		days := make([]string, 0, len(t.Itinerary))
		for _, d := range t.Itinerary {
			days = append(days, join(d.Title, d.Description, strings.Join(d.Highlights, " ")))
		}
		out = append(out, Entry{
			ID:          "trip-" + t.ID,
			Type:        content.KindTrip,
			Title:       t.Name,
			Description: fmt.Sprintf("%s • %s • %s", t.Location, t.Stats.Distance, t.Stats.Difficulty),
			Content: join(
				t.Name,
				t.Location,
				t.Story,
				strings.Join(days, " "),
				strings.Join(t.Tips, " "),
				t.Stats.Distance,
				t.Stats.Difficulty,
				t.Stats.Duration,
				strings.Join(t.Tags, " "),
			),
			URL: t.Link(),
			Metadata: &Metadata{
				Tags:     t.Tags,
				Location: t.Location,
				Date:     t.Dates,
			},
		})
	}
	return out
}

// WeddingEntries indexes the wedding page.
func WeddingEntries(w *content.Wedding) []Entry {
	if w == nil {
		return nil
	}
	story := make([]string, 0, len(w.Story))
	for _, s := range w.Story {
		story = append(story, join(s.Title, s.Content))
	}
	return []Entry{{
		ID:          "wedding",
		Type:        content.KindWedding,
		Title:       w.Hero.Title,
		Description: fmt.Sprintf("%s • %s", w.Hero.Date, w.Hero.Location),
		Content:     join(w.Hero.Title, w.Hero.Location, strings.Join(story, " ")),
		URL:         "/wedding",
		Metadata: &Metadata{
			Location: w.Hero.Location,
			Date:     w.Hero.Date,
		},
	}}
}

// PageEntries indexes static pages.
func PageEntries(pages []Page) []Entry {
	out := make([]Entry, 0, len(pages))
	for _, p := range pages {
		out = append(out, Entry{
			ID:          "page-" + p.ID,
			Type:        content.KindPage,
			Title:       p.Title,
			Description: p.Description,
			Content:     join(p.Title, p.Description, p.Keywords),
			URL:         p.URL,
		})
	}
	return out
}

// Logger receives failures from sources left out of the index.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// Source produces part of the index.
type Source struct {
	Name string
	Load func() ([]Entry, error)
}

// Build concatenates every source. Sources that fail are logged and left
// out, so a broken data file only removes its own entries.
func Build(logger Logger, sources ...Source) []Entry {
	var index []Entry
	for _, s := range sources {
		entries, err := s.Load()
		if err != nil {
			if logger != nil {
				logger.Errorf("search index: %s: %v", s.Name, err)
			}
			continue
		}
		index = append(index, entries...)
	}
	return index
}

// Lookup finds the entry whose URL matches path, ignoring a trailing slash.
func Lookup(index []Entry, path string) (Entry, bool) {
	want := trimSlash(path)
	for _, e := range index {
		if trimSlash(e.URL) == want {
			return e, true
		}
	}
	return Entry{}, false
}

func trimSlash(p string) string {
	if p == "/" {
		return p
	}
	return strings.TrimSuffix(p, "/")
}
