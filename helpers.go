package pubfolio

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/pubfolio/content"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PathEscape escapes a string for use in a URL path.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

func person(name string) map[string]string {
	return map[string]string{"@type": "Person", "name": name}
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
		"potentialAction": map[string]string{
			"@type":       "SearchAction",
			"target":      BuildURL(cfg.URL, "search") + "?q={search_term_string}",
			"query-input": "required name=search_term_string",
		},
	}
	if cfg.Author != "" {
		data["author"] = person(cfg.Author)
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// itemType maps a review category to the schema.org type it reviews.
func itemType(category content.Label) string {
	switch {
	case category.Has("movie"), category.Has("movies"), category.Has("film"):
		return "Movie"
	case category.Has("book"), category.Has("books"):
		return "Book"
	case category.Has("tv"), category.Has("show"), category.Has("shows"), category.Has("tv show"):
		return "TVSeries"
	}
	return "CreativeWork"
}

// ReviewJsonLD returns a JSON-LD string for a Review schema.
func ReviewJsonLD(r content.Review, cfg SiteConfig) string {
	reviewURL := BuildURL(cfg.URL, append([]string{"posts"}, strings.Split(r.Slug, "/")...)...)
	item := map[string]interface{}{
		"@type": itemType(r.Category),
		"name":  r.Title,
	}
	if r.Poster != "" {
		item["image"] = r.Poster
	}
	if len(r.Genre.Values()) > 0 {
		item["genre"] = r.Genre.Values()
	}
	if len(r.Cast) > 0 {
		actors := make([]map[string]string, 0, len(r.Cast))
		for _, c := range r.Cast {
			actors = append(actors, person(c))
		}
		item["actor"] = actors
	}
	if r.Released.Valid() {
		item["datePublished"] = r.Released.Format("2006-01-02")
	}

	data := map[string]interface{}{
		"@context":     "https://schema.org",
		"@type":        "Review",
		"name":         r.Title,
		"description":  r.Description,
		"url":          reviewURL,
		"itemReviewed": item,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   reviewURL,
		},
	}
	if r.Completed.Valid() {
		data["datePublished"] = r.Completed.Format("2006-01-02")
	}
	if r.Rating > 0 {
		data["reviewRating"] = map[string]interface{}{
			"@type":       "Rating",
			"ratingValue": r.Rating,
			"bestRating":  10,
			"worstRating": 0,
		}
	}
	if cfg.Author != "" {
		data["author"] = person(cfg.Author)
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if len(r.Tags) > 0 {
		data["keywords"] = strings.Join(r.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
