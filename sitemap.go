package pubfolio

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type staticRoute struct {
	segments   []string
	changeFreq string
	priority   float64
}

var staticRoutes = []staticRoute{
	{nil, "weekly", 1},
	{[]string{"about"}, "monthly", 0.8},
	{[]string{"projects"}, "monthly", 0.7},
	{[]string{"contact"}, "yearly", 0.5},
	{[]string{"wedding"}, "monthly", 0.8},
	{[]string{"backpacking"}, "weekly", 0.9},
	{[]string{"backpacking", "trips"}, "weekly", 0.8},
	{[]string{"posts"}, "weekly", 0.9},
	{[]string{"database"}, "weekly", 0.7},
}

func priority(p float64) string {
	return fmt.Sprintf("%.1f", p)
}

// sitemapURLs lists the static routes, every review and every trip. Sources
// that failed to load are left out.
func sitemapURLs(base string, s *Snapshot, now time.Time) []sitemapURL {
	today := now.UTC().Format("2006-01-02")
	var urls []sitemapURL
	for _, r := range staticRoutes {
		urls = append(urls, sitemapURL{
			Loc:        BuildURL(base, r.segments...),
			LastMod:    today,
			ChangeFreq: r.changeFreq,
			Priority:   priority(r.priority),
		})
	}
	for _, r := range s.Reviews {
		u := sitemapURL{
			Loc:        BuildURL(base, append([]string{"posts"}, strings.Split(r.Slug, "/")...)...),
			ChangeFreq: "monthly",
			Priority:   priority(0.7),
		}
		if r.Completed.Valid() {
			u.LastMod = r.Completed.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	for _, t := range s.trips() {
		urls = append(urls, sitemapURL{
			Loc:        BuildURL(base, "backpacking", t.ID),
			LastMod:    today,
			ChangeFreq: "monthly",
			Priority:   priority(0.8),
		})
	}
	return urls
}

// WriteSitemap writes the sitemap XML document for s to w.
func WriteSitemap(w io.Writer, base string, s *Snapshot, now time.Time) error {
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  sitemapURLs(base, s, now),
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(sitemap)
}

func (a *App) renderSitemap(c echo.Context, s *Snapshot) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return WriteSitemap(c.Response(), a.Config.URL, s, time.Now())
}

// RobotsTxt allows everything except the API and private paths and points
// crawlers at the sitemap.
func RobotsTxt(base string) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	for _, p := range []string{"/api/", "/private/", "/static/"} {
		b.WriteString("Disallow: " + p + "\n")
	}
	b.WriteString("\nSitemap: " + strings.TrimRight(base, "/") + "/sitemap.xml\n")
	return b.String()
}
