package pubfolio

import (
	"encoding/xml"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubfolio/feed"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// WriteRSS writes an RSS 2.0 document of entries to w.
func WriteRSS(w io.Writer, cfg SiteConfig, entries []feed.Entry) error {
	items := make([]rssItem, 0, len(entries))
	for _, e := range entries {
		link := BuildURL(cfg.URL, strings.Split(strings.Trim(e.Href, "/"), "/")...)
		item := rssItem{
			Title:       e.Title,
			Link:        link,
			Description: e.Subtitle,
			Category:    string(e.Type),
			GUID:        link,
		}
		if !e.Date.IsZero() {
			item.PubDate = e.Date.UTC().Format(time.RFC1123Z)
		}
		items = append(items, item)
	}
	doc := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Name,
			Link:        cfg.URL,
			Description: cfg.Description,
			Items:       items,
		},
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(doc)
}

func (a *App) renderRSS(c echo.Context, entries []feed.Entry) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return WriteRSS(c.Response(), a.Config, entries)
}
