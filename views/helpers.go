package views

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/eringen/pubfolio/content"
	"github.com/eringen/pubfolio/markdown"
)

// funcs are the helpers available to every template.
var funcs = template.FuncMap{
	"markdown":   renderMarkdown,
	"safeURL":    safeURL,
	"tagClass":   TagClass,
	"pathEscape": url.PathEscape,
	"join":       strings.Join,
	"jsonLD":     jsonLD,
	"date":       formatDate,
	"rating":     formatRating,
	"query":      encodeQuery,
	"kindLabel":  kindLabel,
	"blurStyle":  blurStyle,
	"gear":       gear,
	"add1":       func(n int) int { return n + 1 },
	"sub1":       func(n int) int { return n - 1 },
}

type gearList struct {
	Title string
	Items []content.GearItem
}

func gear(title string, items []content.GearItem) gearList {
	return gearList{Title: title, Items: items}
}

func renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.RenderMarkdown(&buf, src); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// safeURL passes a vetted URL through; anything markdown.SafeURL rejects
// becomes "#".
func safeURL(raw string) template.URL {
	u := markdown.SafeURL(raw)
	if u == "" {
		return "#"
	}
	return template.URL(u)
}

// jsonLD marks a marshalled JSON-LD document as safe script content.
func jsonLD(s string) template.JS {
	return template.JS(s)
}

// blurStyle paints a blur placeholder behind an image while it loads.
func blurStyle(dataURL string) template.CSS {
	if dataURL == "" {
		return ""
	}
	u := strings.NewReplacer(`'`, "%27", `\`, "%5C", "\n", "").Replace(dataURL)
	return template.CSS("background-size:cover;background-image:url('" + u + "')")
}

func formatDate(v interface{}) string {
	switch d := v.(type) {
	case content.Date:
		return d.Format("January 2, 2006")
	case time.Time:
		if d.IsZero() {
			return ""
		}
		return d.Format("January 2, 2006")
	}
	return ""
}

func formatRating(r float64) string {
	if r <= 0 {
		return ""
	}
	return fmt.Sprintf("%g/10", r)
}

func encodeQuery(v url.Values) string {
	if len(v) == 0 {
		return "?"
	}
	return "?" + v.Encode()
}

func kindLabel(k content.Kind) string {
	switch k {
	case content.KindReview:
		return "Review"
	case content.KindTrip:
		return "Trip"
	case content.KindWedding:
		return "Wedding"
	}
	return "Page"
}

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	base := "tag"
	if active {
		base += " tag-active"
	}
	return base
}
