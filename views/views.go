// Package views holds the default page templates. They are plain
// html/template files wrapped as templ components so a site can swap any of
// them for its own templ code.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/pubfolio"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))

type meta struct {
	Meta pubfolio.PageMeta
}

type page struct {
	Site pubfolio.SiteConfig
	Data interface{}
}

func component(cfg pubfolio.SiteConfig, name string, data interface{}) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, page{Site: cfg, Data: data})
	})
}

// Default returns the built-in views for cfg.
func Default(cfg pubfolio.SiteConfig) pubfolio.ViewFuncs {
	return pubfolio.ViewFuncs{
		Home:        func(d pubfolio.HomeData) templ.Component { return component(cfg, "home", d) },
		Reviews:     func(d pubfolio.ReviewsData) templ.Component { return component(cfg, "reviews", d) },
		Review:      func(d pubfolio.ReviewData) templ.Component { return component(cfg, "review", d) },
		Database:    func(d pubfolio.DatabaseData) templ.Component { return component(cfg, "database", d) },
		Backpacking: func(d pubfolio.BackpackingData) templ.Component { return component(cfg, "backpacking", d) },
		Trips:       func(d pubfolio.TripsData) templ.Component { return component(cfg, "trips", d) },
		Trip:        func(d pubfolio.TripData) templ.Component { return component(cfg, "trip", d) },
		Wedding:     func(d pubfolio.WeddingData) templ.Component { return component(cfg, "wedding", d) },
		Search:      func(d pubfolio.SearchData) templ.Component { return component(cfg, "search", d) },
		Page:        func(d pubfolio.PageData) templ.Component { return component(cfg, "page", d) },
		ComingSoon:  func(d pubfolio.ComingSoonData) templ.Component { return component(cfg, "coming-soon", d) },
		NotFound: func() templ.Component {
			return component(cfg, "not-found", meta{pubfolio.PageMeta{Title: "Not found"}})
		},
		ServerError: func() templ.Component {
			return component(cfg, "server-error", meta{pubfolio.PageMeta{Title: "Something went wrong"}})
		},
	}
}
