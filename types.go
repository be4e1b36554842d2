package pubfolio

import (
	"github.com/eringen/pubfolio/analytics"
	"github.com/eringen/pubfolio/content"
	"github.com/eringen/pubfolio/feed"
	"github.com/eringen/pubfolio/recent"
	"github.com/eringen/pubfolio/search"
	"github.com/eringen/pubfolio/table"
)

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
	JSONLD      string
	CSRFToken   string
}

// HomeData is the landing page: the mixed feed plus per-visitor lists.
type HomeData struct {
	Meta    PageMeta
	Feed    []feed.Entry
	Recent  []recent.Page
	Popular []analytics.PageStat
}

// ReviewsData is the review listing.
type ReviewsData struct {
	Meta       PageMeta
	Hero       *content.Review
	Recent     []content.Review
	All        []content.Review
	Unfinished []content.Review
	Category   string
	Genre      string
}

// ReviewData is a single review with its related reviews.
type ReviewData struct {
	Meta    PageMeta
	Review  content.Review
	Related []content.Review
}

// DatabaseData is the sortable, filterable review table.
type DatabaseData struct {
	Meta  PageMeta
	Table *table.View[content.Review]
}

// BackpackingData is the backpacking landing page.
type BackpackingData struct {
	Meta     PageMeta
	Data     *content.Backpacking
	Featured []content.Trip
}

// TripsData lists every trip.
type TripsData struct {
	Meta  PageMeta
	Trips []content.Trip
}

// TripData is a single trip with its related trips.
type TripData struct {
	Meta    PageMeta
	Trip    content.Trip
	Related []content.Trip
}

// WeddingData is the wedding page.
type WeddingData struct {
	Meta    PageMeta
	Wedding *content.Wedding
}

// SearchData is the search results page.
type SearchData struct {
	Meta    PageMeta
	Query   string
	Results []search.Result
}

// PageData is a standalone markdown page.
type PageData struct {
	Meta PageMeta
	Page content.Page
}

// ComingSoonData is shown for a section whose source is not available yet.
type ComingSoonData struct {
	Meta    PageMeta
	Section string
}
