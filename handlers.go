package pubfolio

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubfolio/analytics"
	"github.com/eringen/pubfolio/content"
	"github.com/eringen/pubfolio/related"
	"github.com/eringen/pubfolio/table"
)

const (
	// reviewsOnLanding is the hero plus the recent reviews on /posts/. The
	// database page lists everything after them.
	reviewsOnLanding = 6
	popularCount     = 5
	popularWindow    = 30 * 24 * time.Hour
	searchPageLimit  = 50
	searchAPILimit   = 20
)

func (a *App) meta(c echo.Context, title, description, ogType string, segments ...string) PageMeta {
	if description == "" {
		description = a.Config.Description
	}
	if ogType == "" {
		ogType = "website"
	}
	return PageMeta{
		Title:       title,
		Description: description,
		URL:         BuildURL(a.Config.URL, segments...),
		OGType:      ogType,
		CSRFToken:   CsrfToken(c),
	}
}

// comingSoon renders the placeholder for a section whose source failed to load.
func (a *App) comingSoon(c echo.Context, section string, err error) error {
	c.Logger().Errorf("%s: %v", strings.ToLower(section), err)
	return Render(c, a.Views.ComingSoon(ComingSoonData{
		Meta:    a.meta(c, section, "", ""),
		Section: section,
	}))
}

func (a *App) notFound(c echo.Context) error {
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
}

func (a *App) handleHome(c echo.Context) error {
	meta := a.meta(c, a.Config.Name, "", "")
	meta.JSONLD = WebsiteJsonLD(a.Config)
	return Render(c, a.Views.Home(HomeData{
		Meta:    meta,
		Feed:    a.Cache.Feed(a.Config.FeedMaxTotal, a.Config.FeedMaxPerType),
		Recent:  a.recentTracker(c).List(),
		Popular: a.popular(c),
	}))
}

// popularRange is the half-open window ending after the current second, so
// visits stored (in whole seconds) during this second are counted.
func popularRange(now time.Time) (from, to time.Time) {
	to = now.Truncate(time.Second).Add(time.Second)
	return to.Add(-popularWindow), to
}

func (a *App) popular(c echo.Context) []analytics.PageStat {
	if a.analyticsStore == nil {
		return nil
	}
	from, to := popularRange(time.Now())
	pages, err := a.analyticsStore.TopPages(c.Request().Context(), from, to, popularCount)
	if err != nil {
		c.Logger().Errorf("popular pages: %v", err)
		return nil
	}
	return pages
}

func (a *App) handleReviews(c echo.Context) error {
	reviews, err := a.Cache.Reviews()
	if err != nil {
		return a.comingSoon(c, "Reviews", err)
	}
	data := ReviewsData{
		Meta:       a.meta(c, "Reviews", "Book, movie, and TV reviews", "", "posts"),
		All:        reviews,
		Unfinished: content.Unfinished(reviews),
		Category:   c.QueryParam("category"),
		Genre:      c.QueryParam("genre"),
	}
	list := reviews
	if data.Category != "" {
		list = content.ByCategory(list, data.Category)
	}
	if data.Genre != "" {
		list = content.ByGenre(list, data.Genre)
	}
	if len(list) > 0 {
		hero := list[0]
		data.Hero = &hero
		end := len(list)
		if end > reviewsOnLanding {
			end = reviewsOnLanding
		}
		data.Recent = list[1:end]
	}
	a.trackVisit(c)
	return Render(c, a.Views.Reviews(data))
}

func (a *App) handleReview(c echo.Context) error {
	slug := strings.Trim(c.Param("*"), "/")
	if slug == "" {
		return a.handleReviews(c)
	}
	snap := a.Cache.Snapshot()
	review, err := snap.Review(slug)
	if errors.Is(err, ErrNotFound) {
		return a.notFound(c)
	}
	if err != nil {
		return a.comingSoon(c, "Reviews", err)
	}

	meta := a.meta(c, review.Title, review.Description, "article", "posts", review.Slug)
	meta.Image = review.OGImage
	if meta.Image == "" {
		meta.Image = review.Poster
	}
	meta.JSONLD = ReviewJsonLD(review, a.Config)

	a.trackVisit(c)
	return Render(c, a.Views.Review(ReviewData{
		Meta:    meta,
		Review:  review,
		Related: related.Reviews(review, snap.Reviews, a.Config.RelatedCount),
	}))
}

func handleReviewsRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/posts/")
}

// ReviewColumns are the sortable columns of the review database.
var ReviewColumns = []table.Column[content.Review]{
	{Key: "title", Less: func(a, b content.Review) bool {
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	}},
	{Key: "category", Less: func(a, b content.Review) bool {
		return strings.ToLower(a.Category.Display()) < strings.ToLower(b.Category.Display())
	}},
	{Key: "genre", Less: func(a, b content.Review) bool {
		return strings.ToLower(a.Genre.Display()) < strings.ToLower(b.Genre.Display())
	}},
	{Key: "rating", Less: func(a, b content.Review) bool { return a.Rating < b.Rating }},
	{Key: "released", Less: func(a, b content.Review) bool { return a.Released.Before(b.Released.Time) }},
	{Key: "completed", Less: func(a, b content.Review) bool { return a.Completed.Before(b.Completed.Time) }},
}

func reviewTags(r content.Review) []string { return r.Tags }

func (a *App) handleDatabase(c echo.Context) error {
	reviews, err := a.Cache.Reviews()
	if err != nil {
		return a.comingSoon(c, "Database", err)
	}
	var archived []content.Review
	if len(reviews) > reviewsOnLanding {
		archived = reviews[reviewsOnLanding:]
	}
	view := table.New(archived, reviewTags, ReviewColumns...)
	view.ParseQuery(c.QueryParams())

	a.trackVisit(c)
	return Render(c, a.Views.Database(DatabaseData{
		Meta:  a.meta(c, "All Posts", "Archived reviews", "", "database"),
		Table: view,
	}))
}

func (a *App) handleBackpacking(c echo.Context) error {
	data, err := a.Cache.Backpacking()
	if err != nil {
		return a.comingSoon(c, "Backpacking", err)
	}
	var featured []content.Trip
	for _, t := range data.Trips {
		if t.Featured {
			featured = append(featured, t)
		}
	}
	meta := a.meta(c, "Backpacking Adventures", data.Hero.Subtitle, "", "backpacking")
	meta.Image = data.Hero.Image.URL

	a.trackVisit(c)
	return Render(c, a.Views.Backpacking(BackpackingData{Meta: meta, Data: data, Featured: featured}))
}

func (a *App) handleTrips(c echo.Context) error {
	data, err := a.Cache.Backpacking()
	if err != nil {
		return a.comingSoon(c, "Backpacking", err)
	}
	a.trackVisit(c)
	return Render(c, a.Views.Trips(TripsData{
		Meta:  a.meta(c, "All Trips", "Every backpacking trip", "", "backpacking", "trips"),
		Trips: data.Trips,
	}))
}

func (a *App) handleTrip(c echo.Context) error {
	snap := a.Cache.Snapshot()
	trip, err := snap.Trip(c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		return a.notFound(c)
	}
	if err != nil {
		return a.comingSoon(c, "Backpacking", err)
	}
	meta := a.meta(c, trip.Name, trip.Location, "article", "backpacking", trip.ID)
	meta.Image = trip.Hero.URL

	a.trackVisit(c)
	return Render(c, a.Views.Trip(TripData{
		Meta:    meta,
		Trip:    trip,
		Related: related.Trips(trip, snap.trips(), a.Config.RelatedCount),
	}))
}

func (a *App) handleWedding(c echo.Context) error {
	w, err := a.Cache.Wedding()
	if err != nil {
		return a.comingSoon(c, "Wedding", err)
	}
	title := w.Hero.Title
	if title == "" {
		title = w.Hero.Names
	}
	meta := a.meta(c, title, w.Hero.Location, "", "wedding")
	meta.Image = w.Hero.Image.URL

	a.trackVisit(c)
	return Render(c, a.Views.Wedding(WeddingData{Meta: meta, Wedding: w}))
}

// SitePages are the standalone pages served from PagesDir.
var SitePages = []string{"about", "projects", "contact"}

func (a *App) handlePage(slug string) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := a.Cache.Snapshot().Page(slug)
		if err != nil {
			return a.comingSoon(c, content.TitleFromSlug(slug), err)
		}
		a.trackVisit(c)
		return Render(c, a.Views.Page(PageData{
			Meta: a.meta(c, p.Title, p.Description, "", slug),
			Page: p,
		}))
	}
}

func (a *App) handleSearch(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	return Render(c, a.Views.Search(SearchData{
		Meta:    a.meta(c, "Search", "", "", "search"),
		Query:   q,
		Results: a.Cache.Search(q, searchPageLimit),
	}))
}

func (a *App) handleSearchAPI(c echo.Context) error {
	if !a.searchLimiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
	}
	limit := searchAPILimit
	if n, err := strconv.Atoi(c.QueryParam("limit")); err == nil && n > 0 && n < limit {
		limit = n
	}
	q := strings.TrimSpace(c.QueryParam("q"))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"query":   q,
		"results": a.Cache.Search(q, limit),
	})
}

func (a *App) handleSearchIndex(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Cache.SearchIndex())
}

// popularResponse is the body of /api/popular: the most viewed pages and
// the visit totals over the same window.
type popularResponse struct {
	Pages  []analytics.PageStat `json:"pages"`
	Visits int                  `json:"visits"`
	Bots   int                  `json:"bots"`
}

func (a *App) handlePopularAPI(c echo.Context) error {
	resp := popularResponse{Pages: a.popular(c)}
	if resp.Pages == nil {
		resp.Pages = []analytics.PageStat{}
	}
	ctx := c.Request().Context()
	from, to := popularRange(time.Now())
	var err error
	if resp.Visits, err = a.analyticsStore.CountVisits(ctx, from, to); err != nil {
		c.Logger().Errorf("count visits: %v", err)
	}
	if resp.Bots, err = a.analyticsStore.CountBotVisits(ctx, from, to); err != nil {
		c.Logger().Errorf("count bot visits: %v", err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *App) handleSitemap(c echo.Context) error {
	s := a.Cache.Snapshot()
	return a.renderSitemap(c, s)
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Cache.Feed(a.Config.FeedMaxTotal, a.Config.FeedMaxPerType))
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, RobotsTxt(a.Config.URL))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
