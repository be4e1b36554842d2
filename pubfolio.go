// Package pubfolio serves a personal media site: reviews written in
// markdown, backpacking trips and a wedding page from JSON data files, a
// mixed home feed, fuzzy search, and a short recently-visited list.
//
// Users provide their own templ components via the ViewFuncs struct, and
// pubfolio handles content loading, handler logic, and middleware.
package pubfolio

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pubfolio/analytics"
)

// ViewFuncs holds the templ components the framework calls when rendering
// pages. Users own and customize all templates.
type ViewFuncs struct {
	Home        func(HomeData) templ.Component
	Reviews     func(ReviewsData) templ.Component
	Review      func(ReviewData) templ.Component
	Database    func(DatabaseData) templ.Component
	Backpacking func(BackpackingData) templ.Component
	Trips       func(TripsData) templ.Component
	Trip        func(TripData) templ.Component
	Wedding     func(WeddingData) templ.Component
	Search      func(SearchData) templ.Component
	Page        func(PageData) templ.Component
	ComingSoon  func(ComingSoonData) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App is the central pubfolio application. It wires together the content
// cache, handlers, middleware, and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Cache  *SiteCache
	Views  ViewFuncs

	searchLimiter  *RateLimiter
	visitLimiter   *RateLimiter
	analyticsStore *analytics.Store
	customRoutes   []func(*App)
	staticDir      string
	stop           []func()
}

// New creates a new pubfolio App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init loads the optional analytics store, builds the cache, and registers
// middleware and routes. Start calls it; tests and the build command call
// it directly.
func (a *App) Init() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("pubfolio: SessionSecret is required")
	}

	a.Cache = NewSiteCache(Dirs{
		Content: a.Config.ContentDir,
		Pages:   a.Config.PagesDir,
		Data:    a.Config.DataDir,
		Static:  a.staticDir,
	}, a.Config.CacheTTL, a.Echo.Logger)
	a.searchLimiter = NewRateLimiter(a.Config.SearchRateLimit, time.Minute)
	a.stop = append(a.stop, a.searchLimiter.Stop)

	if a.Config.AnalyticsEnabled {
		store, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("pubfolio: init analytics: %w", err)
		}
		a.analyticsStore = store
		if err := analytics.InitSalt(context.Background(), store); err != nil {
			return fmt.Errorf("pubfolio: init analytics salt: %w", err)
		}
		a.visitLimiter = NewRateLimiter(60, time.Minute)
		a.stop = append(a.stop, a.visitLimiter.Stop, store.StartCleanupScheduler(365, 24*time.Hour))
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and runs the server until ctx is done.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(); err != nil {
		return err
	}

	if a.Config.Watch {
		go func() {
			if err := a.Cache.Watch(ctx); err != nil {
				a.Echo.Logger.Errorf("watch: %v", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Echo.Shutdown(shutdownCtx); err != nil {
			a.Echo.Logger.Errorf("shutdown: %v", err)
		}
	}()

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded client script, then the user's static assets.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/folio.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.Static("/public", a.staticDir)

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/posts/", a.handleReviews)
	e.GET("/posts/*", a.handleReview)
	e.GET("/reviews/", handleReviewsRedirect)
	e.GET("/database/", a.handleDatabase)
	e.GET("/backpacking/", a.handleBackpacking)
	e.GET("/backpacking/trips/", a.handleTrips)
	e.GET("/backpacking/:slug/", a.handleTrip)
	e.GET("/wedding/", a.handleWedding)
	e.GET("/search/", a.handleSearch)
	for _, slug := range SitePages {
		e.GET("/"+slug+"/", a.handlePage(slug))
	}

	e.GET("/api/search", a.handleSearchAPI)
	e.GET("/api/search-index", a.handleSearchIndex)
	e.GET("/api/recent", a.handleRecentAPI)
	e.POST("/recent/clear/", a.handleRecentClear)
	if a.analyticsStore != nil {
		e.GET("/api/popular", a.handlePopularAPI)
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	for _, stop := range a.stop {
		stop()
	}
	a.stop = nil
	if a.analyticsStore != nil {
		return a.analyticsStore.Close()
	}
	return nil
}
