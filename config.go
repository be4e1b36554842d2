package pubfolio

import "time"

// SiteConfig holds all configuration for a pubfolio site.
type SiteConfig struct {
	Name        string // Site name (default "Folio")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD

	Addr       string // Listen address (default ":3000")
	ContentDir string // Markdown reviews (default "content/reviews")
	PagesDir   string // about.md, projects.md, contact.md (default "content/pages")
	DataDir    string // backpacking.json and wedding.json (default "data")

	AnalyticsEnabled      bool   // Count page views for the popular list
	AnalyticsDatabasePath string // Analytics SQLite path (default "data/analytics.db")

	SessionSecret string // Required: cookie signing secret
	CookieSecure  bool   // Set true for HTTPS

	CacheTTL        time.Duration // Content cache TTL (default 5min)
	Watch           bool          // Reload content when files change
	FeedMaxTotal    int           // Home feed size (default 10)
	FeedMaxPerType  int           // Home feed cap per content type (default 4)
	RelatedCount    int           // Related items on detail pages (default 3)
	SearchRateLimit int           // /api/search requests per minute per IP (default 60)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Folio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content/reviews"
	}
	if c.PagesDir == "" {
		c.PagesDir = "content/pages"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.AnalyticsDatabasePath == "" {
		c.AnalyticsDatabasePath = "data/analytics.db"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.FeedMaxTotal == 0 {
		c.FeedMaxTotal = 10
	}
	if c.FeedMaxPerType == 0 {
		c.FeedMaxPerType = 4
	}
	if c.RelatedCount == 0 {
		c.RelatedCount = 3
	}
	if c.SearchRateLimit == 0 {
		c.SearchRateLimit = 60
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithDefaults returns c with every unset field filled in.
func (c SiteConfig) WithDefaults() SiteConfig {
	c.setDefaults()
	return c
}
