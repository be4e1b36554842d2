package pubfolio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/eringen/pubfolio/content"
	"github.com/eringen/pubfolio/feed"
	"github.com/eringen/pubfolio/search"
)

// ErrNotFound is returned when a requested review or trip does not exist.
var ErrNotFound = errors.New("pubfolio: not found")

// Logger receives best-effort loading failures. echo.Logger and the gommon
// logger both satisfy it.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// Snapshot is one consistent load of every content source. A source that
// failed to load keeps its error next to a zero value.
type Snapshot struct {
	Reviews        []content.Review
	ReviewsErr     error
	Backpacking    *content.Backpacking
	BackpackingErr error
	Wedding        *content.Wedding
	WeddingErr     error
	Pages          map[string]content.Page
	PagesErr       error

	Index  []search.Entry
	Engine *search.Engine
	// Feed holds every feed entry, newest first. Callers cap it with
	// feed.Aggregate.
	Feed []feed.Entry
}

// SiteCache is an in-memory cache of the loaded site content with TTL.
type SiteCache struct {
	mu      sync.RWMutex
	snap    *Snapshot
	fetched time.Time
	ttl     time.Duration

	dirs   Dirs
	logger Logger
}

// Dirs are the directories a SiteCache reads from.
type Dirs struct {
	Content string // markdown reviews
	Pages   string // standalone markdown pages (about, projects, contact)
	Data    string // backpacking.json and wedding.json
	Static  string // local images for blur placeholders
}

// NewSiteCache creates a SiteCache over dirs. A ttl <= 0 keeps a load until
// Invalidate is called.
func NewSiteCache(dirs Dirs, ttl time.Duration, logger Logger) *SiteCache {
	return &SiteCache{dirs: dirs, ttl: ttl, logger: logger}
}

func (c *SiteCache) valid() bool {
	return c.snap != nil && (c.ttl <= 0 || time.Since(c.fetched) < c.ttl)
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *SiteCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

func (c *SiteCache) errorf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Errorf(format, args...)
	}
}

func (c *SiteCache) load() *Snapshot {
	s := &Snapshot{}

	s.Reviews, s.ReviewsErr = content.LoadReviews(c.dirs.Content)
	if s.ReviewsErr != nil {
		s.ReviewsErr = fmt.Errorf("load reviews: %w", s.ReviewsErr)
	}
	s.Backpacking, s.BackpackingErr = content.LoadBackpacking(c.dirs.Data)
	if s.BackpackingErr != nil {
		s.BackpackingErr = fmt.Errorf("load backpacking: %w", s.BackpackingErr)
	}
	s.Wedding, s.WeddingErr = content.LoadWedding(c.dirs.Data)
	if s.WeddingErr != nil {
		s.WeddingErr = fmt.Errorf("load wedding: %w", s.WeddingErr)
	}
	s.Pages, s.PagesErr = content.LoadPages(c.dirs.Pages)
	if s.PagesErr != nil {
		s.PagesErr = fmt.Errorf("load pages: %w", s.PagesErr)
	}
	c.addPlaceholders(s)

	s.Feed = feed.Collect(c.logger,
		feed.Source{Name: "reviews", Load: func() ([]feed.Entry, error) {
			return feed.FromReviews(s.Reviews), s.ReviewsErr
		}},
		feed.Source{Name: "backpacking", Load: func() ([]feed.Entry, error) {
			return feed.FromTrips(s.trips()), s.BackpackingErr
		}},
		feed.Source{Name: "wedding", Load: func() ([]feed.Entry, error) {
			return feed.FromWedding(s.Wedding), s.WeddingErr
		}},
	)
	s.Feed = feed.Aggregate(s.Feed, len(s.Feed), len(s.Feed))

	s.Index = search.Build(c.logger,
		search.Source{Name: "reviews", Load: func() ([]search.Entry, error) {
			return search.ReviewEntries(s.Reviews), s.ReviewsErr
		}},
		search.Source{Name: "backpacking", Load: func() ([]search.Entry, error) {
			return search.TripEntries(s.trips()), s.BackpackingErr
		}},
		search.Source{Name: "wedding", Load: func() ([]search.Entry, error) {
			return search.WeddingEntries(s.Wedding), s.WeddingErr
		}},
		search.Source{Name: "pages", Load: func() ([]search.Entry, error) {
			return search.PageEntries(search.DefaultPages), nil
		}},
	)
	s.Engine = search.NewEngine(s.Index)
	return s
}

func (s *Snapshot) trips() []content.Trip {
	if s.Backpacking == nil {
		return nil
	}
	return s.Backpacking.Trips
}

func (c *SiteCache) addPlaceholders(s *Snapshot) {
	fill := func(img *content.Image) {
		if img != nil && img.URL != "" && img.BlurDataURL == "" {
			img.BlurDataURL = BlurPlaceholder(c.dirs.Static, img.URL)
		}
	}
	if b := s.Backpacking; b != nil {
		fill(&b.Hero.Image)
		for i := range b.Trips {
			fill(&b.Trips[i].Hero)
			for j := range b.Trips[i].Photos {
				fill(&b.Trips[i].Photos[j])
			}
		}
	}
	if w := s.Wedding; w != nil {
		fill(&w.Hero.Image)
		fill(w.Hero.MobileImage)
		for i := range w.Story {
			fill(w.Story[i].Image)
		}
		for i := range w.Gallery {
			fill(&w.Gallery[i])
		}
	}
}

// Snapshot returns the current content after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *SiteCache) Snapshot() *Snapshot {
	c.mu.RLock()
	if c.valid() {
		s := c.snap
		c.mu.RUnlock()
		return s
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid() {
		c.snap = c.load()
		c.fetched = time.Now()
	}
	return c.snap
}

// Reviews returns every review, newest first.
func (c *SiteCache) Reviews() ([]content.Review, error) {
	s := c.Snapshot()
	return s.Reviews, s.ReviewsErr
}

// Review returns a single review by slug.
func (c *SiteCache) Review(slug string) (content.Review, error) {
	return c.Snapshot().Review(slug)
}

// Backpacking returns the backpacking document.
func (c *SiteCache) Backpacking() (*content.Backpacking, error) {
	s := c.Snapshot()
	return s.Backpacking, s.BackpackingErr
}

// Trip returns a single trip by id.
func (c *SiteCache) Trip(id string) (content.Trip, error) {
	return c.Snapshot().Trip(id)
}

// Review finds a review by slug within the snapshot.
func (s *Snapshot) Review(slug string) (content.Review, error) {
	if s.ReviewsErr != nil {
		return content.Review{}, s.ReviewsErr
	}
	r, ok := content.FindReview(s.Reviews, slug)
	if !ok {
		return content.Review{}, ErrNotFound
	}
	return r, nil
}

// Trip finds a trip by id within the snapshot.
func (s *Snapshot) Trip(id string) (content.Trip, error) {
	if s.BackpackingErr != nil {
		return content.Trip{}, s.BackpackingErr
	}
	t, ok := content.FindTrip(s.trips(), id)
	if !ok {
		return content.Trip{}, ErrNotFound
	}
	return t, nil
}

// Page finds a standalone page by slug within the snapshot.
func (s *Snapshot) Page(slug string) (content.Page, error) {
	if s.PagesErr != nil {
		return content.Page{}, s.PagesErr
	}
	p, ok := s.Pages[slug]
	if !ok {
		return content.Page{}, ErrNotFound
	}
	return p, nil
}

// Wedding returns the wedding document.
func (c *SiteCache) Wedding() (*content.Wedding, error) {
	s := c.Snapshot()
	return s.Wedding, s.WeddingErr
}

// SearchIndex returns the full search index.
func (c *SiteCache) SearchIndex() []search.Entry {
	return c.Snapshot().Index
}

// Search runs query against the index.
func (c *SiteCache) Search(query string, limit int) []search.Result {
	return c.Snapshot().Engine.Search(query, limit)
}

// Feed returns the home feed capped at maxTotal entries and maxPerType
// entries per content type.
func (c *SiteCache) Feed(maxTotal, maxPerType int) []feed.Entry {
	return feed.Aggregate(c.Snapshot().Feed, maxTotal, maxPerType)
}
