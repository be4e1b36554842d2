// Package recent keeps the short list of pages a visitor looked at last.
// The list lives in a single key of a client-side key-value slot, so the
// server never stores it; it is bounded in size and expires by age.
package recent

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/eringen/pubfolio/content"
	"github.com/eringen/pubfolio/search"
)

const (
	// StorageKey is the slot holding the serialized list.
	StorageKey = "recentPages"
	// MaxPages caps the list length.
	MaxPages = 5
	// MaxAge is how long a visit stays listed.
	MaxAge = 30 * 24 * time.Hour
)

// Page is one visited page.
type Page struct {
	URL         string       `json:"url"`
	Title       string       `json:"title"`
	Type        content.Kind `json:"type"`
	Description string       `json:"description,omitempty"`
	VisitedAt   int64        `json:"visitedAt"` // unix millis
}

// Visited returns VisitedAt as a time.
func (p Page) Visited() time.Time { return time.UnixMilli(p.VisitedAt) }

// Storage is a string key-value slot.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// MemoryStorage is an in-process Storage.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

// Logger receives storage failures.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// Tracker records and lists visits. A nil or failing Storage turns every
// operation into a no-op; errors are logged and never returned.
type Tracker struct {
	Storage Storage
	Logger  Logger
	Now     func() time.Time
}

// NewTracker returns a Tracker over s.
func NewTracker(s Storage, logger Logger) *Tracker {
	return &Tracker{Storage: s, Logger: logger, Now: time.Now}
}

func (t *Tracker) now() time.Time {
	if t.Now == nil {
		return time.Now()
	}
	return t.Now()
}

func (t *Tracker) logf(format string, args ...interface{}) {
	if t.Logger != nil {
		t.Logger.Errorf(format, args...)
	}
}

// List returns the stored visits younger than MaxAge, newest first. Expired
// entries are not written back.
func (t *Tracker) List() []Page {
	if t == nil || t.Storage == nil {
		return nil
	}
	raw, ok, err := t.Storage.Get(StorageKey)
	if err != nil {
		t.logf("recent pages: read: %v", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var pages []Page
	if err := json.Unmarshal([]byte(raw), &pages); err != nil {
		t.logf("recent pages: decode: %v", err)
		return nil
	}
	cutoff := t.now().Add(-MaxAge).UnixMilli()
	kept := pages[:0]
	for _, p := range pages {
		if p.VisitedAt > cutoff {
			kept = append(kept, p)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].VisitedAt > kept[j].VisitedAt })
	return kept
}

// Record stores a visit to p.URL at the current time, moving an earlier
// visit of the same URL to the front.
func (t *Tracker) Record(p Page) {
	if t == nil || t.Storage == nil || p.URL == "" {
		return
	}
	existing := t.List()
	p.VisitedAt = t.now().UnixMilli()
	pages := make([]Page, 0, MaxPages)
	pages = append(pages, p)
	for _, old := range existing {
		if len(pages) == MaxPages {
			break
		}
		if old.URL != p.URL {
			pages = append(pages, old)
		}
	}
	b, err := json.Marshal(pages)
	if err != nil {
		t.logf("recent pages: encode: %v", err)
		return
	}
	if err := t.Storage.Set(StorageKey, string(b)); err != nil {
		t.logf("recent pages: write: %v", err)
	}
}

// Clear removes the stored list.
func (t *Tracker) Clear() {
	if t == nil || t.Storage == nil {
		return
	}
	if err := t.Storage.Remove(StorageKey); err != nil {
		t.logf("recent pages: clear: %v", err)
	}
}

// PageFor describes the page at path using the search index. Paths missing
// from the index get a title from their last segment. Error pages and empty
// paths report false.
func PageFor(path string, index []search.Entry) (Page, bool) {
	if path == "" || path == "/" || path == "/404" || path == "/_not-found" {
		return Page{}, false
	}
	if e, ok := search.Lookup(index, path); ok {
		return Page{URL: e.URL, Title: e.Title, Type: e.Type, Description: e.Description}, true
	}
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return Page{}, false
	}
	return Page{
		URL:   path,
		Title: content.TitleFromSlug(segments[len(segments)-1]),
		Type:  content.KindPage,
	}, true
}
