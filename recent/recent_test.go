package recent

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubfolio/content"
	"github.com/eringen/pubfolio/search"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker() (*Tracker, *clock, *MemoryStorage) {
	c := &clock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s := NewMemoryStorage()
	tr := NewTracker(s, nil)
	tr.Now = c.now
	return tr, c, s
}

func urls(pages []Page) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.URL)
	}
	return out
}

func TestRecordMovesDuplicateToFront(t *testing.T) {
	tr, c, _ := newTestTracker()
	tr.Record(Page{URL: "/a", Title: "A"})
	c.advance(time.Minute)
	tr.Record(Page{URL: "/b", Title: "B"})
	c.advance(time.Minute)
	tr.Record(Page{URL: "/a", Title: "A again"})

	got := tr.List()
	assert.Equal(t, []string{"/a", "/b"}, urls(got))
	assert.Equal(t, "A again", got[0].Title)
	assert.Equal(t, c.t.UnixMilli(), got[0].VisitedAt)
}

func TestRecordCapsAtMaxPages(t *testing.T) {
	tr, c, _ := newTestTracker()
	for i := 1; i <= 6; i++ {
		tr.Record(Page{URL: fmt.Sprintf("/p%d", i)})
		c.advance(time.Second)
	}
	assert.Equal(t, []string{"/p6", "/p5", "/p4", "/p3", "/p2"}, urls(tr.List()))
}

func TestListDropsExpiredWithoutPersisting(t *testing.T) {
	tr, c, s := newTestTracker()
	tr.Record(Page{URL: "/old"})
	c.advance(MaxAge - time.Hour)
	tr.Record(Page{URL: "/new"})
	c.advance(2 * time.Hour)

	assert.Equal(t, []string{"/new"}, urls(tr.List()))

	raw, ok, err := s.Get(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, "/old", "List must not rewrite storage")

	tr.Record(Page{URL: "/next"})
	raw, _, _ = s.Get(StorageKey)
	assert.NotContains(t, raw, "/old")
}

func TestListSortsByVisitTime(t *testing.T) {
	tr, _, s := newTestTracker()
	require.NoError(t, s.Set(StorageKey, `[
		{"url":"/older","title":"o","type":"page","visitedAt":1748779000000},
		{"url":"/newer","title":"n","type":"page","visitedAt":1748779100000}
	]`))
	assert.Equal(t, []string{"/newer", "/older"}, urls(tr.List()))
}

func TestClear(t *testing.T) {
	tr, _, s := newTestTracker()
	tr.Record(Page{URL: "/a"})
	tr.Clear()
	assert.Empty(t, tr.List())
	_, ok, _ := s.Get(StorageKey)
	assert.False(t, ok)
}

type brokenStorage struct{}

func (brokenStorage) Get(string) (string, bool, error) { return "", false, errors.New("disabled") }
func (brokenStorage) Set(string, string) error         { return errors.New("disabled") }
func (brokenStorage) Remove(string) error              { return errors.New("disabled") }

type countingLogger struct{ n int }

func (l *countingLogger) Errorf(string, ...interface{}) { l.n++ }

func TestUnavailableStorageIsNoop(t *testing.T) {
	logger := &countingLogger{}
	tr := NewTracker(brokenStorage{}, logger)
	assert.NotPanics(t, func() {
		tr.Record(Page{URL: "/a"})
		tr.Clear()
	})
	assert.Empty(t, tr.List())
	assert.Greater(t, logger.n, 0)

	var nilTracker *Tracker
	assert.Empty(t, nilTracker.List())
	assert.Empty(t, NewTracker(nil, nil).List())
}

func TestCorruptPayloadIsIgnored(t *testing.T) {
	tr, _, s := newTestTracker()
	require.NoError(t, s.Set(StorageKey, "{not json"))
	assert.Empty(t, tr.List())
	tr.Record(Page{URL: "/a"})
	assert.Equal(t, []string{"/a"}, urls(tr.List()))
}

func TestPageFor(t *testing.T) {
	index := []search.Entry{{
		ID: "trip-zion", Type: content.KindTrip, Title: "Zion", Description: "Utah", URL: "/backpacking/zion",
	}}

	p, ok := PageFor("/backpacking/zion/", index)
	require.True(t, ok)
	assert.Equal(t, Page{URL: "/backpacking/zion", Title: "Zion", Type: content.KindTrip, Description: "Utah"}, p)

	p, ok = PageFor("/projects/side-quest/", index)
	require.True(t, ok)
	assert.Equal(t, "Side Quest", p.Title)
	assert.Equal(t, content.KindPage, p.Type)

	for _, skip := range []string{"", "/", "/404"} {
		_, ok := PageFor(skip, index)
		assert.False(t, ok, skip)
	}
}
