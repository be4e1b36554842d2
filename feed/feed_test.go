package feed

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubfolio/content"
)

var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func entry(kind content.Kind, id string, daysAgo int) Entry {
	return Entry{ID: id, Type: kind, Date: base.AddDate(0, 0, -daysAgo)}
}

func ids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func countByType(entries []Entry) map[content.Kind]int {
	out := make(map[content.Kind]int)
	for _, e := range entries {
		out[e.Type]++
	}
	return out
}

func sample() []Entry {
	var entries []Entry
	for i := 0; i < 8; i++ {
		entries = append(entries, entry(content.KindReview, fmt.Sprintf("r%d", i), i))
	}
	entries = append(entries,
		entry(content.KindTrip, "t0", 20),
		entry(content.KindTrip, "t1", 30),
		entry(content.KindWedding, "wedding", 400),
	)
	return entries
}

func TestSeedTakesNewestPerType(t *testing.T) {
	sorted := sample()
	sortByDate(sorted)
	assert.Equal(t, []string{"r0", "t0", "wedding"}, ids(seed(sorted, 10)))
}

func TestSeedRespectsMaxTotal(t *testing.T) {
	sorted := sample()
	sortByDate(sorted)
	assert.Equal(t, []string{"r0", "t0"}, ids(seed(sorted, 2)))
}

func TestFillSkipsSelectedAndCappedTypes(t *testing.T) {
	sorted := sample()
	sortByDate(sorted)
	selected := []Entry{sorted[0]}
	got := fill(sorted, selected, 6, 3)
	assert.Equal(t, []string{"r0", "r1", "r2", "t0", "t1", "wedding"}, ids(got))
	assert.Len(t, selected, 1, "fill must not modify its input")
}

func TestAggregateGuaranteesEveryType(t *testing.T) {
	got := Aggregate(sample(), 5, 4)
	require.Len(t, got, 5)
	counts := countByType(got)
	assert.Equal(t, 3, counts[content.KindReview])
	assert.Equal(t, 1, counts[content.KindTrip])
	assert.Equal(t, 1, counts[content.KindWedding])
	assert.Equal(t, "wedding", got[len(got)-1].ID, "result is re-sorted by date")
}

func TestAggregatePerTypeCap(t *testing.T) {
	got := Aggregate(sample(), 10, 4)
	counts := countByType(got)
	assert.Equal(t, 4, counts[content.KindReview])
	assert.Equal(t, 2, counts[content.KindTrip])
	assert.Len(t, got, 7)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Date.After(got[i-1].Date), "not sorted at %d", i)
	}
}

func TestAggregateSeedOverridesZeroCap(t *testing.T) {
	got := Aggregate(sample(), 10, 0)
	assert.Equal(t, []string{"r0", "t0", "wedding"}, ids(got))
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, Aggregate(nil, 10, 4))
	assert.Empty(t, Aggregate(sample(), 0, 4))
}

func TestAggregateKeysByTypeAndID(t *testing.T) {
	entries := []Entry{
		entry(content.KindReview, "same", 1),
		entry(content.KindTrip, "same", 2),
	}
	assert.Len(t, Aggregate(entries, 5, 5), 2)
}

func TestFromReviews(t *testing.T) {
	reviews := []content.Review{{
		Slug:      "movies/dune",
		Title:     "Dune",
		Category:  content.Single("Movie"),
		Genre:     content.Multiple("Sci Fi", "Drama"),
		Rating:    8.5,
		Completed: content.ParseDate("2024-05-01"),
	}}
	got := FromReviews(reviews)
	require.Len(t, got, 1)
	e := got[0]
	assert.Equal(t, "/posts/movies/dune", e.Href)
	assert.Equal(t, PlaceholderImage, e.Image)
	assert.Equal(t, "⭐ 8.5/10", e.Badge1)
	assert.Equal(t, "Sci Fi", e.Badge2)
	assert.Equal(t, "Movie", e.Subtitle)
	assert.Equal(t, 2024, e.Date.Year())
}

func TestFromReviewsUsesFirstCategory(t *testing.T) {
	got := FromReviews([]content.Review{{
		Slug:     "books/dune",
		Category: content.Multiple("Book", "Audiobook"),
	}})
	require.Len(t, got, 1)
	assert.Equal(t, "Book", got[0].Subtitle)
}

func TestFromTripsAndWedding(t *testing.T) {
	trips := FromTrips([]content.Trip{{
		ID: "zion", Name: "Zion", Location: "Utah", Dates: "July 5-6, 2025",
		Stats: content.TripStats{Difficulty: "Hard", Distance: "16 mi"},
	}})
	require.Len(t, trips, 1)
	assert.Equal(t, "/backpacking/zion", trips[0].Href)
	assert.Equal(t, time.July, trips[0].Date.Month())
	assert.Equal(t, "Hard", trips[0].Badge1)

	var w content.Wedding
	w.Hero.Title = "Our Wedding"
	w.Hero.Date = "October 31, 2025"
	w.Hero.Location = "Salem, MA"
	wedding := FromWedding(&w)
	require.Len(t, wedding, 1)
	assert.Equal(t, "wedding", wedding[0].ID)
	assert.Equal(t, "/wedding", wedding[0].Href)
	assert.Equal(t, "Salem, MA", wedding[0].Subtitle)
	assert.Nil(t, FromWedding(nil))
}

type recordingLogger struct{ lines []string }

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestCollectSkipsFailingSources(t *testing.T) {
	logger := &recordingLogger{}
	got := Collect(logger,
		Source{Name: "reviews", Load: func() ([]Entry, error) {
			return []Entry{entry(content.KindReview, "r", 0)}, nil
		}},
		Source{Name: "trips", Load: func() ([]Entry, error) {
			return nil, errors.New("boom")
		}},
	)
	assert.Equal(t, []string{"r"}, ids(got))
	require.Len(t, logger.lines, 1)
	assert.Contains(t, logger.lines[0], "trips")
}
