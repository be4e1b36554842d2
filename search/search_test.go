package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubfolio/content"
)

func sampleIndex() []Entry {
	reviews := []content.Review{
		{
			Slug:        "movies/the-dark-knight",
			Title:       "The Dark Knight",
			Category:    content.Single("Movie"),
			Genre:       content.Multiple("Action", "Crime"),
			Tags:        []string{"Superhero"},
			Description: "Why so serious",
			Completed:   content.ParseDate("2024-03-02"),
		},
		{
			Slug:     "books/dune",
			Title:    "Dune",
			Category: content.Single("Book"),
			Content:  "Spice must flow on Arrakis.",
		},
	}
	trips := []content.Trip{{
		ID:       "zion",
		Name:     "Zion Traverse",
		Location: "Zion, Utah",
		Dates:    "July 5-6, 2025",
		Stats:    content.TripStats{Distance: "48 mi", Difficulty: "Hard"},
		Itinerary: []content.DayItinerary{
			{Title: "Lee Pass", Description: "Red rock", Highlights: []string{"Kolob Arch"}},
		},
		Tips: []string{"Carry water"},
	}}
	var w content.Wedding
	w.Hero.Title = "Our Wedding"
	w.Hero.Date = "October 31, 2025"
	w.Hero.Location = "Salem, MA"
	w.Story = []content.WeddingStorySection{{Title: "How we met", Content: "At a library"}}

	var index []Entry
	index = append(index, ReviewEntries(reviews)...)
	index = append(index, TripEntries(trips)...)
	index = append(index, WeddingEntries(&w)...)
	index = append(index, PageEntries(DefaultPages)...)
	return index
}

func TestEntryShapes(t *testing.T) {
	index := sampleIndex()
	require.Len(t, index, 4+len(DefaultPages))

	r := index[0]
	assert.Equal(t, "review-movies/the-dark-knight", r.ID)
	assert.Equal(t, "/posts/movies/the-dark-knight", r.URL)
	assert.Equal(t, "The Dark Knight Why so serious Movie Action Crime Superhero", r.Content)
	require.NotNil(t, r.Metadata)
	assert.Equal(t, "Movie", r.Metadata.Category)
	assert.Equal(t, "2024-03-02", r.Metadata.Date)
	require.NotNil(t, r.Metadata.Genre)
	assert.Nil(t, index[1].Metadata.Genre)

	trip := index[2]
	assert.Equal(t, "trip-zion", trip.ID)
	assert.Equal(t, "Zion, Utah • 48 mi • Hard", trip.Description)
	assert.Contains(t, trip.Content, "Kolob Arch")
	assert.Contains(t, trip.Content, "Carry water")

	wedding := index[3]
	assert.Equal(t, "wedding", wedding.ID)
	assert.Equal(t, "/wedding", wedding.URL)
	assert.Equal(t, "October 31, 2025 • Salem, MA", wedding.Description)
	assert.Contains(t, wedding.Content, "At a library")

	page := index[4]
	assert.Equal(t, "page-about", page.ID)
	assert.Equal(t, content.KindPage, page.Type)
	assert.Nil(t, page.Metadata)
}

func TestEntryJSON(t *testing.T) {
	b, err := json.Marshal(sampleIndex()[0])
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &raw))
	md := raw["metadata"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Action", "Crime"}, md["genre"])
	assert.Equal(t, "review", raw["type"])
}

type recordingLogger struct{ lines []string }

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestBuildIsBestEffort(t *testing.T) {
	logger := &recordingLogger{}
	index := Build(logger,
		Source{Name: "reviews", Load: func() ([]Entry, error) { return nil, errors.New("no content dir") }},
		Source{Name: "pages", Load: func() ([]Entry, error) { return PageEntries(DefaultPages), nil }},
	)
	assert.Len(t, index, len(DefaultPages))
	require.Len(t, logger.lines, 1)
	assert.Contains(t, logger.lines[0], "reviews")
}

func TestLookup(t *testing.T) {
	index := sampleIndex()
	e, ok := Lookup(index, "/backpacking/zion/")
	require.True(t, ok)
	assert.Equal(t, "trip-zion", e.ID)

	_, ok = Lookup(index, "/nowhere")
	assert.False(t, ok)
}

func TestSearchRanksTitleHits(t *testing.T) {
	engine := NewEngine(sampleIndex())
	results := engine.Search("dark knight", 5)
	require.NotEmpty(t, results)
	assert.Equal(t, "review-movies/the-dark-knight", results[0].Entry.ID)
	assert.Contains(t, results[0].Matches, "title")
}

func TestSearchMatchesLocation(t *testing.T) {
	engine := NewEngine(sampleIndex())
	results := engine.Search("salem", 0)
	require.NotEmpty(t, results)
	assert.Equal(t, "wedding", results[0].Entry.ID)
}

func TestSearchMatchesContent(t *testing.T) {
	engine := NewEngine(sampleIndex())
	results := engine.Search("arrakis", 0)
	require.Len(t, results, 1)
	assert.Equal(t, "review-books/dune", results[0].Entry.ID)
}

func TestSearchShortQuery(t *testing.T) {
	engine := NewEngine(sampleIndex())
	assert.Empty(t, engine.Search("d", 10))
	assert.Empty(t, engine.Search("  ", 10))
}

func TestSearchLimit(t *testing.T) {
	engine := NewEngine(sampleIndex())
	all := engine.Search("re", 0)
	require.Greater(t, len(all), 2)
	assert.Len(t, engine.Search("re", 2), 2)
}

func TestSearchRejectsScatteredMatches(t *testing.T) {
	engine := NewEngine([]Entry{{ID: "x", Title: "zebra xylophone quartz"}})
	assert.Empty(t, engine.Search("zxq", 0))
}
