// Package feed merges reviews, trips and the wedding into one "latest" list
// that guarantees every content type shows up at least once.
package feed

import (
	"fmt"
	"sort"
	"time"

	"github.com/eringen/pubfolio/content"
)

// PlaceholderImage is used for reviews without a poster.
const PlaceholderImage = "/placeholder.jpg"

// Entry is one item of the unified feed.
type Entry struct {
	ID       string       `json:"id"`
	Type     content.Kind `json:"type"`
	Title    string       `json:"title"`
	Image    string       `json:"image"`
	Href     string       `json:"href"`
	Date     time.Time    `json:"date"`
	Subtitle string       `json:"subtitle,omitempty"`
	Badge1   string       `json:"badge1,omitempty"`
	Badge2   string       `json:"badge2,omitempty"`
}

type key struct {
	kind content.Kind
	id   string
}

func (e Entry) key() key { return key{e.Type, e.ID} }

// FromReviews projects reviews into feed entries.
func FromReviews(reviews []content.Review) []Entry {
	out := make([]Entry, 0, len(reviews))
	for _, r := range reviews {
		e := Entry{
			ID:       r.Slug,
			Type:     content.KindReview,
			Title:    r.Title,
			Image:    r.Poster,
			Href:     r.Link(),
			Date:     r.Completed.Time,
			Subtitle: r.Category.First(),
			Badge2:   r.Genre.First(),
		}
		if e.Image == "" {
			e.Image = PlaceholderImage
		}
		if r.Rating > 0 {
			e.Badge1 = fmt.Sprintf("⭐ %g/10", r.Rating)
		}
		out = append(out, e)
	}
	return out
}

// FromTrips projects trips into feed entries.
func FromTrips(trips []content.Trip) []Entry {
	out := make([]Entry, 0, len(trips))
	for _, t := range trips {
		out = append(out, Entry{
			ID:       t.ID,
			Type:     content.KindTrip,
			Title:    t.Name,
			Image:    t.Hero.URL,
			Href:     t.Link(),
			Date:     t.Date().Time,
			Subtitle: t.Location,
			Badge1:   t.Stats.Difficulty,
			Badge2:   t.Stats.Distance,
		})
	}
	return out
}

// FromWedding projects the wedding page into a single feed entry.
func FromWedding(w *content.Wedding) []Entry {
	if w == nil {
		return nil
	}
	title := w.Hero.Title
	if title == "" {
		title = w.Hero.Names
	}
	return []Entry{{
		ID:       "wedding",
		Type:     content.KindWedding,
		Title:    title,
		Image:    w.Hero.Image.URL,
		Href:     "/wedding",
		Date:     content.ParseDate(w.Hero.Date).Time,
		Subtitle: w.Hero.Location,
	}}
}

// Logger receives failures from best-effort collection. echo.Logger and
// gommon's *log.Logger both satisfy it.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// Source is one named producer of feed entries.
type Source struct {
	Name string
	Load func() ([]Entry, error)
}

// Collect runs every source and concatenates their entries. A failing source
// is logged and left out.
func Collect(logger Logger, sources ...Source) []Entry {
	var all []Entry
	for _, s := range sources {
		entries, err := s.Load()
		if err != nil {
			if logger != nil {
				logger.Errorf("feed: %s: %v", s.Name, err)
			}
			continue
		}
		all = append(all, entries...)
	}
	return all
}

// Aggregate picks at most maxTotal entries, newest first, with at most
// maxPerType of each type. The newest entry of every type present is always
// included, even if that pushes a type over maxPerType.
func Aggregate(entries []Entry, maxTotal, maxPerType int) []Entry {
	if maxTotal <= 0 || len(entries) == 0 {
		return nil
	}
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sortByDate(sorted)

	out := seed(sorted, maxTotal)
	out = fill(sorted, out, maxTotal, maxPerType)
	sortByDate(out)
	return out
}

// seed returns the newest entry of each type in sorted, keeping only the
// maxTotal newest seeds.
func seed(sorted []Entry, maxTotal int) []Entry {
	var seeds []Entry
	seen := make(map[content.Kind]struct{})
	for _, e := range sorted {
		if _, ok := seen[e.Type]; ok {
			continue
		}
		seen[e.Type] = struct{}{}
		seeds = append(seeds, e)
		if len(seeds) == maxTotal {
			break
		}
	}
	return seeds
}

// fill walks sorted and appends entries not yet selected until maxTotal is
// reached, skipping types that already hold maxPerType entries.
func fill(sorted, selected []Entry, maxTotal, maxPerType int) []Entry {
	out := append([]Entry(nil), selected...)
	used := make(map[key]struct{}, len(out))
	perType := make(map[content.Kind]int)
	for _, e := range out {
		used[e.key()] = struct{}{}
		perType[e.Type]++
	}
	for _, e := range sorted {
		if len(out) >= maxTotal {
			break
		}
		if _, ok := used[e.key()]; ok {
			continue
		}
		if perType[e.Type] >= maxPerType {
			continue
		}
		out = append(out, e)
		used[e.key()] = struct{}{}
		perType[e.Type]++
	}
	return out
}

func sortByDate(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
}
