// Package related picks "you might also like" items for a detail page by
// counting shared tags, with optional per-type bonus signals.
package related

import (
	"sort"
	"strings"

	"github.com/eringen/pubfolio/content"
)

// Options tells Rank how to read an item.
type Options[T any] struct {
	ID   func(T) string
	Tags func(T) []string
	// TagWeight multiplies the shared-tag count. Zero means 1.
	TagWeight int
	// Bonus adds points for secondary attributes. Optional.
	Bonus func(current, candidate T) int
}

// Score returns how many tags a and b share, ignoring case and duplicates.
func Score(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[normalize(t)] = struct{}{}
	}
	seen := make(map[string]struct{}, len(b))
	n := 0
	for _, t := range b {
		k := normalize(t)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := set[k]; ok {
			n++
		}
	}
	return n
}

type scored[T any] struct {
	item  T
	score int
}

// Rank returns up to max candidates related to current, best first. Items
// without any shared signal are only used to backfill when fewer than max
// scored candidates exist; backfill keeps the input order. current itself
// is never returned.
func Rank[T any](current T, candidates []T, max int, opts Options[T]) []T {
	if max <= 0 || len(candidates) == 0 {
		return nil
	}
	currentID := opts.ID(current)
	pool := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if opts.ID(c) != currentID {
			pool = append(pool, c)
		}
	}

	currentTags := opts.Tags(current)
	if len(currentTags) == 0 && opts.Bonus == nil {
		if len(pool) > max {
			pool = pool[:max]
		}
		return pool
	}

	weight := opts.TagWeight
	if weight == 0 {
		weight = 1
	}
	var hits []scored[T]
	for _, c := range pool {
		s := Score(currentTags, opts.Tags(c)) * weight
		if opts.Bonus != nil {
			s += opts.Bonus(current, c)
		}
		if s > 0 {
			hits = append(hits, scored[T]{item: c, score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > max {
		hits = hits[:max]
	}

	out := make([]T, 0, max)
	used := make(map[string]struct{}, len(hits))
	for _, h := range hits {
		out = append(out, h.item)
		used[opts.ID(h.item)] = struct{}{}
	}
	for _, c := range pool {
		if len(out) >= max {
			break
		}
		if _, ok := used[opts.ID(c)]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Reviews ranks reviews by shared tags.
func Reviews(current content.Review, all []content.Review, max int) []content.Review {
	return Rank(current, all, max, Options[content.Review]{
		ID:   func(r content.Review) string { return r.Slug },
		Tags: func(r content.Review) []string { return r.Tags },
	})
}

// Trips ranks trips by shared tags (weighted 3) plus difficulty, season and
// location bonuses.
func Trips(current content.Trip, all []content.Trip, max int) []content.Trip {
	return Rank(current, all, max, Options[content.Trip]{
		ID:        func(t content.Trip) string { return t.ID },
		Tags:      func(t content.Trip) []string { return t.Tags },
		TagWeight: 3,
		Bonus:     tripBonus,
	})
}

func tripBonus(current, candidate content.Trip) int {
	score := 0
	if d := current.Stats.Difficulty; d != "" && d == candidate.Stats.Difficulty {
		score += 2
	}
	if s := current.Stats.Season; s != "" && s == candidate.Stats.Season {
		score++
	}
	score += locationBonus(current.Location, candidate.Location)
	return score
}

// locationBonus is 2 for the same location and 1 when the candidate lies in
// the same place as the first part of current ("Zion, Utah" -> "Zion").
func locationBonus(current, candidate string) int {
	cur := normalize(current)
	cand := normalize(candidate)
	if cur == "" || cand == "" {
		return 0
	}
	if cur == cand {
		return 2
	}
	head := strings.TrimSpace(strings.SplitN(cur, ",", 2)[0])
	if head != "" && strings.Contains(cand, head) {
		return 1
	}
	return 0
}

// SimilarText reports whether two short strings (locations, categories)
// describe the same thing: equal, one containing the other, or sharing a
// word longer than two characters.
func SimilarText(a, b string) bool {
	a, b = normalize(a), normalize(b)
	if a == "" || b == "" {
		return false
	}
	if a == b || strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	words := make(map[string]struct{})
	for _, w := range splitWords(a) {
		words[w] = struct{}{}
	}
	for _, w := range splitWords(b) {
		if _, ok := words[w]; ok && len([]rune(w)) > 2 {
			return true
		}
	}
	return false
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
