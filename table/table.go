// Package table is a paginated, sortable, tag-filtered view over an
// in-memory list. The visible page is always recomputed from the full list:
// page slice of sort(filter(items)).
package table

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// PageSize is the number of rows on a page.
const PageSize = 10

// maxPageLinks is the page count above which page links collapse.
const maxPageLinks = 5

// Column is a sortable column.
type Column[T any] struct {
	Key  string
	Less func(a, b T) bool
}

// View holds the sort, filter and page state for a list of T.
type View[T any] struct {
	items   []T
	tags    func(T) []string
	columns []Column[T]

	sortKey  string
	desc     bool
	selected []string
	page     int
}

// New returns a view over items on page 1, unsorted and unfiltered. tags
// extracts an item's tags for filtering and may be nil.
func New[T any](items []T, tags func(T) []string, columns ...Column[T]) *View[T] {
	return &View[T]{items: items, tags: tags, columns: columns, page: 1}
}

func (v *View[T]) column(key string) (Column[T], bool) {
	for _, c := range v.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}

// SortBy makes key the active column. Selecting the active column again
// flips the direction; a new column starts ascending. Unknown keys are
// ignored. The page is kept, clamped to the new page count.
func (v *View[T]) SortBy(key string) {
	if _, ok := v.column(key); !ok {
		return
	}
	if key == v.sortKey {
		v.desc = !v.desc
	} else {
		v.sortKey = key
		v.desc = false
	}
	v.SetPage(v.page)
}

// SetSort sets the active column and direction directly.
func (v *View[T]) SetSort(key string, desc bool) {
	if _, ok := v.column(key); !ok {
		return
	}
	v.sortKey = key
	v.desc = desc
	v.SetPage(v.page)
}

// SortKey returns the active column key, or "" when unsorted.
func (v *View[T]) SortKey() string { return v.sortKey }

// Descending reports the sort direction.
func (v *View[T]) Descending() bool { return v.desc }

func (v *View[T]) tagIndex(tag string) int {
	for i, s := range v.selected {
		if strings.EqualFold(s, tag) {
			return i
		}
	}
	return -1
}

// ToggleTag adds tag to the filter, or removes it when already selected.
// The page resets to 1.
func (v *View[T]) ToggleTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	if i := v.tagIndex(tag); i >= 0 {
		v.selected = append(v.selected[:i:i], v.selected[i+1:]...)
	} else {
		v.selected = append(v.selected, tag)
	}
	v.page = 1
}

// SetTags replaces the filter. The page resets to 1.
func (v *View[T]) SetTags(tags ...string) {
	v.selected = nil
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" && v.tagIndex(t) < 0 {
			v.selected = append(v.selected, t)
		}
	}
	v.page = 1
}

// ClearTags removes every filter. The page resets to 1.
func (v *View[T]) ClearTags() {
	v.selected = nil
	v.page = 1
}

// SelectedTags returns the active filter tags.
func (v *View[T]) SelectedTags() []string {
	return append([]string(nil), v.selected...)
}

// IsSelected reports whether tag is part of the filter.
func (v *View[T]) IsSelected(tag string) bool { return v.tagIndex(tag) >= 0 }

func (v *View[T]) matches(item T) bool {
	if len(v.selected) == 0 {
		return true
	}
	if v.tags == nil {
		return false
	}
	have := make(map[string]struct{})
	for _, t := range v.tags(item) {
		have[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	for _, want := range v.selected {
		if _, ok := have[strings.ToLower(want)]; !ok {
			return false
		}
	}
	return true
}

// Filtered returns every item passing the filter, in sort order.
func (v *View[T]) Filtered() []T {
	out := make([]T, 0, len(v.items))
	for _, it := range v.items {
		if v.matches(it) {
			out = append(out, it)
		}
	}
	if col, ok := v.column(v.sortKey); ok {
		less := col.Less
		if v.desc {
			sort.SliceStable(out, func(i, j int) bool { return less(out[j], out[i]) })
		} else {
			sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
		}
	}
	return out
}

// TotalPages returns the page count of the filtered list. An empty list has
// zero pages.
func (v *View[T]) TotalPages() int {
	return pages(len(v.Filtered()))
}

func pages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// Page returns the current page, starting at 1.
func (v *View[T]) Page() int { return v.page }

// SetPage moves to page n, clamped to the available pages.
func (v *View[T]) SetPage(n int) {
	total := v.TotalPages()
	if n > total {
		n = total
	}
	if n < 1 {
		n = 1
	}
	v.page = n
}

// Items returns the rows of the current page.
func (v *View[T]) Items() []T {
	all := v.Filtered()
	start := (v.page - 1) * PageSize
	if start >= len(all) {
		return nil
	}
	end := start + PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// Len returns the number of items passing the filter.
func (v *View[T]) Len() int { return len(v.Filtered()) }

// AvailableTags returns every tag of the full list once, sorted
// case-insensitively. The first spelling seen wins.
func (v *View[T]) AvailableTags() []string {
	if v.tags == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, it := range v.items {
		for _, t := range v.tags(it) {
			t = strings.TrimSpace(t)
			k := strings.ToLower(t)
			if _, ok := seen[k]; ok || t == "" {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i]) < strings.ToLower(out[j]) })
	return out
}

// PageItem is one entry of the pagination bar.
type PageItem struct {
	Number   int
	Ellipsis bool
	Current  bool
}

// PageNumbers lists the pagination bar. Up to five pages are all shown;
// beyond that the bar holds the first page, the pages next to the current
// one and the last page, with ellipses over the gaps.
func (v *View[T]) PageNumbers() []PageItem {
	return pageNumbers(v.page, v.TotalPages())
}

func pageNumbers(current, total int) []PageItem {
	var out []PageItem
	add := func(n int) {
		out = append(out, PageItem{Number: n, Current: n == current})
	}
	if total <= maxPageLinks {
		for i := 1; i <= total; i++ {
			add(i)
		}
		return out
	}
	add(1)
	if current > 3 {
		out = append(out, PageItem{Ellipsis: true})
	}
	start := current - 1
	if start < 2 {
		start = 2
	}
	end := current + 1
	if end > total-1 {
		end = total - 1
	}
	for i := start; i <= end; i++ {
		add(i)
	}
	if current < total-2 {
		out = append(out, PageItem{Ellipsis: true})
	}
	add(total)
	return out
}

// Query parameter names.
const (
	ParamSort = "sort"
	ParamDir  = "dir"
	ParamTag  = "tag"
	ParamPage = "page"
)

// ParseQuery applies sort, dir ("asc" or "desc"), repeated tag and page
// parameters. Filters are applied before the page so a page number in the
// query is honored.
func (v *View[T]) ParseQuery(q url.Values) {
	if key := q.Get(ParamSort); key != "" {
		v.SetSort(key, strings.EqualFold(q.Get(ParamDir), "desc"))
	}
	if tags := q[ParamTag]; len(tags) > 0 {
		v.SetTags(tags...)
	}
	if p, err := strconv.Atoi(q.Get(ParamPage)); err == nil {
		v.SetPage(p)
	}
}

// Query encodes the current state.
func (v *View[T]) Query() url.Values {
	q := url.Values{}
	if v.sortKey != "" {
		q.Set(ParamSort, v.sortKey)
		dir := "asc"
		if v.desc {
			dir = "desc"
		}
		q.Set(ParamDir, dir)
	}
	for _, t := range v.selected {
		q.Add(ParamTag, t)
	}
	if v.page > 1 {
		q.Set(ParamPage, strconv.Itoa(v.page))
	}
	return q
}

func (v *View[T]) clone() *View[T] {
	c := *v
	c.selected = append([]string(nil), v.selected...)
	return &c
}

// SortQuery is the query after SortBy(key).
func (v *View[T]) SortQuery(key string) url.Values {
	c := v.clone()
	c.SortBy(key)
	return c.Query()
}

// TagQuery is the query after ToggleTag(tag).
func (v *View[T]) TagQuery(tag string) url.Values {
	c := v.clone()
	c.ToggleTag(tag)
	return c.Query()
}

// PageQuery is the query after SetPage(n).
func (v *View[T]) PageQuery(n int) url.Values {
	c := v.clone()
	c.SetPage(n)
	return c.Query()
}
