package table

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Title  string
	Rating int
	Tags   []string
}

func rowTags(r row) []string { return r.Tags }

var columns = []Column[row]{
	{Key: "title", Less: func(a, b row) bool { return a.Title < b.Title }},
	{Key: "rating", Less: func(a, b row) bool { return a.Rating < b.Rating }},
}

func rows(n int) []row {
	out := make([]row, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, row{Title: fmt.Sprintf("t%02d", i), Rating: n - i})
	}
	return out
}

func titles(rs []row) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Title)
	}
	return out
}

func tagged() []row {
	return []row{
		{Title: "Heat", Rating: 9, Tags: []string{"Action", "1990s"}},
		{Title: "Speed", Rating: 7, Tags: []string{"action", "1990s", "Bus"}},
		{Title: "Alien", Rating: 9, Tags: []string{"Horror", "1970s"}},
		{Title: "Crank", Rating: 5, Tags: []string{"Action", "2000s"}},
	}
}

func TestFilterAND(t *testing.T) {
	v := New(tagged(), rowTags, columns...)
	v.SetTags("Action", "1990s")
	assert.Equal(t, []string{"Heat", "Speed"}, titles(v.Items()))

	v.ClearTags()
	assert.Equal(t, []string{"Heat", "Speed", "Alien", "Crank"}, titles(v.Items()))
}

func TestToggleTag(t *testing.T) {
	v := New(tagged(), rowTags, columns...)
	v.ToggleTag("ACTION")
	assert.Equal(t, 3, v.Len())
	assert.True(t, v.IsSelected("action"))
	v.ToggleTag("action")
	assert.Equal(t, 4, v.Len())
	assert.Empty(t, v.SelectedTags())
}

func TestFilterChangeResetsPage(t *testing.T) {
	items := rows(30)
	items[0].Tags = []string{"x"}
	v := New(items, rowTags, columns...)
	v.SetPage(3)
	require.Equal(t, 3, v.Page())

	v.ToggleTag("x")
	assert.Equal(t, 1, v.Page())

	v.ClearTags()
	v.SetPage(2)
	v.SetTags()
	assert.Equal(t, 1, v.Page())
}

func TestSortToggle(t *testing.T) {
	v := New(tagged(), rowTags, columns...)
	v.SortBy("title")
	assert.Equal(t, []string{"Alien", "Crank", "Heat", "Speed"}, titles(v.Items()))
	assert.False(t, v.Descending())

	v.SortBy("title")
	assert.Equal(t, []string{"Speed", "Heat", "Crank", "Alien"}, titles(v.Items()))
	assert.True(t, v.Descending())

	v.SortBy("rating")
	assert.False(t, v.Descending(), "new column starts ascending")
	assert.Equal(t, []string{"Crank", "Speed", "Heat", "Alien"}, titles(v.Items()))

	v.SortBy("nope")
	assert.Equal(t, "rating", v.SortKey())
}

func TestSortAppliesAfterFilter(t *testing.T) {
	v := New(tagged(), rowTags, columns...)
	v.SortBy("rating")
	v.SortBy("rating")
	v.SetTags("action")
	assert.Equal(t, []string{"Heat", "Speed", "Crank"}, titles(v.Items()))
	v.ClearTags()
	assert.Equal(t, []string{"Heat", "Alien", "Speed", "Crank"}, titles(v.Items()))
}

func TestPagination(t *testing.T) {
	v := New(rows(23), nil, columns...)
	assert.Equal(t, 3, v.TotalPages())
	assert.Len(t, v.Items(), PageSize)

	v.SetPage(3)
	assert.Equal(t, []string{"t20", "t21", "t22"}, titles(v.Items()))

	v.SetPage(99)
	assert.Equal(t, 3, v.Page())
	v.SetPage(-1)
	assert.Equal(t, 1, v.Page())
}

func TestEmptyList(t *testing.T) {
	v := New[row](nil, rowTags, columns...)
	assert.Equal(t, 0, v.TotalPages())
	assert.Equal(t, 1, v.Page())
	assert.Empty(t, v.Items())
	assert.Empty(t, v.PageNumbers())
}

func TestAvailableTags(t *testing.T) {
	v := New(tagged(), rowTags, columns...)
	v.SetTags("Horror")
	assert.Equal(t, []string{"1970s", "1990s", "2000s", "Action", "Bus", "Horror"}, v.AvailableTags())
}

func pageLabels(items []PageItem) []string {
	var out []string
	for _, it := range items {
		switch {
		case it.Ellipsis:
			out = append(out, "...")
		case it.Current:
			out = append(out, fmt.Sprintf("[%d]", it.Number))
		default:
			out = append(out, fmt.Sprint(it.Number))
		}
	}
	return out
}

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		current, total int
		expected       []string
	}{
		{1, 1, []string{"[1]"}},
		{2, 5, []string{"1", "[2]", "3", "4", "5"}},
		{1, 10, []string{"[1]", "2", "...", "10"}},
		{3, 10, []string{"1", "2", "[3]", "4", "...", "10"}},
		{4, 10, []string{"1", "...", "3", "[4]", "5", "...", "10"}},
		{8, 10, []string{"1", "...", "7", "[8]", "9", "10"}},
		{10, 10, []string{"1", "...", "9", "[10]"}},
	}
	for _, tt := range tests {
		got := pageLabels(pageNumbers(tt.current, tt.total))
		assert.Equal(t, tt.expected, got, "current=%d total=%d", tt.current, tt.total)
	}
}

func TestParseQuery(t *testing.T) {
	items := rows(25)
	for i := range items {
		items[i].Tags = []string{"all"}
	}
	v := New(items, rowTags, columns...)
	v.ParseQuery(url.Values{
		"sort": {"rating"},
		"dir":  {"desc"},
		"tag":  {"all"},
		"page": {"2"},
	})
	assert.Equal(t, "rating", v.SortKey())
	assert.True(t, v.Descending())
	assert.Equal(t, []string{"all"}, v.SelectedTags())
	assert.Equal(t, 2, v.Page())
	assert.Equal(t, "t10", v.Items()[0].Title)

	assert.Equal(t, "dir=desc&page=2&sort=rating&tag=all", v.Query().Encode())
	assert.Equal(t, "dir=asc&page=2&sort=rating&tag=all", v.SortQuery("rating").Encode())
	assert.Equal(t, "dir=desc&sort=rating", v.TagQuery("all").Encode())
	assert.Equal(t, "dir=desc&page=3&sort=rating&tag=all", v.PageQuery(3).Encode())
	assert.Equal(t, 2, v.Page(), "query helpers leave the view untouched")
}
