package content

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestStripBrackets(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[[Drama]]", "Drama"},
		{"[Movie]", "Movie"},
		{"Plain", "Plain"},
		{" [[Sci Fi]] ", "Sci Fi"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripBrackets(tt.input); got != tt.expected {
			t.Errorf("StripBrackets(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestTitleFromSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"the-dark-knight", "The Dark Knight"},
		{"movies/the-dark-knight", "The Dark Knight"},
		{"books/2024/dune", "Dune"},
		{"Weapons", "Weapons"},
		{"a--b", "A B"},
	}
	for _, tt := range tests {
		if got := TitleFromSlug(tt.input); got != tt.expected {
			t.Errorf("TitleFromSlug(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestProcessTags(t *testing.T) {
	got := ProcessTags([]string{"movie", "year_1999", "sci_fi", "Year2000", "[[action]]", "1990s"}, Single("[[Movie]]"))
	want := []string{"Sci Fi", "Action", "1990s"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ProcessTags = %v, want %v", got, want)
	}
}

func TestCleanDescription(t *testing.T) {
	if got := CleanDescription(`"A man" walks "in"`); got != "A man walks in" {
		t.Errorf("CleanDescription = %q", got)
	}
}

func TestLabelJSON(t *testing.T) {
	var single Label
	if err := json.Unmarshal([]byte(`"[[Drama]]"`), &single); err != nil {
		t.Fatalf("unmarshal single: %v", err)
	}
	if single.Display() != "Drama" || single.IsMultiple() {
		t.Errorf("single = %q multiple=%v", single.Display(), single.IsMultiple())
	}

	var multi Label
	if err := json.Unmarshal([]byte(`["[Horror]", "Comedy", ""]`), &multi); err != nil {
		t.Fatalf("unmarshal multiple: %v", err)
	}
	if multi.Display() != "Horror, Comedy" || multi.First() != "Horror" {
		t.Errorf("multi = %q first=%q", multi.Display(), multi.First())
	}
	if !multi.Has("comedy") || multi.Has("drama") {
		t.Errorf("Has mismatch for %v", multi.Values())
	}
	b, err := json.Marshal(multi)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `["Horror","Comedy"]` {
		t.Errorf("marshal = %s", b)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		year  int
		valid bool
	}{
		{"2024-01-15", 2024, true},
		{"October 31, 2025", 2025, true},
		{"2024-01-15T10:00:00Z", 2024, true},
		{"1999", 1999, true},
		{"someday", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		d := ParseDate(tt.input)
		if d.Valid() != tt.valid {
			t.Errorf("ParseDate(%q).Valid() = %v, want %v", tt.input, d.Valid(), tt.valid)
			continue
		}
		if tt.valid && d.Year() != tt.year {
			t.Errorf("ParseDate(%q).Year() = %d, want %d", tt.input, d.Year(), tt.year)
		}
	}
}

func TestTripDate(t *testing.T) {
	d := TripDate("July 5-6, 2025")
	if !d.Valid() {
		t.Fatal("expected range to parse")
	}
	if d.Month() != 7 || d.Day() != 1 || d.Year() != 2025 {
		t.Errorf("TripDate = %v, want 2025-07-01", d.Time)
	}
	if d.Raw != "July 5-6, 2025" {
		t.Errorf("Raw = %q", d.Raw)
	}
}

func TestFindMarkdownFilesDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "top.md"), "x")
	writeFile(t, filepath.Join(root, "notes.txt"), "x")
	writeFile(t, filepath.Join(root, "movies", "weapons.md"), "x")
	writeFile(t, filepath.Join(root, "movies", "2024", "dune.md"), "x")
	writeFile(t, filepath.Join(root, "movies", "2024", "deep", "hidden.md"), "x")

	got, err := FindMarkdownFiles(root, MaxDepth)
	if err != nil {
		t.Fatalf("FindMarkdownFiles: %v", err)
	}
	want := []string{"movies/2024/dune", "movies/weapons", "top"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slugs = %v, want %v", got, want)
	}
}

func TestFindMarkdownFilesMissingRoot(t *testing.T) {
	if _, err := FindMarkdownFiles(filepath.Join(t.TempDir(), "nope"), MaxDepth); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestReadReview(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "movies", "the-dark-knight.md"), `---
category: "[[Movie]]"
genre:
  - "[[Action]]"
  - Crime
tags: [movie, year_2008, sci_fi, superhero]
completed: 2024-03-02
released: 2008
rating: 9.5
description: 'The "best" one'
cast: ["[[Heath Ledger]]"]
---
Why so serious?
`)

	r, err := ReadReview(root, "movies/the-dark-knight")
	if err != nil {
		t.Fatalf("ReadReview: %v", err)
	}
	if r.Title != "The Dark Knight" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.Slug != "movies/the-dark-knight" {
		t.Errorf("Slug = %q", r.Slug)
	}
	if r.Category.Display() != "Movie" {
		t.Errorf("Category = %q", r.Category.Display())
	}
	if r.Genre.Display() != "Action, Crime" {
		t.Errorf("Genre = %q", r.Genre.Display())
	}
	if want := []string{"Sci Fi", "Superhero"}; !reflect.DeepEqual(r.Tags, want) {
		t.Errorf("Tags = %v, want %v", r.Tags, want)
	}
	if r.Description != "The best one" {
		t.Errorf("Description = %q", r.Description)
	}
	if !r.Completed.Valid() || r.Completed.Year() != 2024 {
		t.Errorf("Completed = %v", r.Completed)
	}
	if r.Released.Year() != 2008 {
		t.Errorf("Released = %v", r.Released)
	}
	if r.Rating != 9.5 {
		t.Errorf("Rating = %v", r.Rating)
	}
	if len(r.Cast) != 1 || r.Cast[0] != "Heath Ledger" {
		t.Errorf("Cast = %v", r.Cast)
	}
	if r.Content != "Why so serious?\n" {
		t.Errorf("Content = %q", r.Content)
	}
	if r.Link() != "/posts/movies/the-dark-knight" {
		t.Errorf("Link = %q", r.Link())
	}
}

func TestReadReviewExplicitTitle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "se7en.md"), "---\ntitle: Se7en\n---\nbody")
	r, err := ReadReview(root, "se7en.md")
	if err != nil {
		t.Fatalf("ReadReview: %v", err)
	}
	if r.Title != "Se7en" || r.Slug != "se7en" {
		t.Errorf("got title %q slug %q", r.Title, r.Slug)
	}
}

func TestReadReviewRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	_, err := ReadReview(root, "../etc/passwd")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestLoadReviewsSortedByCompleted(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "---\ncompleted: 2023-01-01\n---\n")
	writeFile(t, filepath.Join(root, "b.md"), "---\ncompleted: 2024-06-01\n---\n")
	writeFile(t, filepath.Join(root, "c.md"), "---\ncompleted: \"March 3, 2024\"\n---\n")
	writeFile(t, filepath.Join(root, "d.md"), "no front matter")

	reviews, err := LoadReviews(root)
	if err != nil {
		t.Fatalf("LoadReviews: %v", err)
	}
	var slugs []string
	for _, r := range reviews {
		slugs = append(slugs, r.Slug)
	}
	want := []string{"b", "c", "a", "d"}
	if !reflect.DeepEqual(slugs, want) {
		t.Errorf("order = %v, want %v", slugs, want)
	}
	if got := Unfinished(reviews); len(got) != 1 || got[0].Slug != "d" {
		t.Errorf("Unfinished = %v", got)
	}
}

func TestLoadReviewsMissingRootFails(t *testing.T) {
	if _, err := LoadReviews(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error")
	}
}

func TestReviewFilters(t *testing.T) {
	reviews := []Review{
		{Slug: "a", Category: Single("Movie"), Genre: Multiple("Action", "Drama")},
		{Slug: "b", Category: Single("Book"), Genre: Single("Drama")},
	}
	if got := ByCategory(reviews, "movie"); len(got) != 1 || got[0].Slug != "a" {
		t.Errorf("ByCategory = %v", got)
	}
	if got := ByGenre(reviews, "Drama"); len(got) != 2 {
		t.Errorf("ByGenre = %v", got)
	}
	if r, ok := FindReview(reviews, "b"); !ok || r.Slug != "b" {
		t.Errorf("FindReview = %v %v", r, ok)
	}
}

func TestLoadBackpackingAndWedding(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, BackpackingFile), `{
  "hero": {"title": "Trails"},
  "trips": [{"id": "zion", "name": "Zion", "location": "Zion, Utah", "dates": "July 5-6, 2025",
    "stats": {"difficulty": "Moderate", "distance": "16 miles", "season": "Summer"}}]
}`)
	writeFile(t, filepath.Join(dir, WeddingFile), `{
  "hero": {"title": "Our Wedding", "date": "October 31, 2025", "location": "Salem, MA"},
  "story": [{"title": "How we met", "content": "A library."}],
  "gallery": [{"url": "/img/1.jpg", "alt": "one", "width": 10, "height": 10}]
}`)

	b, err := LoadBackpacking(dir)
	if err != nil {
		t.Fatalf("LoadBackpacking: %v", err)
	}
	trip, ok := FindTrip(b.Trips, "zion")
	if !ok {
		t.Fatal("expected trip zion")
	}
	if trip.Link() != "/backpacking/zion" || trip.Date().Year() != 2025 {
		t.Errorf("trip link %q date %v", trip.Link(), trip.Date())
	}

	w, err := LoadWedding(dir)
	if err != nil {
		t.Fatalf("LoadWedding: %v", err)
	}
	if w.Hero.Location != "Salem, MA" || len(w.Gallery) != 1 {
		t.Errorf("wedding = %+v", w.Hero)
	}
}

func TestLoadJSONMissing(t *testing.T) {
	if _, err := LoadWedding(t.TempDir()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestReadPage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "projects.md"), `---
description: Things I "built"
projects:
  - title: Review Database
    status: Active
    tags: [Go, SQLite]
---
Side projects.
`)
	p, err := ReadPage(dir, "projects")
	if err != nil {
		t.Fatalf("ReadPage: %v", err)
	}
	if p.Title != "Projects" || p.Slug != "projects" || p.Description != "Things I built" {
		t.Errorf("page = %+v", p)
	}
	if len(p.Projects) != 1 || p.Projects[0].Status != "Active" || !reflect.DeepEqual(p.Projects[0].Tags, []string{"Go", "SQLite"}) {
		t.Errorf("projects = %+v", p.Projects)
	}
	if strings.TrimSpace(p.Content) != "Side projects." {
		t.Errorf("content = %q", p.Content)
	}

	for _, slug := range []string{"", "../projects", "nested/projects"} {
		if _, err := ReadPage(dir, slug); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("ReadPage(%q) = %v, want ErrNotExist", slug, err)
		}
	}
}

func TestLoadPages(t *testing.T) {
	pages, err := LoadPages(filepath.Join(t.TempDir(), "missing"))
	if err != nil || len(pages) != 0 {
		t.Fatalf("missing dir = %v, %v", pages, err)
	}

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "about.md"), "---\ntitle: About Me\n---\nHi.\n")
	writeFile(t, filepath.Join(dir, "contact.md"), "---\nlinks:\n  - label: Email\n    url: mailto:me@example.com\n---\n")
	writeFile(t, filepath.Join(dir, "drafts", "ignored.md"), "draft")
	pages, err = LoadPages(dir)
	if err != nil {
		t.Fatalf("LoadPages: %v", err)
	}
	if len(pages) != 2 || pages["about"].Title != "About Me" || pages["contact"].Links[0].Label != "Email" {
		t.Errorf("pages = %+v", pages)
	}

	writeFile(t, filepath.Join(dir, "broken.md"), "---\ntitle: [unclosed\n---\n")
	if _, err := LoadPages(dir); err == nil {
		t.Error("expected error for unparsable page")
	}
}
