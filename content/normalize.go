package content

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var bracketReplacer = strings.NewReplacer("[", "", "]", "")

// StripBrackets removes the literal [ and ] characters left behind by
// wiki-style links in front-matter.
func StripBrackets(s string) string {
	return strings.TrimSpace(bracketReplacer.Replace(s))
}

// TitleCase upper-cases the first letter of every word and leaves the rest
// of each word untouched.
func TitleCase(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}

// TitleFromSlug derives a display title from the file name part of a slug:
// "movies/the-dark-knight" becomes "The Dark Knight".
func TitleFromSlug(slug string) string {
	name := path.Base(strings.ReplaceAll(slug, "\\", "/"))
	name = strings.TrimSuffix(name, ".md")
	words := strings.Split(name, "-")
	out := words[:0]
	for _, w := range words {
		if w != "" {
			out = append(out, TitleCase(w))
		}
	}
	return strings.Join(out, " ")
}

// ProcessTags cleans a review's tag list for display and comparison. Tags
// that repeat the category or start with "year" are dropped; underscores
// become spaces and every word is title-cased.
func ProcessTags(tags []string, category Label) []string {
	var out []string
	for _, t := range tags {
		t = StripBrackets(t)
		if t == "" {
			continue
		}
		spaced := strings.ReplaceAll(t, "_", " ")
		if category.Has(t) || category.Has(spaced) {
			continue
		}
		if strings.HasPrefix(strings.ToLower(t), "year") {
			continue
		}
		out = append(out, TitleCase(spaced))
	}
	return out
}

// CleanDescription strips literal double quotes.
func CleanDescription(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}
