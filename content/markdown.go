package content

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
)

// MaxDepth is how many folder levels below the content root are searched.
const MaxDepth = 2

// FindMarkdownFiles lists the .md files under root down to maxDepth folder
// levels (0 is root itself). Results are slash-separated relative paths with
// the extension removed, ready to be used as slugs.
func FindMarkdownFiles(root string, maxDepth int) ([]string, error) {
	return findMarkdown(root, "", 0, maxDepth)
}

func findMarkdown(dir, rel string, depth, maxDepth int) ([]string, error) {
	if depth > maxDepth {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read content dir %s: %w", dir, err)
	}
	var slugs []string
	for _, e := range entries {
		name := e.Name()
		relPath := name
		if rel != "" {
			relPath = path.Join(rel, name)
		}
		switch {
		case e.IsDir() && depth < maxDepth:
			nested, err := findMarkdown(filepath.Join(dir, name), relPath, depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			slugs = append(slugs, nested...)
		case !e.IsDir() && strings.HasSuffix(name, ".md"):
			slugs = append(slugs, strings.TrimSuffix(relPath, ".md"))
		}
	}
	return slugs, nil
}

// ReadReview loads one review by slug. Nested slugs keep their folder
// ("movies/weapons"). Slugs that would leave root are rejected.
func ReadReview(root, slug string) (Review, error) {
	slug = strings.Trim(strings.TrimSuffix(slug, ".md"), "/")
	local := filepath.FromSlash(slug)
	if slug == "" || !filepath.IsLocal(local) {
		return Review{}, fmt.Errorf("read review %q: %w", slug, os.ErrNotExist)
	}
	data, err := os.ReadFile(filepath.Join(root, local+".md"))
	if err != nil {
		return Review{}, fmt.Errorf("read review %q: %w", slug, err)
	}
	var meta reviewMeta
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return Review{}, fmt.Errorf("parse front-matter of %q: %w", slug, err)
	}
	return meta.review(slug, string(body)), nil
}

// LoadReviews reads every review under root, newest completion first. Any
// unreadable file fails the whole load.
func LoadReviews(root string) ([]Review, error) {
	slugs, err := FindMarkdownFiles(root, MaxDepth)
	if err != nil {
		return nil, err
	}
	reviews := make([]Review, 0, len(slugs))
	for _, slug := range slugs {
		r, err := ReadReview(root, slug)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	SortReviews(reviews)
	return reviews, nil
}

// SortReviews orders reviews by completion date, newest first. Equal dates
// keep their listing order.
func SortReviews(reviews []Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].Completed.Time.After(reviews[j].Completed.Time)
	})
}
