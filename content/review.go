package content

// Review is a movie, show or book review loaded from a markdown file.
type Review struct {
	Slug        string
	Title       string
	Category    Label
	Genre       Label
	Tags        []string
	Poster      string
	Length      string
	Released    Date
	Completed   Date
	Cast        []string
	Description string
	Rating      float64
	Featured    bool
	OGImage     string
	Content     string
}

// Link returns the review's site path.
func (r Review) Link() string {
	return "/posts/" + r.Slug
}

// reviewMeta mirrors the front-matter keys.
type reviewMeta struct {
	Title       string     `yaml:"title"`
	Category    Label      `yaml:"category"`
	Genre       Label      `yaml:"genre"`
	Tags        StringList `yaml:"tags"`
	Poster      string     `yaml:"poster"`
	Length      string     `yaml:"length"`
	Released    Date       `yaml:"released"`
	Completed   Date       `yaml:"completed"`
	Date        Date       `yaml:"date"`
	Cast        StringList `yaml:"cast"`
	Description string     `yaml:"description"`
	Rating      float64    `yaml:"rating"`
	Featured    bool       `yaml:"featured"`
	OGImage     struct {
		URL string `yaml:"url"`
	} `yaml:"ogImage"`
}

func (m reviewMeta) review(slug, body string) Review {
	title := m.Title
	if title == "" {
		title = TitleFromSlug(slug)
	}
	completed := m.Completed
	if !completed.Valid() && completed.Raw == "" {
		completed = m.Date
	}
	cast := make([]string, 0, len(m.Cast))
	for _, c := range m.Cast {
		if c = StripBrackets(c); c != "" {
			cast = append(cast, c)
		}
	}
	return Review{
		Slug:        slug,
		Title:       title,
		Category:    m.Category,
		Genre:       m.Genre,
		Tags:        ProcessTags(m.Tags, m.Category),
		Poster:      m.Poster,
		Length:      m.Length,
		Released:    m.Released,
		Completed:   completed,
		Cast:        cast,
		Description: CleanDescription(m.Description),
		Rating:      m.Rating,
		Featured:    m.Featured,
		OGImage:     m.OGImage.URL,
		Content:     body,
	}
}

// ByCategory returns the reviews whose category matches, ignoring case.
func ByCategory(reviews []Review, category string) []Review {
	var out []Review
	for _, r := range reviews {
		if r.Category.Has(category) {
			out = append(out, r)
		}
	}
	return out
}

// ByGenre returns the reviews that list genre, ignoring case.
func ByGenre(reviews []Review, genre string) []Review {
	var out []Review
	for _, r := range reviews {
		if r.Genre.Has(genre) {
			out = append(out, r)
		}
	}
	return out
}

// Unfinished returns the reviews without a completion date.
func Unfinished(reviews []Review) []Review {
	var out []Review
	for _, r := range reviews {
		if r.Completed.Raw == "" && !r.Completed.Valid() {
			out = append(out, r)
		}
	}
	return out
}

// FindReview returns the review with the given slug.
func FindReview(reviews []Review, slug string) (Review, bool) {
	for _, r := range reviews {
		if r.Slug == slug {
			return r, true
		}
	}
	return Review{}, false
}
