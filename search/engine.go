package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Defaults used by NewEngine.
const (
	DefaultThreshold = 0.3
	MinQueryLength   = 2
)

// Field is a weighted searchable attribute of an Entry.
type Field struct {
	Name   string
	Weight float64
	Value  func(Entry) string
}

// DefaultFields weights titles highest, then descriptions, then the
// secondary metadata, then the raw content.
var DefaultFields = []Field{
	{Name: "title", Weight: 2, Value: func(e Entry) string { return e.Title }},
	{Name: "description", Weight: 1.5, Value: func(e Entry) string { return e.Description }},
	{Name: "content", Weight: 1, Value: func(e Entry) string { return e.Content }},
	{Name: "category", Weight: 1.2, Value: func(e Entry) string {
		if e.Metadata == nil {
			return ""
		}
		return e.Metadata.Category
	}},
	{Name: "tags", Weight: 1.2, Value: func(e Entry) string {
		if e.Metadata == nil {
			return ""
		}
		return strings.Join(e.Metadata.Tags, " ")
	}},
	{Name: "location", Weight: 1.2, Value: func(e Entry) string {
		if e.Metadata == nil {
			return ""
		}
		return e.Metadata.Location
	}},
}

// Result is one ranked hit.
type Result struct {
	Entry   Entry    `json:"entry"`
	Score   float64  `json:"score"`
	Matches []string `json:"matches"`
}

// Engine runs fuzzy queries over a fixed index.
type Engine struct {
	entries   []Entry
	fields    []Field
	threshold float64
}

// NewEngine returns an engine over entries using DefaultFields and
// DefaultThreshold.
func NewEngine(entries []Entry) *Engine {
	return &Engine{entries: entries, fields: DefaultFields, threshold: DefaultThreshold}
}

// Len returns the number of indexed entries.
func (e *Engine) Len() int { return len(e.entries) }

// fieldSource exposes one field of every entry to fuzzy.FindFrom.
type fieldSource struct {
	entries []Entry
	field   Field
}

func (s fieldSource) String(i int) string { return strings.ToLower(s.field.Value(s.entries[i])) }
func (s fieldSource) Len() int            { return len(s.entries) }

// Search returns up to limit results for query, best first. Queries shorter
// than MinQueryLength return nothing. A limit <= 0 means no limit.
func (e *Engine) Search(query string, limit int) []Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(q)) < MinQueryLength || len(e.entries) == 0 {
		return nil
	}

	minQuality := 1 - e.threshold
	scores := make([]float64, len(e.entries))
	matched := make([][]string, len(e.entries))
	for _, f := range e.fields {
		src := fieldSource{entries: e.entries, field: f}
		for _, m := range fuzzy.FindFrom(q, src) {
			quality := matchQuality(q, m)
			if quality < minQuality {
				continue
			}
			scores[m.Index] += f.Weight * quality
			matched[m.Index] = append(matched[m.Index], f.Name)
		}
	}

	var results []Result
	for i, s := range scores {
		if s > 0 {
			results = append(results, Result{Entry: e.entries[i], Score: s, Matches: matched[i]})
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// matchQuality is 1 for a literal substring hit, otherwise how tightly the
// matched characters cluster: query length over the span they cover.
func matchQuality(q string, m fuzzy.Match) float64 {
	if strings.Contains(m.Str, q) {
		return 1
	}
	if len(m.MatchedIndexes) == 0 {
		return 0
	}
	first := m.MatchedIndexes[0]
	last := m.MatchedIndexes[len(m.MatchedIndexes)-1]
	span := last - first + 1
	if span <= 0 {
		return 0
	}
	quality := float64(len(q)) / float64(span)
	if quality > 1 {
		quality = 1
	}
	return quality
}
