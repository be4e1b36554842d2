// Package content loads the site's source material: markdown reviews with
// front-matter and the JSON data files behind the backpacking and wedding
// sections. Everything is normalized once at load time so the rest of the
// application works with clean values.
package content

// Kind identifies a content type. IDs are only unique within a Kind.
type Kind string

const (
	KindReview  Kind = "review"
	KindTrip    Kind = "trip"
	KindWedding Kind = "wedding"
	KindPage    Kind = "page"
)

// Image is a photo reference shared by trips and the wedding gallery.
type Image struct {
	URL         string `json:"url"`
	Alt         string `json:"alt"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Caption     string `json:"caption,omitempty"`
	BlurDataURL string `json:"blurDataURL,omitempty"`
}
