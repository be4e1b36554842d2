package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Data file names inside the data directory.
const (
	BackpackingFile = "backpacking.json"
	WeddingFile     = "wedding.json"
)

// TripStats are the trail numbers shown on a trip.
type TripStats struct {
	Distance   string `json:"distance"`
	Elevation  string `json:"elevation"`
	Difficulty string `json:"difficulty"`
	Duration   string `json:"duration"`
	Season     string `json:"season"`
	Permits    string `json:"permits,omitempty"`
	RouteURL   string `json:"routeUrl,omitempty"`
}

// DayItinerary is one day of a multi-day trip.
type DayItinerary struct {
	Day         int      `json:"day"`
	Title       string   `json:"title"`
	Distance    string   `json:"distance"`
	Elevation   string   `json:"elevation"`
	Highlights  []string `json:"highlights"`
	Description string   `json:"description"`
	Images      []Image  `json:"images,omitempty"`
}

// Trip is a backpacking trip report.
type Trip struct {
	ID             string         `json:"id"`
	Featured       bool           `json:"featured"`
	Name           string         `json:"name"`
	Location       string         `json:"location"`
	Dates          string         `json:"dates"`
	Hero           Image          `json:"hero"`
	Stats          TripStats      `json:"stats"`
	Story          string         `json:"story"`
	Itinerary      []DayItinerary `json:"itinerary"`
	Photos         []Image        `json:"photos"`
	GearHighlights []string       `json:"gearHighlights"`
	Tips           []string       `json:"tips"`
	Tags           []string       `json:"tags,omitempty"`
}

// Link returns the trip's site path.
func (t Trip) Link() string {
	return "/backpacking/" + t.ID
}

// Date returns the trip's sortable date.
func (t Trip) Date() Date {
	return TripDate(t.Dates)
}

// GearItem is a piece of gear in the gear showcase.
type GearItem struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Weight   string `json:"weight,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Link     string `json:"link,omitempty"`
	Image    *Image `json:"image,omitempty"`
}

// Backpacking is the whole backpacking.json document.
type Backpacking struct {
	Hero struct {
		Title    string `json:"title"`
		Subtitle string `json:"subtitle"`
		Image    Image  `json:"image"`
	} `json:"hero"`
	Trips []Trip `json:"trips"`
	Gear  struct {
		Big3        []GearItem `json:"big3"`
		Clothing    []GearItem `json:"clothing"`
		Cooking     []GearItem `json:"cooking"`
		Electronics []GearItem `json:"electronics"`
	} `json:"gear"`
}

// WeddingStorySection is one block of the wedding story.
type WeddingStorySection struct {
	Title         string `json:"title,omitempty"`
	Content       string `json:"content"`
	Image         *Image `json:"image,omitempty"`
	ImagePosition string `json:"imagePosition,omitempty"`
}

// Wedding is the whole wedding.json document.
type Wedding struct {
	Hero struct {
		Title       string `json:"title"`
		Names       string `json:"names"`
		Date        string `json:"date"`
		Location    string `json:"location"`
		Image       Image  `json:"image"`
		MobileImage *Image `json:"mobileImage,omitempty"`
	} `json:"hero"`
	Story    []WeddingStorySection `json:"story"`
	Gallery  []Image               `json:"gallery"`
	Metadata struct {
		Photographer string `json:"photographer,omitempty"`
		Venue        string `json:"venue,omitempty"`
	} `json:"metadata"`
}

// LoadJSON decodes dir/name into v.
func LoadJSON(dir, name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// LoadBackpacking reads backpacking.json from dir.
func LoadBackpacking(dir string) (*Backpacking, error) {
	var b Backpacking
	if err := LoadJSON(dir, BackpackingFile, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// LoadWedding reads wedding.json from dir.
func LoadWedding(dir string) (*Wedding, error) {
	var w Wedding
	if err := LoadJSON(dir, WeddingFile, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// FindTrip returns the trip with the given id.
func FindTrip(trips []Trip, id string) (Trip, bool) {
	for _, t := range trips {
		if t.ID == id {
			return t, true
		}
	}
	return Trip{}, false
}
