// Package tracks loads the reference track catalog: which drawings exist,
// how they are grouped, which are specialty side bets, and their cutoffs.
package tracks

import (
	_ "embed"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"github.com/abrezinsky/beastreader/internal/models"
	"github.com/abrezinsky/beastreader/internal/wager"
)

//go:embed default_tracks.yaml
var defaultCatalog []byte

// document is the on-disk shape of the catalog
type document struct {
	Timezone   string                 `yaml:"timezone"`
	Categories []models.TrackCategory `yaml:"categories"`
}

// Catalog is the read-only track reference configuration
type Catalog struct {
	location   *time.Location
	categories []models.TrackCategory
	byID       map[string]models.Track
}

var _ wager.TrackLookup = (*Catalog)(nil)

// Default returns the catalog compiled into the binary
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from a YAML file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read track catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and checks a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode track catalog: %w", err)
	}

	tz := doc.Timezone
	if tz == "" {
		tz = "Local"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("track catalog timezone %q: %w", doc.Timezone, err)
	}

	c := &Catalog{location: loc, byID: make(map[string]models.Track)}
	for _, cat := range doc.Categories {
		group := models.TrackCategory{Name: cat.Name}
		for _, t := range cat.Tracks {
			if t.ID == "" {
				return nil, fmt.Errorf("track in category %q has no id", cat.Name)
			}
			if _, dup := c.byID[t.ID]; dup {
				return nil, fmt.Errorf("duplicate track id %q", t.ID)
			}
			if t.Cutoff != "" {
				if _, err := time.Parse("15:04", t.Cutoff); err != nil {
					return nil, fmt.Errorf("track %q: invalid cutoff %q", t.ID, t.Cutoff)
				}
			}
			if t.Name == "" {
				t.Name = t.ID
			}
			t.Category = cat.Name
			c.byID[t.ID] = t
			group.Tracks = append(group.Tracks, t)
		}
		c.categories = append(c.categories, group)
	}

	if len(c.byID) == 0 {
		return nil, fmt.Errorf("track catalog has no tracks")
	}
	return c, nil
}

// Lookup returns the track with the given id
func (c *Catalog) Lookup(id string) (models.Track, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// Location is the time zone cutoffs are expressed in
func (c *Catalog) Location() *time.Location {
	return c.location
}

// Categories returns the catalog grouped for display
func (c *Catalog) Categories() []models.TrackCategory {
	return c.categories
}

// TrackStatus is a track as offered to the user at a given instant
type TrackStatus struct {
	models.Track
	Expired   bool   `json:"expired"`
	Remaining string `json:"remaining,omitempty"`
}

// CategoryStatus groups track statuses
type CategoryStatus struct {
	Name   string        `json:"name"`
	Tracks []TrackStatus `json:"tracks"`
}

// List reports every track with its cutoff state for today. Cutoffs only
// apply when today is among the selected dates.
func (c *Catalog) List(now time.Time, todaySelected bool) []CategoryStatus {
	now = now.In(c.location)
	out := make([]CategoryStatus, 0, len(c.categories))
	for _, cat := range c.categories {
		cs := CategoryStatus{Name: cat.Name}
		for _, t := range cat.Tracks {
			st := TrackStatus{Track: t}
			if todaySelected && t.Cutoff != "" {
				if at, err := wager.CutoffOn(now, t.Cutoff); err == nil {
					if now.After(at) {
						st.Expired = true
					} else {
						st.Remaining = formatRemaining(at.Sub(now))
					}
				}
			}
			cs.Tracks = append(cs.Tracks, st)
		}
		out = append(out, cs)
	}
	return out
}

func formatRemaining(d time.Duration) string {
	d = d.Truncate(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
