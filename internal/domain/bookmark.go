package domain

import (
	"strings"
	"time"
)

const (
	// TitleMaxLen is the maximum accepted title length.
	TitleMaxLen = 100
	// DescriptionMinLen is the minimum accepted description length.
	DescriptionMinLen = 100
	// DescriptionMaxLen is the maximum accepted description length.
	DescriptionMaxLen = 250

	// DefaultTag is substituted when a bookmark carries no tag of its own.
	DefaultTag = "Medio Ambiente"
)

// Location is a WGS84 coordinate pair. Pointers keep "null" coordinates
// distinguishable from 0.0: a bookmark at (0,0) is plottable, one with a
// missing latitude is not.
type Location struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Coords returns the coordinate pair and whether both values are present.
func (l *Location) Coords() (lat, lon float64, ok bool) {
	if l == nil || l.Latitude == nil || l.Longitude == nil {
		return 0, 0, false
	}
	return *l.Latitude, *l.Longitude, true
}

// NewLocation builds a Location from concrete coordinates.
func NewLocation(lat, lon float64) *Location {
	return &Location{Latitude: &lat, Longitude: &lon}
}

// Bookmark is a single civic-initiative record as served by the upstream
// backend. The client never mutates ID, UserID or PublicationDate.
type Bookmark struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// Category and Tag are the reference-entity names used for both
	// classification and visual styling.
	Category string `json:"category"`
	Tag      string `json:"tag"`

	Video     string   `json:"video,omitempty"`
	URL       string   `json:"url,omitempty"`
	ImageURLs []string `json:"imageUrls"`

	PublicationDate time.Time `json:"publicationDate"`
	UserID          int64     `json:"userId"`

	// Location is optional. A bookmark without one is never plotted.
	Location *Location `json:"location,omitempty"`
}

// Plottable reports whether the bookmark can appear on the map:
// a location is present and both coordinates are non-null.
func (b *Bookmark) Plottable() bool {
	_, _, ok := b.Location.Coords()
	return ok
}

// EffectiveTag returns the tag used for filtering and styling, falling back
// to the category and then to DefaultTag when the bookmark has no tag.
func (b *Bookmark) EffectiveTag() string {
	if b.Tag != "" {
		return b.Tag
	}
	if b.Category != "" {
		return b.Category
	}
	return DefaultTag
}

// Category and Tag as fetched from the upstream vocabulary endpoints.
type (
	Category struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	Tag struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
)

// User is the public identity attached to a bookmark.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// DisplayName falls back across the optional name fields.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return "Usuario Anónimo"
}

// NormalizeName canonicalizes a category or tag name for style lookups.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
