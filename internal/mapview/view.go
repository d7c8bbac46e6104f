package mapview

import (
	"sync"

	"github.com/otramalaga/civicmap/internal/collection"
	"github.com/otramalaga/civicmap/internal/logger"
)

// PopupWidthFraction is the popup's horizontal footprint as a share of the
// viewport width. Focusing shifts the center by this much so the popup does
// not occlude the marker.
const PopupWidthFraction = 0.15

// Viewport is the visible map window.
type Viewport struct {
	Center Coordinate `json:"center"`
	Zoom   int        `json:"zoom"`
	// LonSpan is the viewport's width in degrees of longitude, used to
	// convert the popup footprint into a coordinate shift.
	LonSpan float64 `json:"lonSpan"`
}

// View is one session's camera over the shared marker collection.
type View struct {
	store     *collection.Store
	logger    logger.Logger
	focusZoom int

	mu sync.Mutex
	vp Viewport
	// explicitCenter blocks geolocation recentering when the view was
	// opened on a requested coordinate.
	explicitCenter bool
	youAreHere     *Coordinate
	openPopup      int64
}

// ViewOptions carries the startup camera.
type ViewOptions struct {
	Center    Coordinate
	Zoom      int
	FocusZoom int
	LonSpan   float64
	// ExplicitCenter marks Center as requested rather than defaulted.
	ExplicitCenter bool
}

// NewView builds a view over the collection.
func NewView(store *collection.Store, opts ViewOptions, log logger.Logger) *View {
	return &View{
		store:     store,
		logger:    log,
		focusZoom: opts.FocusZoom,
		vp: Viewport{
			Center:  opts.Center,
			Zoom:    opts.Zoom,
			LonSpan: opts.LonSpan,
		},
		explicitCenter: opts.ExplicitCenter,
	}
}

// Viewport returns the current camera.
func (v *View) Viewport() Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vp
}

// Focus recenters on a bookmark and opens its popup. The request is honored
// only once the collection is loaded and the id resolves to a plottable
// bookmark; otherwise it is a no-op.
func (v *View) Focus(id int64) bool {
	if !v.store.Loaded() {
		v.logger.Debug("focus before collection load ignored", logger.Int64("bookmark_id", id))
		return false
	}
	b, ok := v.store.Get(id)
	if !ok || !b.Plottable() {
		return false
	}
	lat, lon, _ := b.Location.Coords()

	v.mu.Lock()
	defer v.mu.Unlock()

	v.vp.Center = offsetCenter(Coordinate{Lat: lat, Lon: lon}, v.vp.LonSpan)
	v.vp.Zoom = v.focusZoom
	v.openPopup = id
	return true
}

// OpenPopup returns the id of the bookmark whose popup is open.
func (v *View) OpenPopup() (int64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.openPopup, v.openPopup != 0
}

// ClosePopup dismisses the open popup.
func (v *View) ClosePopup() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.openPopup = 0
}

// Locate records a one-shot geolocation fix. The indicator is placed either
// way; the camera only follows it when no explicit center was requested.
func (v *View) Locate(c Coordinate) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.youAreHere = &c
	if v.explicitCenter {
		return
	}
	v.vp.Center = c
}

// YouAreHere returns the geolocation indicator, if placed.
func (v *View) YouAreHere() (Coordinate, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.youAreHere == nil {
		return Coordinate{}, false
	}
	return *v.youAreHere, true
}

// offsetCenter shifts the recenter target east by the popup footprint so the
// popup opens beside the marker instead of over it.
func offsetCenter(marker Coordinate, lonSpan float64) Coordinate {
	return Coordinate{
		Lat: marker.Lat,
		Lon: marker.Lon + lonSpan*PopupWidthFraction,
	}
}
