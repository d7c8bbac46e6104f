package mapview

import (
	"sync"

	"github.com/otramalaga/civicmap/internal/domain"
)

// Handle is a mounted marker: the plotted point plus the styling vocabulary
// it renders with.
type Handle struct {
	ID       int64      `json:"id"`
	Point    Coordinate `json:"point"`
	Title    string     `json:"title"`
	Category string     `json:"category"`
	Tag      string     `json:"tag"`
}

// Registry tracks mounted marker handles by bookmark id.
type Registry struct {
	mu      sync.RWMutex
	handles map[int64]Handle
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[int64]Handle)}
}

// Mount inserts or replaces the handle for a bookmark.
func (r *Registry) Mount(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles[h.ID] = h
}

// Unmount removes the handle for a bookmark, if mounted.
func (r *Registry) Unmount(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, id)
}

// Get returns the mounted handle for a bookmark.
func (r *Registry) Get(id int64) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[id]
	return h, ok
}

// Len returns the number of mounted handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}

// Sync mounts a handle for every plottable bookmark and unmounts handles
// whose bookmark disappeared from the list.
func (r *Registry) Sync(bookmarks []*domain.Bookmark) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[int64]struct{}, len(bookmarks))
	for _, b := range bookmarks {
		if !b.Plottable() {
			continue
		}
		lat, lon, _ := b.Location.Coords()
		seen[b.ID] = struct{}{}
		r.handles[b.ID] = Handle{
			ID:       b.ID,
			Point:    Coordinate{Lat: lat, Lon: lon},
			Title:    b.Title,
			Category: b.Category,
			Tag:      b.EffectiveTag(),
		}
	}
	for id := range r.handles {
		if _, ok := seen[id]; !ok {
			delete(r.handles, id)
		}
	}
}
