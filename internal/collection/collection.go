package collection

import (
	"sync"
	"time"

	"github.com/otramalaga/civicmap/internal/domain"
)

// Store holds the fetched bookmark collection plus the category/tag
// vocabularies derived from it. The snapshot is replaced wholesale on
// refresh; readers always see a consistent view.
type Store struct {
	mu          sync.RWMutex
	bookmarks   map[int64]*domain.Bookmark
	order       []int64 // insertion order of the last Replace
	categories  []domain.Reference
	tags        []domain.Reference
	lastRefresh time.Time
}

// NewStore creates an empty collection store.
func NewStore() *Store {
	return &Store{
		bookmarks: make(map[int64]*domain.Bookmark),
	}
}

// Replace swaps in a freshly fetched bookmark list and re-derives the
// vocabularies from it.
func (s *Store) Replace(bookmarks []*domain.Bookmark) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookmarks = make(map[int64]*domain.Bookmark, len(bookmarks))
	s.order = make([]int64, 0, len(bookmarks))
	for _, b := range bookmarks {
		if _, dup := s.bookmarks[b.ID]; dup {
			continue
		}
		s.bookmarks[b.ID] = b
		s.order = append(s.order, b.ID)
	}
	s.categories, s.tags = domain.DeriveVocabulary(bookmarks)
	s.lastRefresh = time.Now()
}

// Get retrieves a bookmark by id.
func (s *Store) Get(id int64) (*domain.Bookmark, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookmarks[id]
	return b, ok
}

// All returns the bookmarks in fetch order.
func (s *Store) All() []*domain.Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Bookmark, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.bookmarks[id])
	}
	return out
}

// Markers returns only the plottable bookmarks, in fetch order.
func (s *Store) Markers() []*domain.Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Bookmark, 0, len(s.order))
	for _, id := range s.order {
		if b := s.bookmarks[id]; b.Plottable() {
			out = append(out, b)
		}
	}
	return out
}

// Categories returns the derived category vocabulary.
func (s *Store) Categories() []domain.Reference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories
}

// Tags returns the derived tag vocabulary.
func (s *Store) Tags() []domain.Reference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tags
}

// Count returns the number of bookmarks in the snapshot.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookmarks)
}

// LastRefresh returns when the snapshot was last replaced.
// Zero means no fetch has completed yet.
func (s *Store) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}

// Loaded reports whether an initial fetch has completed. Focus-to-marker
// requests are no-ops until then.
func (s *Store) Loaded() bool {
	return !s.LastRefresh().IsZero()
}
