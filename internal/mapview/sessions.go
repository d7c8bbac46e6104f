package mapview

import (
	"sync"

	"github.com/google/uuid"

	"github.com/otramalaga/civicmap/internal/collection"
	"github.com/otramalaga/civicmap/internal/logger"
)

// Session couples one client's interaction surface with its camera.
type Session struct {
	ID      string
	Surface *Surface
	View    *View
}

// Sessions tracks live map sessions by id.
type Sessions struct {
	store  *collection.Store
	logger logger.Logger
	opts   ViewOptions

	mu   sync.RWMutex
	byID map[string]*Session
}

// NewSessions builds the session tracker with the default camera.
func NewSessions(store *collection.Store, opts ViewOptions, log logger.Logger) *Sessions {
	return &Sessions{
		store:  store,
		logger: log,
		opts:   opts,
		byID:   make(map[string]*Session),
	}
}

// Open creates a map session. A non-nil center overrides the default camera
// and blocks geolocation recentering.
func (s *Sessions) Open(center *Coordinate) *Session {
	opts := s.opts
	if center != nil {
		opts.Center = *center
		opts.ExplicitCenter = true
	}

	sess := &Session{
		ID:      uuid.NewString(),
		Surface: NewSurface(s.logger),
		View:    NewView(s.store, opts, s.logger),
	}

	s.mu.Lock()
	s.byID[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Debug("map session opened", logger.String("session_id", sess.ID))
	return sess
}

// Get returns a live session by id.
func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.byID[id]
	return sess, ok
}

// Close drops a session.
func (s *Sessions) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
