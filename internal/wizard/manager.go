package wizard

import (
	"sync"

	"github.com/google/uuid"

	"github.com/otramalaga/civicmap/internal/domain"
)

// Manager tracks in-progress wizard forms by id.
type Manager struct {
	mu    sync.RWMutex
	forms map[string]*Form
}

// NewManager builds an empty form tracker.
func NewManager() *Manager {
	return &Manager{forms: make(map[string]*Form)}
}

// Start opens a creation form and returns its id.
func (m *Manager) Start() (string, *Form) {
	return m.track(NewForm())
}

// StartEdit opens a form pre-filled from an existing bookmark.
func (m *Manager) StartEdit(b *domain.Bookmark) (string, *Form) {
	return m.track(NewEditForm(b))
}

// Get returns a live form by id.
func (m *Manager) Get(id string) (*Form, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.forms[id]
	return f, ok
}

// Drop discards a form, finished or abandoned.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.forms, id)
}

func (m *Manager) track(f *Form) (string, *Form) {
	id := uuid.NewString()
	m.mu.Lock()
	m.forms[id] = f
	m.mu.Unlock()
	return id, f
}
