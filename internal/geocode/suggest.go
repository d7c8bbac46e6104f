package geocode

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/otramalaga/civicmap/internal/logger"
)

// Suggester turns keystrokes into a debounced suggestion list. Only the
// scheduled lookup is cancelled on new input; a request already on the wire
// runs to completion and whichever response lands last wins.
type Suggester struct {
	client   *Client
	debounce *Debouncer
	minQuery int
	timeout  time.Duration
	logger   logger.Logger

	mu          sync.Mutex
	suggestions []Place
}

// NewSuggester wires a suggester over the geocoding client.
func NewSuggester(client *Client, delay time.Duration, minQuery int, log logger.Logger) *Suggester {
	return &Suggester{
		client:   client,
		debounce: NewDebouncer(delay),
		minQuery: minQuery,
		timeout:  10 * time.Second,
		logger:   log,
	}
}

// Input registers a new query. Short queries cancel the pending lookup and
// clear the current suggestions without touching the network.
func (s *Suggester) Input(query string) {
	if utf8.RuneCountInString(query) < s.minQuery {
		s.debounce.Cancel()
		s.setSuggestions(nil)
		return
	}

	s.debounce.Schedule(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		places, err := s.client.Search(ctx, query)
		if err != nil {
			s.logger.Debug("suggestion lookup failed", logger.String("query", query), logger.Error(err))
			s.setSuggestions(nil)
			return
		}
		s.setSuggestions(places)
	})
}

// Suggestions returns a copy of the current suggestion list.
func (s *Suggester) Suggestions() []Place {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Place, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}

// Select picks a suggestion by index and clears the list.
func (s *Suggester) Select(i int) (Place, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.suggestions) {
		return Place{}, false
	}
	picked := s.suggestions[i]
	s.suggestions = nil
	return picked, true
}

func (s *Suggester) setSuggestions(places []Place) {
	s.mu.Lock()
	s.suggestions = places
	s.mu.Unlock()
}
