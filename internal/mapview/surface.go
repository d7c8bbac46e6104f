package mapview

import (
	"sync"
	"time"

	"github.com/otramalaga/civicmap/internal/logger"
)

// LoginPromptTTL is how long the login prompt stays visible after a click
// without a session.
const LoginPromptTTL = 3 * time.Second

// State is the placement state of one interaction surface.
type State int

const (
	// StateIdle means no placement in progress.
	StateIdle State = iota
	// StatePlacing means a provisional marker follows clicks and drags.
	StatePlacing
	// StateConfirmed means the coordinate is captured and immutable until
	// cancel, submit or a new drag.
	StateConfirmed
)

func (s State) String() string {
	switch s {
	case StatePlacing:
		return "placing"
	case StateConfirmed:
		return "confirmed"
	default:
		return "idle"
	}
}

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Surface is one session's placement state machine over the map.
type Surface struct {
	logger    logger.Logger
	promptTTL time.Duration

	mu        sync.Mutex
	state     State
	draft     Coordinate
	confirmed *Coordinate

	promptShown bool
	promptTimer *time.Timer
}

// NewSurface builds an idle surface.
func NewSurface(log logger.Logger) *Surface {
	return &Surface{logger: log, promptTTL: LoginPromptTTL}
}

// Click handles a map click. Without a session it shows the login prompt and
// places nothing; with one it starts or moves the provisional marker.
func (s *Surface) Click(loggedIn bool, c Coordinate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !loggedIn {
		s.showPromptLocked()
		return false
	}

	s.state = StatePlacing
	s.draft = c
	s.confirmed = nil
	return true
}

// Drag moves the provisional marker. A drag after confirmation re-arms the
// confirmation step. Idle surfaces ignore drags.
func (s *Surface) Drag(c Coordinate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateIdle {
		return false
	}
	s.state = StatePlacing
	s.draft = c
	s.confirmed = nil
	return true
}

// Confirm captures the current draft coordinate. It only applies while
// placing.
func (s *Surface) Confirm() (Coordinate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlacing {
		return Coordinate{}, false
	}
	captured := s.draft
	s.confirmed = &captured
	s.state = StateConfirmed
	return captured, true
}

// Cancel abandons the placement and returns to idle.
func (s *Surface) Cancel() {
	s.reset()
}

// Submitted marks the placement consumed by a successful submission and
// returns the surface to idle.
func (s *Surface) Submitted() {
	s.reset()
}

// Confirmed returns the captured coordinate once the surface reached the
// confirmed state.
func (s *Surface) Confirmed() (Coordinate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.confirmed == nil {
		return Coordinate{}, false
	}
	return *s.confirmed, true
}

// State returns the current placement state.
func (s *Surface) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns the provisional coordinate while placing.
func (s *Surface) Draft() (Coordinate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateIdle {
		return Coordinate{}, false
	}
	return s.draft, true
}

// LoginPromptVisible reports whether the login prompt is still showing.
func (s *Surface) LoginPromptVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.promptShown
}

func (s *Surface) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateIdle
	s.draft = Coordinate{}
	s.confirmed = nil
}

// showPromptLocked arms the auto-dismiss timer; a second click while visible
// restarts it.
func (s *Surface) showPromptLocked() {
	s.promptShown = true
	if s.promptTimer != nil {
		s.promptTimer.Stop()
	}
	s.promptTimer = time.AfterFunc(s.promptTTL, func() {
		s.mu.Lock()
		s.promptShown = false
		s.mu.Unlock()
	})
}
