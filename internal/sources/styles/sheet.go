package styles

import (
	"sync"

	"github.com/otramalaga/civicmap/internal/domain"
	"github.com/otramalaga/civicmap/internal/logger"
)

const (
	// DefaultColor is used for categories without a configured color.
	DefaultColor = "#2a81cb"
	// DefaultIcon is used for tags without a configured icon.
	DefaultIcon = "map-marker"
)

// Sheet resolves marker styling for category and tag names. Lookups are
// case- and whitespace-insensitive.
type Sheet struct {
	mu       sync.RWMutex
	colors   map[string]string
	icons    map[string]string
	defaults Defaults
}

// NewSheet builds a sheet from a parsed config. A nil config yields the
// built-in defaults only.
func NewSheet(config *Config) *Sheet {
	s := &Sheet{defaults: Defaults{Color: DefaultColor, Icon: DefaultIcon}}
	s.apply(config)
	return s
}

// LoadSheet reads the styles file and builds a sheet from it. An empty path
// yields the built-in defaults.
func LoadSheet(filePath string, log logger.Logger) (*Sheet, error) {
	if filePath == "" {
		log.Info("no styles file configured, using built-in defaults")
		return NewSheet(nil), nil
	}

	config, err := NewLoader(filePath).Load()
	if err != nil {
		return nil, err
	}

	sheet := NewSheet(config)
	log.Info("styles loaded",
		logger.String("file", filePath),
		logger.Int("categories", len(config.Categories)),
		logger.Int("tags", len(config.Tags)))
	return sheet, nil
}

// Reload replaces the sheet contents from a freshly parsed config.
func (s *Sheet) Reload(config *Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.colors = nil
	s.icons = nil
	s.defaults = Defaults{Color: DefaultColor, Icon: DefaultIcon}
	s.applyLocked(config)
}

// CategoryColor returns the marker color for a category name.
func (s *Sheet) CategoryColor(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if color, ok := s.colors[domain.NormalizeName(name)]; ok {
		return color
	}
	return s.defaults.Color
}

// TagIcon returns the marker icon for a tag name.
func (s *Sheet) TagIcon(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if icon, ok := s.icons[domain.NormalizeName(name)]; ok {
		return icon
	}
	return s.defaults.Icon
}

func (s *Sheet) apply(config *Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(config)
}

func (s *Sheet) applyLocked(config *Config) {
	s.colors = make(map[string]string)
	s.icons = make(map[string]string)
	if config == nil {
		return
	}

	if config.Defaults.Color != "" {
		s.defaults.Color = config.Defaults.Color
	}
	if config.Defaults.Icon != "" {
		s.defaults.Icon = config.Defaults.Icon
	}
	for name, color := range config.Categories {
		s.colors[domain.NormalizeName(name)] = color
	}
	for name, icon := range config.Tags {
		s.icons[domain.NormalizeName(name)] = icon
	}
}
