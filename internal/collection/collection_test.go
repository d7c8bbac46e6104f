package collection

import (
	"testing"

	"github.com/otramalaga/civicmap/internal/domain"
)

func f64(v float64) *float64 { return &v }

func sampleBookmarks() []*domain.Bookmark {
	return []*domain.Bookmark{
		{
			ID:       1,
			Title:    "Huerto Urbano",
			Category: "Iniciativas",
			Tag:      "Medio Ambiente",
			Location: &domain.Location{Latitude: f64(36.72), Longitude: f64(-4.42)},
		},
		{
			ID:       2,
			Title:    "Sin ubicación",
			Category: "Propuestas",
			Tag:      "Movilidad",
		},
		{
			ID:       3,
			Title:    "Latitud nula",
			Category: "Conflictos",
			Tag:      "Vivienda",
			Location: &domain.Location{Latitude: nil, Longitude: f64(-4.40)},
		},
	}
}

func TestStoreReplaceAndLookup(t *testing.T) {
	s := NewStore()

	if s.Loaded() {
		t.Error("fresh store reports loaded")
	}

	s.Replace(sampleBookmarks())

	if !s.Loaded() {
		t.Error("store not loaded after Replace()")
	}
	if s.Count() != 3 {
		t.Errorf("Count() = %d, want 3", s.Count())
	}

	b, ok := s.Get(2)
	if !ok || b.Title != "Sin ubicación" {
		t.Errorf("Get(2) = %v, %v", b, ok)
	}
	if _, ok := s.Get(99); ok {
		t.Error("Get(99) should miss")
	}
}

func TestStoreMarkersExcludeUnplottable(t *testing.T) {
	s := NewStore()
	s.Replace(sampleBookmarks())

	markers := s.Markers()
	if len(markers) != 1 {
		t.Fatalf("Markers() = %d entries, want 1", len(markers))
	}
	if markers[0].ID != 1 {
		t.Errorf("Markers()[0].ID = %d, want 1", markers[0].ID)
	}
}

func TestStoreDerivesVocabularies(t *testing.T) {
	s := NewStore()
	s.Replace(sampleBookmarks())

	cats := s.Categories()
	if len(cats) != 3 {
		t.Fatalf("Categories() = %d entries, want 3", len(cats))
	}
	if cats[0].Name != "Iniciativas" {
		t.Errorf("Categories()[0] = %q, want first-seen order", cats[0].Name)
	}

	tags := s.Tags()
	if len(tags) != 3 {
		t.Fatalf("Tags() = %d entries, want 3", len(tags))
	}
}

func TestStoreReplaceIsWholesale(t *testing.T) {
	s := NewStore()
	s.Replace(sampleBookmarks())
	s.Replace([]*domain.Bookmark{{ID: 7, Title: "Nuevo", Category: "Propuestas"}})

	if s.Count() != 1 {
		t.Errorf("Count() after second Replace = %d, want 1", s.Count())
	}
	if _, ok := s.Get(1); ok {
		t.Error("old bookmark survived a wholesale Replace()")
	}
}

func TestStoreDuplicateIDsKeepFirst(t *testing.T) {
	s := NewStore()
	s.Replace([]*domain.Bookmark{
		{ID: 5, Title: "primero"},
		{ID: 5, Title: "segundo"},
	})

	if s.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", s.Count())
	}
	b, _ := s.Get(5)
	if b.Title != "primero" {
		t.Errorf("Get(5).Title = %q, want %q", b.Title, "primero")
	}
}
