package domain

import (
	"testing"
)

func markerSet() []*Bookmark {
	return []*Bookmark{
		{ID: 1, Title: "Huerto Urbano", Category: "Iniciativas", Tag: "Medio Ambiente"},
		{ID: 2, Title: "Carril bici Soho", Category: "Propuestas", Tag: "Movilidad"},
		{ID: 3, Title: "Desahucios Lagunillas", Category: "Conflictos", Tag: "Vivienda"},
		{ID: 4, Title: "Casa invisible", Category: "Iniciativas", Tag: "Cultura"},
		{ID: 5, Title: "Ruido Centro", Category: "Conflictos", Tag: ""},
	}
}

func TestFilterMarkers_EmptySelectionsIsIdentity(t *testing.T) {
	markers := markerSet()

	got := FilterMarkers(markers, NewSelection(), NewSelection())

	if len(got) != len(markers) {
		t.Fatalf("FilterMarkers() returned %d markers, want all %d", len(got), len(markers))
	}
	for i := range got {
		if got[i] != markers[i] {
			t.Errorf("marker %d changed identity or order", i)
		}
	}
}

func TestFilterMarkers(t *testing.T) {
	tests := []struct {
		name       string
		categories Selection
		tags       Selection
		wantIDs    []int64
	}{
		{
			name:       "single category",
			categories: NewSelection("Iniciativas"),
			wantIDs:    []int64{1, 4},
		},
		{
			name:       "multiple categories",
			categories: NewSelection("Iniciativas", "Conflictos"),
			wantIDs:    []int64{1, 3, 4, 5},
		},
		{
			name:    "single tag",
			tags:    NewSelection("Movilidad"),
			wantIDs: []int64{2},
		},
		{
			name:       "category and tag must both match",
			categories: NewSelection("Iniciativas"),
			tags:       NewSelection("Cultura"),
			wantIDs:    []int64{4},
		},
		{
			name:       "disjoint category and tag match nothing",
			categories: NewSelection("Propuestas"),
			tags:       NewSelection("Vivienda"),
			wantIDs:    []int64{},
		},
		{
			name:    "untagged marker matches via effective tag fallback",
			tags:    NewSelection("Conflictos"),
			wantIDs: []int64{5},
		},
		{
			name:       "unknown category matches nothing",
			categories: NewSelection("Inventada"),
			wantIDs:    []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterMarkers(markerSet(), tt.categories, tt.tags)

			if len(got) != len(tt.wantIDs) {
				t.Fatalf("FilterMarkers() returned %d markers, want %d", len(got), len(tt.wantIDs))
			}
			for i, m := range got {
				if m.ID != tt.wantIDs[i] {
					t.Errorf("marker[%d].ID = %d, want %d", i, m.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestFilterMarkers_Deterministic(t *testing.T) {
	markers := markerSet()
	cats := NewSelection("Conflictos")
	tags := NewSelection("Vivienda")

	first := FilterMarkers(markers, cats, tags)
	second := FilterMarkers(markers, cats, tags)

	if len(first) != len(second) {
		t.Fatalf("repeated calls disagree: %d vs %d markers", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("repeated calls disagree at index %d", i)
		}
	}
	if len(markers) != 5 {
		t.Errorf("input slice was mutated, len = %d", len(markers))
	}
}

func TestSelectionToggle(t *testing.T) {
	tests := []struct {
		name    string
		initial Selection
		value   string
		wantHas bool
		wantLen int
	}{
		{
			name:    "add to empty",
			initial: NewSelection(),
			value:   "Vivienda",
			wantHas: true,
			wantLen: 1,
		},
		{
			name:    "remove present",
			initial: NewSelection("Vivienda", "Cultura"),
			value:   "Vivienda",
			wantHas: false,
			wantLen: 1,
		},
		{
			name:    "add alongside others",
			initial: NewSelection("Cultura"),
			value:   "Movilidad",
			wantHas: true,
			wantLen: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.initial.Toggle(tt.value)

			if got.Has(tt.value) != tt.wantHas {
				t.Errorf("Has(%q) = %v, want %v", tt.value, got.Has(tt.value), tt.wantHas)
			}
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestSelectionToggle_IsItsOwnInverse(t *testing.T) {
	initials := []Selection{
		NewSelection(),
		NewSelection("Vivienda"),
		NewSelection("Vivienda", "Cultura", "Movilidad"),
	}
	values := []string{"Vivienda", "Feminismos"}

	for _, s := range initials {
		for _, v := range values {
			twice := s.Toggle(v).Toggle(v)
			if len(twice) != len(s) {
				t.Fatalf("Toggle(Toggle(s, %q), %q): len = %d, want %d", v, v, len(twice), len(s))
			}
			for name := range s {
				if !twice.Has(name) {
					t.Errorf("Toggle twice lost %q", name)
				}
			}
		}
	}
}

func TestSelectionToggle_DoesNotMutateReceiver(t *testing.T) {
	s := NewSelection("Vivienda")
	_ = s.Toggle("Vivienda")
	_ = s.Toggle("Cultura")

	if len(s) != 1 || !s.Has("Vivienda") {
		t.Errorf("Toggle mutated its receiver: %v", s.Names())
	}
}

func TestSetAll(t *testing.T) {
	s := SetAll([]string{"Vivienda", "Cultura"})
	if len(s) != 2 || !s.Has("Vivienda") || !s.Has("Cultura") {
		t.Errorf("SetAll() = %v, want both names selected", s.Names())
	}

	cleared := SetAll(nil)
	if len(cleared) != 0 {
		t.Errorf("SetAll(nil) should clear the selection, got %v", cleared.Names())
	}
}
