package domain

import (
	"testing"
)

func f64(v float64) *float64 { return &v }

func TestBookmarkPlottable(t *testing.T) {
	tests := []struct {
		name     string
		location *Location
		want     bool
	}{
		{
			name:     "no location",
			location: nil,
			want:     false,
		},
		{
			name:     "both coordinates present",
			location: &Location{Latitude: f64(36.7213), Longitude: f64(-4.4214)},
			want:     true,
		},
		{
			name:     "null latitude",
			location: &Location{Latitude: nil, Longitude: f64(-4.4214)},
			want:     false,
		},
		{
			name:     "null longitude",
			location: &Location{Latitude: f64(36.7213), Longitude: nil},
			want:     false,
		},
		{
			name:     "zero coordinates are valid",
			location: &Location{Latitude: f64(0), Longitude: f64(0)},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Bookmark{Title: "test", Location: tt.location}
			if got := b.Plottable(); got != tt.want {
				t.Errorf("Plottable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffectiveTag(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		category string
		want     string
	}{
		{
			name:     "tag wins",
			tag:      "Vivienda",
			category: "Conflictos",
			want:     "Vivienda",
		},
		{
			name:     "category fallback",
			tag:      "",
			category: "Conflictos",
			want:     "Conflictos",
		},
		{
			name: "default fallback",
			want: DefaultTag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Bookmark{Tag: tt.tag, Category: tt.category}
			if got := b.EffectiveTag(); got != tt.want {
				t.Errorf("EffectiveTag() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{
			name: "name present",
			user: User{Name: "María", Username: "maria78"},
			want: "María",
		},
		{
			name: "username fallback",
			user: User{Username: "maria78"},
			want: "maria78",
		},
		{
			name: "anonymous fallback",
			user: User{},
			want: "Usuario Anónimo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeriveVocabulary(t *testing.T) {
	markers := []*Bookmark{
		{Category: "Iniciativas", Tag: "Medio Ambiente"},
		{Category: "Conflictos", Tag: "Vivienda"},
		{Category: "Iniciativas", Tag: "Cultura"},
		{Category: "Conflictos"}, // no tag, effective tag is the category
		{Category: "", Tag: ""},  // contributes only the default tag
	}

	categories, tags := DeriveVocabulary(markers)

	wantCats := []string{"Iniciativas", "Conflictos"}
	if len(categories) != len(wantCats) {
		t.Fatalf("got %d categories, want %d", len(categories), len(wantCats))
	}
	for i, c := range categories {
		if c.Name != wantCats[i] || c.ID != wantCats[i] {
			t.Errorf("categories[%d] = %+v, want name %q", i, c, wantCats[i])
		}
	}

	wantTags := []string{"Medio Ambiente", "Vivienda", "Cultura", "Conflictos"}
	if len(tags) != len(wantTags) {
		t.Fatalf("got %d tags (%v), want %d", len(tags), tags, len(wantTags))
	}
	for i, tag := range tags {
		if tag.Name != wantTags[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tag.Name, wantTags[i])
		}
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("  Conflictos "); got != "conflictos" {
		t.Errorf("NormalizeName() = %q, want %q", got, "conflictos")
	}
}
