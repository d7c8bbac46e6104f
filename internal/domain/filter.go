package domain

// Selection is a set of category or tag names picked by the user.
// The empty selection means "no filter" (match-all), never "match-none".
type Selection map[string]struct{}

// NewSelection builds a selection from the given names.
func NewSelection(names ...string) Selection {
	s := make(Selection, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is part of the selection.
func (s Selection) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the selected names in unspecified order.
func (s Selection) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	return names
}

// Toggle returns a copy of s with name added if absent, removed if present.
// Toggle is its own inverse: Toggle(Toggle(s, x), x) equals s.
func (s Selection) Toggle(name string) Selection {
	out := make(Selection, len(s)+1)
	for n := range s {
		out[n] = struct{}{}
	}
	if out.Has(name) {
		delete(out, name)
	} else {
		out[name] = struct{}{}
	}
	return out
}

// SetAll replaces the whole selection with the given names.
// An empty input clears the selection (match-all).
func SetAll(names []string) Selection {
	return NewSelection(names...)
}

// FilterMarkers reduces markers to the subset matching both selections.
// A marker passes iff (categories is empty OR its category is selected)
// AND (tags is empty OR its effective tag is selected).
// Pure: input order is preserved and the input slice is never mutated.
func FilterMarkers(markers []*Bookmark, categories, tags Selection) []*Bookmark {
	out := make([]*Bookmark, 0, len(markers))
	for _, m := range markers {
		if len(categories) > 0 && !categories.Has(m.Category) {
			continue
		}
		if len(tags) > 0 && !tags.Has(m.EffectiveTag()) {
			continue
		}
		out = append(out, m)
	}
	return out
}
