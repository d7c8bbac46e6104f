package domain

// Reference is a vocabulary entry derived from the fetched marker set.
// Derived entries are keyed by name (the upstream vocabulary endpoints
// serve numeric ids, but the markers themselves only carry names).
type Reference struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DeriveVocabulary extracts the unique category and tag names present in
// the marker set, in first-seen order. Bookmarks without a tag contribute
// their effective tag (category fallback, then DefaultTag).
func DeriveVocabulary(markers []*Bookmark) (categories, tags []Reference) {
	seenCat := make(map[string]bool)
	seenTag := make(map[string]bool)

	for _, m := range markers {
		if c := m.Category; c != "" && !seenCat[c] {
			seenCat[c] = true
			categories = append(categories, Reference{ID: c, Name: c})
		}
		if t := m.EffectiveTag(); t != "" && !seenTag[t] {
			seenTag[t] = true
			tags = append(tags, Reference{ID: t, Name: t})
		}
	}
	return categories, tags
}
