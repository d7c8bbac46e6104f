package handlers

import (
	"net/http"
	"strings"

	"github.com/otramalaga/civicmap/internal/domain"
	"github.com/otramalaga/civicmap/internal/httpserver/deps"
)

type markerView struct {
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	Category  string           `json:"category"`
	Tag       string           `json:"tag"`
	Location  *domain.Location `json:"location"`
	Color     string           `json:"color"`
	Icon      string           `json:"icon"`
	ImageURLs []string         `json:"imageUrls,omitempty"`
}

type markersResponse struct {
	Markers    []markerView       `json:"markers"`
	Total      int                `json:"total"`
	Categories []domain.Reference `json:"categories"`
	Tags       []domain.Reference `json:"tags"`
}

// Markers serves the plottable collection, narrowed by the categories and
// tags query selections.
func Markers(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := d.Bookmarks.Store()

		categories := parseSelection(r.URL.Query().Get("categories"))
		tags := parseSelection(r.URL.Query().Get("tags"))
		filtered := domain.FilterMarkers(store.Markers(), categories, tags)

		views := make([]markerView, 0, len(filtered))
		for _, b := range filtered {
			views = append(views, markerView{
				ID:        b.ID,
				Title:     b.Title,
				Category:  b.Category,
				Tag:       b.EffectiveTag(),
				Location:  b.Location,
				Color:     d.Styles.CategoryColor(b.Category),
				Icon:      d.Styles.TagIcon(b.EffectiveTag()),
				ImageURLs: b.ImageURLs,
			})
		}

		writeJSON(w, http.StatusOK, markersResponse{
			Markers:    views,
			Total:      len(views),
			Categories: store.Categories(),
			Tags:       store.Tags(),
		})
	}
}

// parseSelection splits a comma-separated filter value into a selection.
// Empty input yields the match-all selection.
func parseSelection(raw string) domain.Selection {
	if strings.TrimSpace(raw) == "" {
		return domain.NewSelection()
	}
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return domain.SetAll(names)
}
