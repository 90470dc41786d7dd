package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/mindnest/internal/domain"
	"github.com/MrSnakeDoc/mindnest/internal/httpserver/deps"
)

type interestsResponse struct {
	Interests []string `json:"interests"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

// itemView is a ContentItem decorated for one request.
type itemView struct {
	*domain.ContentItem
	Category   string `json:"category,omitempty"`
	Bookmarked bool   `json:"bookmarked"`
	HasLink    bool   `json:"has_link"`
}

type itemsResponse struct {
	Type     domain.MediaType `json:"type"`
	Label    string           `json:"label"`
	Fallback bool             `json:"fallback"`
	Count    int              `json:"count"`
	Items    []itemView       `json:"items"`
}

// Interests lists the selectable interest categories.
func Interests(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, interestsResponse{Interests: domain.Interests()})
	}
}

// Categories lists the categories of the served catalog.
func Categories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, categoriesResponse{Categories: d.Catalog.Current().Categories()})
	}
}

// Recommendations serves the recommendations screen for one media type.
// With no category selected it falls back to every item of the type.
func Recommendations(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mediaType, err := mediaTypeParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		catalog := d.Catalog.Current()
		prefs := d.Preferences.Snapshot()
		items, fallback := domain.Recommendations(catalog, prefs, mediaType)

		writeJSON(w, http.StatusOK, itemsResponse{
			Type:     mediaType,
			Label:    mediaType.DisplayName(),
			Fallback: fallback,
			Count:    len(items),
			Items:    views(catalog, prefs, items),
		})
	}
}

// Saved serves the bookmarked items of one media type.
func Saved(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mediaType, err := mediaTypeParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		catalog := d.Catalog.Current()
		prefs := d.Preferences.Snapshot()
		items := domain.SavedItems(catalog, prefs, mediaType)

		writeJSON(w, http.StatusOK, itemsResponse{
			Type:  mediaType,
			Label: mediaType.DisplayName(),
			Count: len(items),
			Items: views(catalog, prefs, items),
		})
	}
}

func views(catalog *domain.Catalog, prefs domain.Preferences, items []*domain.ContentItem) []itemView {
	out := make([]itemView, 0, len(items))
	for _, item := range items {
		category, _ := domain.CategoryOf(catalog, item.ID)
		out = append(out, itemView{
			ContentItem: item,
			Category:    category,
			Bookmarked:  prefs.IsBookmarked(item.ID),
			HasLink:     item.HasLink(),
		})
	}
	return out
}
