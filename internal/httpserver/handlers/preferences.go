package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/MrSnakeDoc/mindnest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/mindnest/internal/logger"
	"github.com/MrSnakeDoc/mindnest/internal/preferences"
)

var validate = validator.New()

// maxBodyBytes caps request bodies on preference writes.
const maxBodyBytes = 16 << 10

type preferencesResponse struct {
	Categories []string `json:"categories"`
	Bookmarks  []string `json:"bookmarks"`
	Persisted  *bool    `json:"persisted,omitempty"`
}

type setCategoriesRequest struct {
	Categories []string `json:"categories" validate:"max=32,unique,dive,required,max=64"`
}

type toggleResponse struct {
	ID         string `json:"id"`
	Bookmarked bool   `json:"bookmarked"`
	Persisted  bool   `json:"persisted"`
}

// GetPreferences returns the selected categories and bookmark ids.
func GetPreferences(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := d.Preferences.Snapshot()
		writeJSON(w, http.StatusOK, preferencesResponse{
			Categories: snap.SelectedCategories(),
			Bookmarks:  snap.BookmarkIDs(),
		})
	}
}

// SetCategories replaces the selected categories. A failed write to the
// backend is reported with persisted=false; the selection still applies.
func SetCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setCategoriesRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		for i, c := range req.Categories {
			req.Categories[i] = strings.TrimSpace(c)
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}
		if req.Categories == nil {
			req.Categories = []string{}
		}

		err := d.Preferences.SetSelectedCategories(r.Context(), req.Categories)
		persisted := err == nil
		if err != nil && !errors.Is(err, preferences.ErrPersist) {
			writeError(w, http.StatusInternalServerError, "failed to update categories")
			return
		}

		snap := d.Preferences.Snapshot()
		writeJSON(w, http.StatusOK, preferencesResponse{
			Categories: snap.SelectedCategories(),
			Bookmarks:  snap.BookmarkIDs(),
			Persisted:  &persisted,
		})
	}
}

// ToggleBookmark flips the bookmark state of a catalog item.
func ToggleBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := d.Catalog.Item(id); !ok {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}

		bookmarked, err := d.Preferences.ToggleBookmark(r.Context(), id)
		if err != nil {
			d.Logger.Warn("bookmark toggled but not persisted",
				logger.String("id", id),
				logger.Error(err))
		}

		writeJSON(w, http.StatusOK, toggleResponse{
			ID:         id,
			Bookmarked: bookmarked,
			Persisted:  err == nil,
		})
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return "categories must not contain empty names"
	case "unique":
		return "categories must not contain duplicates"
	case "max":
		if fe.Field() == "Categories" {
			return "too many categories (max " + fe.Param() + ")"
		}
		return "category name too long (max " + fe.Param() + " characters)"
	default:
		return "invalid " + strings.ToLower(fe.Field())
	}
}
