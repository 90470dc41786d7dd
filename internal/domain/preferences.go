package domain

import "sort"

// Preferences is the read side of the user's persisted state, as seen by
// the recommendation queries.
type Preferences interface {
	SelectedCategories() []string
	IsBookmarked(id string) bool
}

// UserPreferences is a point-in-time copy of the user's state.
type UserPreferences struct {
	Categories []string
	Bookmarks  map[string]struct{}
}

// NewUserPreferences builds a snapshot from a category list and bookmarked ids.
func NewUserPreferences(categories []string, bookmarkIDs ...string) UserPreferences {
	p := UserPreferences{
		Categories: append([]string(nil), categories...),
		Bookmarks:  make(map[string]struct{}, len(bookmarkIDs)),
	}
	for _, id := range bookmarkIDs {
		p.Bookmarks[id] = struct{}{}
	}
	return p
}

// SelectedCategories returns the selected categories in selection order,
// never nil.
func (p UserPreferences) SelectedCategories() []string {
	return append([]string{}, p.Categories...)
}

// IsBookmarked reports whether id is in the bookmark set.
func (p UserPreferences) IsBookmarked(id string) bool {
	_, ok := p.Bookmarks[id]
	return ok
}

// BookmarkIDs returns the bookmark set as a sorted slice.
func (p UserPreferences) BookmarkIDs() []string {
	ids := make([]string, 0, len(p.Bookmarks))
	for id := range p.Bookmarks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
