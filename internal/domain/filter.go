package domain

// FilteredByPreferences returns the items of every selected category, in
// selection order, keeping only those of the requested media type.
//
// Items keep their catalog order within a category. Unknown category names
// contribute nothing. No deduplication is applied: an item listed under two
// selected categories appears twice.
func FilteredByPreferences(catalog *Catalog, prefs Preferences, mediaType MediaType) []*ContentItem {
	out := make([]*ContentItem, 0)
	if prefs == nil {
		return out
	}
	for _, category := range prefs.SelectedCategories() {
		for _, item := range catalog.Items(category) {
			if item.MediaType == mediaType {
				out = append(out, item)
			}
		}
	}
	return out
}

// AllItems flattens every category of the catalog and keeps the items of the
// requested media type. Categories are visited in catalog iteration order.
func AllItems(catalog *Catalog, mediaType MediaType) []*ContentItem {
	out := make([]*ContentItem, 0)
	for _, category := range catalog.Categories() {
		for _, item := range catalog.Items(category) {
			if item.MediaType == mediaType {
				out = append(out, item)
			}
		}
	}
	return out
}

// SavedItems returns AllItems restricted to the bookmarked ids.
func SavedItems(catalog *Catalog, prefs Preferences, mediaType MediaType) []*ContentItem {
	out := make([]*ContentItem, 0)
	if prefs == nil {
		return out
	}
	for _, item := range AllItems(catalog, mediaType) {
		if prefs.IsBookmarked(item.ID) {
			out = append(out, item)
		}
	}
	return out
}

// CategoryOf returns the first category, in catalog iteration order, whose
// item list contains id. The result is only meaningful when each item
// belongs to a single category.
func CategoryOf(catalog *Catalog, id string) (string, bool) {
	for _, category := range catalog.Categories() {
		for _, item := range catalog.Items(category) {
			if item.ID == id {
				return category, true
			}
		}
	}
	return "", false
}

// Recommendations is what the recommendations screen shows: the
// preference-filtered list when categories are selected, otherwise every
// item of the media type. fallback is true in the second case.
func Recommendations(catalog *Catalog, prefs Preferences, mediaType MediaType) (items []*ContentItem, fallback bool) {
	if prefs == nil || len(prefs.SelectedCategories()) == 0 {
		return AllItems(catalog, mediaType), true
	}
	return FilteredByPreferences(catalog, prefs, mediaType), false
}
