package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/mindnest/internal/httpserver/deps"
)

type componentStatus struct {
	OK          bool   `json:"ok"`
	ItemsLoaded *int   `json:"items_loaded,omitempty"`
	Categories  *int   `json:"categories,omitempty"`
	LastReload  string `json:"last_reload,omitempty"`
	Source      string `json:"source,omitempty"`
	Backend     string `json:"backend,omitempty"`
	Bookmarks   *int   `json:"bookmarks,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Error       string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports catalog and backend status.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := d.Catalog.Current()
		items := current.ItemCount()
		categories := current.Len()
		lastReload := d.Catalog.GetLastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"catalog": {
				OK:          items > 0,
				ItemsLoaded: &items,
				Categories:  &categories,
				LastReload:  lastReloadStr,
				Source:      d.CatalogFile,
			},
			"store": checkStore(r.Context(), d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	if c, ok := components["catalog"]; ok && !c.OK {
		return "critical" // nothing to recommend
	}
	if s, ok := components["store"]; ok && !s.OK {
		return "degraded" // changes are kept in memory only
	}
	return "ok"
}

func checkStore(parent context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{
			OK:      false,
			Backend: d.StoreBackend,
			Impact:  "preferences-not-persisted",
			Error:   "store not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	var bookmarks *int
	if d.Preferences != nil {
		n := len(d.Preferences.BookmarkedIDs())
		bookmarks = &n
	}

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:        false,
			Backend:   d.StoreBackend,
			Bookmarks: bookmarks,
			Impact:    "preferences-not-persisted",
			Error:     err.Error(),
		}
	}

	return componentStatus{
		OK:        true,
		Backend:   d.StoreBackend,
		Bookmarks: bookmarks,
	}
}
