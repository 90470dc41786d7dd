package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/mindnest/internal/domain"
	"github.com/MrSnakeDoc/mindnest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/mindnest/internal/logger"
)

type openResponse struct {
	ID     string `json:"id"`
	Opened bool   `json:"opened"`
}

// OpenItem opens an item's external link. Without a configured opener the
// client is redirected to the link.
func OpenItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		item, ok := d.Catalog.Item(id)
		if !ok {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}

		if d.LinkOpener == nil {
			redirect := domain.LinkOpenerFunc(func(_ context.Context, u *url.URL) error {
				http.Redirect(w, r, u.String(), http.StatusFound)
				return nil
			})
			if err := domain.OpenLink(r.Context(), redirect, item.Link); err != nil {
				linkError(w, d, id, err)
			}
			return
		}

		if err := domain.OpenLink(r.Context(), d.LinkOpener, item.Link); err != nil {
			linkError(w, d, id, err)
			return
		}
		writeJSON(w, http.StatusOK, openResponse{ID: id, Opened: true})
	}
}

func linkError(w http.ResponseWriter, d deps.Deps, id string, err error) {
	d.Logger.Warn("cannot open item link",
		logger.String("id", id),
		logger.Error(err))

	if errors.Is(err, domain.ErrInvalidLink) {
		writeError(w, http.StatusUnprocessableEntity, domain.ErrInvalidLink.Error())
		return
	}
	writeError(w, http.StatusBadGateway, "failed to open link")
}
