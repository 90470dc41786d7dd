// Package metrics exposes Prometheus collectors for the catalog, the
// preference store and the HTTP layer.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MrSnakeDoc/mindnest/internal/domain"
	"github.com/MrSnakeDoc/mindnest/internal/preferences"
)

// Metrics groups every collector the service registers.
type Metrics struct {
	Registry *prometheus.Registry

	// bookmarkToggles counts toggles by resulting state (added/removed).
	bookmarkToggles *prometheus.CounterVec

	// categoryUpdates counts wholesale replacements of the selection.
	categoryUpdates prometheus.Counter

	// persistFailures counts writes that did not reach the backend, by kind.
	persistFailures *prometheus.CounterVec

	// bookmarks is the current size of the bookmark set.
	bookmarks prometheus.Gauge

	// catalogItems is the number of item entries being served.
	catalogItems prometheus.Gauge

	// catalogCategories is the number of categories being served.
	catalogCategories prometheus.Gauge

	// catalogReloads counts successful catalog swaps.
	catalogReloads prometheus.Counter

	// httpRequests counts requests by method, route pattern and status.
	httpRequests *prometheus.CounterVec

	// httpDuration measures request latency by route pattern.
	httpDuration *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry, including the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		bookmarkToggles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mindnest_bookmark_toggles_total",
			Help: "Total number of bookmark toggles by resulting state",
		}, []string{"state"}),
		categoryUpdates: f.NewCounter(prometheus.CounterOpts{
			Name: "mindnest_category_updates_total",
			Help: "Total number of selected-category replacements",
		}),
		persistFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mindnest_persist_failures_total",
			Help: "Total number of preference writes that failed to persist",
		}, []string{"kind"}),
		bookmarks: f.NewGauge(prometheus.GaugeOpts{
			Name: "mindnest_bookmarks",
			Help: "Current number of bookmarked items",
		}),
		catalogItems: f.NewGauge(prometheus.GaugeOpts{
			Name: "mindnest_catalog_items",
			Help: "Number of item entries in the served catalog",
		}),
		catalogCategories: f.NewGauge(prometheus.GaugeOpts{
			Name: "mindnest_catalog_categories",
			Help: "Number of categories in the served catalog",
		}),
		catalogReloads: f.NewCounter(prometheus.CounterOpts{
			Name: "mindnest_catalog_reloads_total",
			Help: "Total number of successful catalog reloads",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mindnest_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mindnest_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObservePreferences subscribes to store mutations and returns the
// unsubscribe func.
func (m *Metrics) ObservePreferences(s *preferences.Store) func() {
	m.bookmarks.Set(float64(len(s.BookmarkedIDs())))

	return s.Subscribe(func(ev preferences.Event) {
		switch ev.Kind {
		case preferences.EventBookmarks:
			if ev.ID != "" {
				state := "removed"
				if ev.Added {
					state = "added"
				}
				m.bookmarkToggles.WithLabelValues(state).Inc()
			}
			m.bookmarks.Set(float64(len(ev.Snapshot.Bookmarks)))
		case preferences.EventCategories:
			m.categoryUpdates.Inc()
		}
		if ev.Err != nil && errors.Is(ev.Err, preferences.ErrPersist) {
			m.persistFailures.WithLabelValues(string(ev.Kind)).Inc()
		}
	})
}

// CatalogInstalled records a successful reload.
func (m *Metrics) CatalogInstalled(c *domain.Catalog) {
	m.catalogReloads.Inc()
	m.catalogItems.Set(float64(c.ItemCount()))
	m.catalogCategories.Set(float64(c.Len()))
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(route).Observe(seconds)
}
