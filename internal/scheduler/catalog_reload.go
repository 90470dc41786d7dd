package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/mindnest/internal/domain"
	"github.com/MrSnakeDoc/mindnest/internal/index"
	"github.com/MrSnakeDoc/mindnest/internal/logger"
	"github.com/MrSnakeDoc/mindnest/internal/sources/catalog"
)

// ErrEmptyReload is returned when a reload would replace a non-empty catalog
// with an empty one.
var ErrEmptyReload = errors.New("reload produced an empty catalog, keeping current one")

// Fetcher produces a fresh catalog snapshot.
type Fetcher interface {
	Fetch() (*domain.Catalog, catalog.Stats, error)
}

// CatalogReloader handles periodic and on-demand reloading of the catalog file
type CatalogReloader struct {
	source        Fetcher
	index         *index.CatalogIndex
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
	onReload      func(*domain.Catalog)
}

// NewCatalogReloader creates a new catalog reloader. A zero interval
// disables periodic reloads; manual triggers still work.
func NewCatalogReloader(
	source Fetcher,
	idx *index.CatalogIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CatalogReloader {
	return &CatalogReloader{
		source:        source,
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// OnReload registers fn to run after every successful swap.
func (cr *CatalogReloader) OnReload(fn func(*domain.Catalog)) {
	cr.onReload = fn
}

// Start performs the initial load and begins the reload loop. The initial
// load never fails: an unreadable catalog is served as empty.
func (cr *CatalogReloader) Start(ctx context.Context) {
	if err := cr.Reload(ctx); err != nil {
		cr.logger.Error("catalog load failed, serving empty catalog",
			logger.Error(err))
	}

	go func() {
		var tick <-chan time.Time
		if cr.interval > 0 {
			ticker := time.NewTicker(cr.interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-tick:
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog",
						logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual reload triggered")
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog",
						logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the reloader
func (cr *CatalogReloader) Stop() {
	close(cr.stopCh)
}

// Reload fetches the catalog and installs it. On failure the current
// snapshot stays in place.
func (cr *CatalogReloader) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c, stats, err := cr.source.Fetch()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	if c.IsEmpty() && !cr.index.Current().IsEmpty() {
		return ErrEmptyReload
	}

	cr.index.Swap(c)
	cr.logger.Info("catalog installed",
		logger.Int("categories", stats.Categories),
		logger.Int("items", stats.Items),
		logger.Int("skipped", stats.Skipped),
		logger.Int("duplicates", stats.Duplicates))

	if cr.onReload != nil {
		cr.onReload(c)
	}
	return nil
}
