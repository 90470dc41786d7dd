package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/mindnest/internal/index"
	"github.com/MrSnakeDoc/mindnest/internal/logger"
	"github.com/MrSnakeDoc/mindnest/internal/preferences"
)

const (
	// DefaultOrphanThreshold is how long a bookmark may point at nothing
	// before it is dropped
	DefaultOrphanThreshold = 30 * 24 * time.Hour // 30 days
)

// OrphanCollector removes bookmarks whose item has been missing from the
// catalog for longer than the threshold. First sightings live in memory, so a
// restart restarts every orphan's clock.
type OrphanCollector struct {
	prefs     *preferences.Store
	index     *index.CatalogIndex
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	now       func() time.Time
	stopCh    chan struct{}

	mu        sync.Mutex
	firstSeen map[string]time.Time // orphan id -> when it was first seen orphaned
}

// NewOrphanCollector creates a new orphan collector
func NewOrphanCollector(
	prefs *preferences.Store,
	idx *index.CatalogIndex,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *OrphanCollector {
	if threshold == 0 {
		threshold = DefaultOrphanThreshold
	}

	return &OrphanCollector{
		prefs:     prefs,
		index:     idx,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		firstSeen: make(map[string]time.Time),
	}
}

// Start begins the periodic collection process
func (oc *OrphanCollector) Start(ctx context.Context) {
	ticker := time.NewTicker(oc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := oc.Collect(ctx); err != nil {
					oc.logger.Error("orphan collection failed",
						logger.Error(err))
				}
			case <-oc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the collector
func (oc *OrphanCollector) Stop() {
	close(oc.stopCh)
}

// Collect runs one pass and returns the number of bookmarks removed.
// Nothing is removed while the catalog is empty, since an empty catalog
// usually means the file failed to load.
func (oc *OrphanCollector) Collect(ctx context.Context) (int, error) {
	current := oc.index.Current()
	if current.IsEmpty() {
		oc.logger.Debug("catalog empty, skipping orphan collection")
		return 0, nil
	}

	now := oc.now()
	var expired []string

	oc.mu.Lock()
	orphans := make(map[string]struct{})
	for _, id := range oc.prefs.BookmarkedIDs() {
		if _, ok := current.Item(id); ok {
			continue
		}
		orphans[id] = struct{}{}

		first, seen := oc.firstSeen[id]
		if !seen {
			oc.firstSeen[id] = now
			continue
		}
		if now.Sub(first) >= oc.threshold {
			expired = append(expired, id)
		}
	}
	// ids that came back or were unbookmarked are forgotten
	for id := range oc.firstSeen {
		if _, ok := orphans[id]; !ok {
			delete(oc.firstSeen, id)
		}
	}
	for _, id := range expired {
		delete(oc.firstSeen, id)
	}
	tracked := len(oc.firstSeen)
	oc.mu.Unlock()

	if len(expired) == 0 {
		oc.logger.Debug("no orphan bookmarks to collect",
			logger.Int("tracked", tracked))
		return 0, nil
	}

	removed, err := oc.prefs.RemoveBookmarks(ctx, expired...)
	oc.logger.Info("collected orphan bookmarks",
		logger.Int("removed", removed),
		logger.Strings("ids", expired),
		logger.Int("still_tracked", tracked))
	return removed, err
}
