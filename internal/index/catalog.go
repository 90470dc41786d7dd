package index

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/mindnest/internal/domain"
)

// CatalogIndex holds the catalog snapshot currently being served.
// Snapshots are immutable, so readers query the returned pointer without
// holding the lock.
type CatalogIndex struct {
	mu         sync.RWMutex
	catalog    *domain.Catalog
	lastReload time.Time // zero until the first Swap
}

// NewCatalogIndex creates an index serving an empty catalog.
func NewCatalogIndex() *CatalogIndex {
	return &CatalogIndex{
		catalog: domain.EmptyCatalog(),
	}
}

// Swap installs a new snapshot and returns the previous one.
func (idx *CatalogIndex) Swap(c *domain.Catalog) *domain.Catalog {
	if c == nil {
		c = domain.EmptyCatalog()
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	prev := idx.catalog
	idx.catalog = c
	idx.lastReload = time.Now()
	return prev
}

// Current returns the snapshot being served.
func (idx *CatalogIndex) Current() *domain.Catalog {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.catalog
}

// Item looks up an item by id in the current snapshot.
func (idx *CatalogIndex) Item(id string) (*domain.ContentItem, bool) {
	return idx.Current().Item(id)
}

// Count returns the number of item entries in the current snapshot.
func (idx *CatalogIndex) Count() int {
	return idx.Current().ItemCount()
}

// GetLastReload returns the timestamp of the last Swap
func (idx *CatalogIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
