package domain

import "sort"

// Catalog maps a category name to its ordered list of items.
//
// A Catalog is immutable once built: accessors return copies, and a reload
// produces a new Catalog instead of mutating the installed one.
type Catalog struct {
	categories map[string][]*ContentItem
	order      []string // sorted category names, fixed iteration order
}

// NewCatalog builds an immutable catalog from a category -> items mapping.
// The input map and slices are copied.
func NewCatalog(byCategory map[string][]*ContentItem) *Catalog {
	c := &Catalog{
		categories: make(map[string][]*ContentItem, len(byCategory)),
		order:      make([]string, 0, len(byCategory)),
	}
	for name, items := range byCategory {
		cp := make([]*ContentItem, len(items))
		copy(cp, items)
		c.categories[name] = cp
		c.order = append(c.order, name)
	}
	sort.Strings(c.order)
	return c
}

// EmptyCatalog returns a catalog with zero categories.
func EmptyCatalog() *Catalog {
	return NewCatalog(nil)
}

// Categories returns category names in iteration order.
func (c *Catalog) Categories() []string {
	if c == nil {
		return []string{}
	}
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Items returns a copy of the items listed under category, or nil if the
// category does not exist.
func (c *Catalog) Items(category string) []*ContentItem {
	if c == nil {
		return nil
	}
	items, ok := c.categories[category]
	if !ok {
		return nil
	}
	out := make([]*ContentItem, len(items))
	copy(out, items)
	return out
}

// Item looks up an item by id across all categories.
func (c *Catalog) Item(id string) (*ContentItem, bool) {
	if c == nil {
		return nil, false
	}
	for _, name := range c.order {
		for _, item := range c.categories[name] {
			if item.ID == id {
				return item, true
			}
		}
	}
	return nil, false
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.categories)
}

// ItemCount returns the number of item entries across all categories.
// An item listed under two categories counts twice.
func (c *Catalog) ItemCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, items := range c.categories {
		n += len(items)
	}
	return n
}

// IsEmpty reports whether the catalog has no categories.
func (c *Catalog) IsEmpty() bool {
	return c.Len() == 0
}
