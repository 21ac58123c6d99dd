// Package catalog holds the session's read-only reference lists: workers,
// equipment, activity codes, payment items, and work-package codes. The
// cache is loaded once per run and replaced atomically; there is no expiry
// and no invalidation signal from the backend, so a catalog item created
// elsewhere is not visible until the next explicit load.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/pascalpat/sitelog/internal/backend"
	"github.com/pascalpat/sitelog/internal/domain"
)

// ErrCatalogUnavailable indicates one of the requested reference lists
// could not be fetched. Dependent selection controls should degrade to a
// disabled/empty state rather than silently omit entries.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// Cache loads and serves catalog items by kind.
type Cache struct {
	client backend.Client

	mu    sync.RWMutex
	items map[domain.CatalogKind]map[string]domain.CatalogItem
}

// NewCache creates an empty cache backed by the given client.
func NewCache(client backend.Client) *Cache {
	return &Cache{client: client}
}

// Load fetches every requested kind. If any list fails the previous cache
// is left intact: replacement is all-or-nothing, never partial.
func (c *Cache) Load(ctx context.Context, kinds ...domain.CatalogKind) error {
	if len(kinds) == 0 {
		kinds = domain.AllCatalogKinds
	}

	fresh := make(map[domain.CatalogKind]map[string]domain.CatalogItem, len(kinds))
	for _, kind := range kinds {
		items, err := c.client.ListCatalog(ctx, kind)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrCatalogUnavailable, kind, err)
		}
		byID := make(map[string]domain.CatalogItem, len(items))
		for _, item := range items {
			byID[item.ID] = item
		}
		fresh[kind] = byID
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = make(map[domain.CatalogKind]map[string]domain.CatalogItem)
	}
	for kind, byID := range fresh {
		c.items[kind] = byID
	}
	return nil
}

// Loaded reports whether the given kind has been loaded.
func (c *Cache) Loaded(kind domain.CatalogKind) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.items[kind]
	return ok
}

// Lookup returns the catalog item with the given id, if present.
func (c *Cache) Lookup(kind domain.CatalogKind, id string) (domain.CatalogItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[kind][id]
	return item, ok
}

// Label returns the display label for an id, falling back to the raw id
// when the item is unknown.
func (c *Cache) Label(kind domain.CatalogKind, id string) string {
	if item, ok := c.Lookup(kind, id); ok {
		return item.DisplayLabel()
	}
	return id
}

// Items returns a copy of one kind's items sorted by label, for building
// selection controls.
func (c *Cache) Items(kind domain.CatalogKind) []domain.CatalogItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]domain.CatalogItem, 0, len(c.items[kind]))
	for _, item := range c.items[kind] {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}
