package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"mesaYaMenu/internal/modules/ordering/application/port"
	"mesaYaMenu/internal/modules/ordering/domain"
)

type menuCacheEntry struct {
	items     []domain.MenuItem
	fetchedAt time.Time
}

// MenuCatalog fronts the menu fetcher with a per-restaurant cache. A failed
// fetch falls back to the last good menu; a missing menu evicts it.
type MenuCatalog struct {
	fetcher port.MenuFetcher
	now     func() time.Time

	mu      sync.RWMutex
	entries map[int]*menuCacheEntry
}

func NewMenuCatalog(fetcher port.MenuFetcher) *MenuCatalog {
	return &MenuCatalog{
		fetcher: fetcher,
		now:     time.Now,
		entries: make(map[int]*menuCacheEntry),
	}
}

func (c *MenuCatalog) Load(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	items, err := c.fetcher.FetchMenu(ctx, restaurantID)
	if err == nil {
		c.store(restaurantID, items)
		return cloneMenu(items), nil
	}
	if errors.Is(err, port.ErrMenuNotFound) {
		c.Invalidate(restaurantID)
		return nil, err
	}
	if cached, ok := c.cached(restaurantID); ok {
		slog.Warn("menu fetch failed, serving cached copy",
			slog.Int("restaurantId", restaurantID),
			slog.Time("fetchedAt", cached.fetchedAt),
			slog.Any("error", err))
		return cloneMenu(cached.items), nil
	}
	return nil, err
}

func (c *MenuCatalog) Invalidate(restaurantID int) {
	c.mu.Lock()
	delete(c.entries, restaurantID)
	c.mu.Unlock()
}

func (c *MenuCatalog) store(restaurantID int, items []domain.MenuItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[restaurantID] = &menuCacheEntry{items: cloneMenu(items), fetchedAt: c.now().UTC()}
}

func (c *MenuCatalog) cached(restaurantID int) (menuCacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[restaurantID]
	if !ok {
		return menuCacheEntry{}, false
	}
	return *entry, true
}

func cloneMenu(items []domain.MenuItem) []domain.MenuItem {
	if items == nil {
		return nil
	}
	out := make([]domain.MenuItem, len(items))
	copy(out, items)
	return out
}
