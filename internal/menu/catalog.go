package menu

import (
	"context"
	"strings"
	"sync"

	"github.com/appetiteclub/apt"
	"github.com/wakelyai/webchat/internal/i18n"
)

// CategoryAll is the sentinel category meaning "no category filter".
const CategoryAll = "all"

// Source provides the raw menu for an organization.
type Source interface {
	FetchMenu(ctx context.Context, organizationID string) ([]Item, error)
}

// Catalog holds the fetched menu for one session. The menu is fetched once,
// cached in memory and only ever filtered, never mutated.
type Catalog struct {
	mu         sync.RWMutex
	items      []Item
	categories []string
	logger     apt.Logger
}

func NewCatalog(logger apt.Logger) *Catalog {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Catalog{logger: logger}
}

// Load fetches the menu through source and derives the category set. A
// failed or empty fetch leaves the catalog empty; the chat stays usable
// without a menu panel.
func (c *Catalog) Load(ctx context.Context, source Source, organizationID string) {
	items, err := source.FetchMenu(ctx, organizationID)
	if err != nil {
		c.logger.Infof("Menu load failed for organization %s: %v", organizationID, err)
		items = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.categories = deriveCategories(items)
}

// LoadItems seeds the catalog directly, bypassing the source.
func (c *Catalog) LoadItems(items []Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.categories = deriveCategories(items)
}

// deriveCategories collects distinct categories in order of first occurrence,
// skipping items without one.
func deriveCategories(items []Item) []string {
	seen := make(map[string]bool, len(items))
	categories := make([]string, 0, len(items))
	for _, item := range items {
		if item.Category == "" || seen[item.Category] {
			continue
		}
		seen[item.Category] = true
		categories = append(categories, item.Category)
	}
	return categories
}

// Items returns the full cached menu.
func (c *Catalog) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of cached items.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Categories returns the distinct category names in first-occurrence order.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// FilterByCategory returns items whose category matches exactly. The
// CategoryAll sentinel passes everything through.
func (c *Catalog) FilterByCategory(category string) []Item {
	if category == "" || category == CategoryAll {
		return c.Items()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// Search matches query case-insensitively as a substring of the name, the
// Arabic name or the description; a hit on any field keeps the item. An
// empty query returns the full menu.
func (c *Catalog) Search(query string) []Item {
	return Search(c.Items(), query)
}

// Search filters items by the catalog search semantics. Exposed separately
// so a category-filtered slice can be searched again.
func Search(items []Item, query string) []Item {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}

	out := make([]Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), query) ||
			strings.Contains(strings.ToLower(item.NameAR), query) ||
			strings.Contains(strings.ToLower(item.Description), query) {
			out = append(out, item)
		}
	}
	return out
}

// Find returns the first item whose base or Arabic name matches exactly.
func (c *Catalog) Find(name string) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.Name == name || item.NameAR == name {
			return item, true
		}
	}
	return Item{}, false
}

// DraftFor produces the localized chat draft for a selected item. Selecting
// an item closes the menu view; the session layer bridges that side effect.
func DraftFor(tr *i18n.Translator, item Item) string {
	return tr.T("tellMeAbout", tr.Pick(item.Name, item.NameAR))
}
