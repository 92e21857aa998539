package domain

import "strings"

// AllCategories is the catalog selection that disables category filtering.
const AllCategories = "All"

// Categories lists AllCategories followed by each distinct, non-empty category
// name in the order it first appears in items.
func Categories(items []MenuItem) []string {
	names := []string{AllCategories}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		name := item.CategoryName()
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Filter returns the items belonging to category. An empty selection or
// AllCategories returns every item. The input slice is never modified.
func Filter(items []MenuItem, category string) []MenuItem {
	selected := strings.TrimSpace(category)
	if selected == "" || selected == AllCategories {
		out := make([]MenuItem, len(items))
		copy(out, items)
		return out
	}
	out := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if item.CategoryName() == selected {
			out = append(out, item)
		}
	}
	return out
}

// FindItem looks up a menu item by id.
func FindItem(items []MenuItem, id int) (MenuItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return MenuItem{}, false
}
