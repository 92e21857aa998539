package domain

import (
	"github.com/shopspring/decimal"

	"mesaYaMenu/internal/shared/normalization"
)

// Category groups menu items; the API omits the id on customer-facing listings.
type Category struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
}

// MenuItem is a dish as served by the menu endpoint. Values are treated as immutable once fetched.
type MenuItem struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    *Category       `json:"category,omitempty"`
	ImageURL    string          `json:"image_url"`
	IsAvailable bool            `json:"is_available"`
}

// CategoryName returns the item's category name, or "" when uncategorised.
func (m MenuItem) CategoryName() string {
	if m.Category == nil {
		return ""
	}
	return m.Category.Name
}

// NormalizeMenuItem builds a MenuItem from a decoded JSON object. Items without an id are rejected.
func NormalizeMenuItem(raw map[string]any) (MenuItem, bool) {
	id := normalization.AsInt(raw["id"])
	if id <= 0 {
		return MenuItem{}, false
	}
	price, _ := normalization.AsDecimal(raw["price"])
	item := MenuItem{
		ID:          id,
		Name:        normalization.AsString(raw["name"]),
		Description: normalization.AsString(raw["description"]),
		Price:       price,
		ImageURL:    normalization.AsString(raw["image_url"]),
		IsAvailable: normalization.AsBool(raw["is_available"], true),
	}
	if rawCategory, ok := raw["category"].(map[string]any); ok {
		item.Category = &Category{
			ID:   normalization.AsInt(rawCategory["id"]),
			Name: normalization.AsString(rawCategory["name"]),
		}
	}
	return item, true
}

// BuildMenu projects an array payload into menu items, skipping malformed entries.
func BuildMenu(payload any) []MenuItem {
	rawItems := normalization.AsInterfaceSlice(payload)
	if len(rawItems) == 0 {
		rawItems = normalization.AsInterfaceSlice(normalization.MapFromPayload(payload)["items"])
	}
	items := make([]MenuItem, 0, len(rawItems))
	for _, entry := range rawItems {
		rawMap, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if item, ok := NormalizeMenuItem(rawMap); ok {
			items = append(items, item)
		}
	}
	return items
}
