package domain

import "mesaYaMenu/internal/shared/normalization"

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

const UnknownCategory = "Unknown"

// FallbackCategories is used whenever the category endpoint cannot be read.
func FallbackCategories() []Category {
	return []Category{
		{ID: 1, Name: "Appetizers"},
		{ID: 2, Name: "Main Course"},
		{ID: 3, Name: "Desserts"},
		{ID: 4, Name: "Beverages"},
		{ID: 5, Name: "Salads"},
		{ID: 6, Name: "Soups"},
	}
}

func CategoryName(categories []Category, id int) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return UnknownCategory
}

// BuildCategories projects a decoded array payload, skipping entries without an id.
func BuildCategories(payload any) []Category {
	raw := normalization.AsInterfaceSlice(payload)
	out := make([]Category, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id := normalization.AsInt(m["id"])
		if id <= 0 {
			continue
		}
		out = append(out, Category{ID: id, Name: normalization.AsString(m["name"])})
	}
	return out
}
