package domain

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrDraftIncomplete   = errors.New("Please fill all required fields")
	ErrRestaurantMissing = errors.New("Please enter restaurant details.")
	ErrNoMenuItems       = errors.New("Please add at least one menu item.")
)

// RestaurantDraft is the restaurant record staged on the dashboard.
type RestaurantDraft struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// DraftInput is the raw menu item form. Price and category arrive as typed text.
type DraftInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	CategoryID  string `json:"category_id"`
	ImageURL    string `json:"image_url"`
	IsAvailable *bool  `json:"is_available"`
}

// MenuItemDraft is a staged menu item. LocalID only identifies it on the
// dashboard; the server assigns real ids on save.
type MenuItemDraft struct {
	LocalID     string          `json:"local_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int             `json:"category_id"`
	ImageURL    string          `json:"image_url"`
	IsAvailable bool            `json:"is_available"`
}

// NewMenuItemDraft validates the form. Name, price and category are required;
// the price must be a non-negative number and the category an integer id.
func NewMenuItemDraft(localID string, in DraftInput) (MenuItemDraft, error) {
	name := strings.TrimSpace(in.Name)
	rawPrice := strings.TrimSpace(in.Price)
	rawCategory := strings.TrimSpace(in.CategoryID)
	if name == "" || rawPrice == "" || rawCategory == "" {
		return MenuItemDraft{}, ErrDraftIncomplete
	}
	price, err := decimal.NewFromString(rawPrice)
	if err != nil || price.IsNegative() {
		return MenuItemDraft{}, ErrDraftIncomplete
	}
	categoryID, err := strconv.Atoi(rawCategory)
	if err != nil {
		return MenuItemDraft{}, ErrDraftIncomplete
	}
	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	return MenuItemDraft{
		LocalID:     localID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       price,
		CategoryID:  categoryID,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		IsAvailable: available,
	}, nil
}

// AvailableCount counts drafts marked available.
func AvailableCount(drafts []MenuItemDraft) int {
	n := 0
	for _, d := range drafts {
		if d.IsAvailable {
			n++
		}
	}
	return n
}

// ValidateForSave reports what is still missing before a bulk save.
func ValidateForSave(restaurant RestaurantDraft, drafts []MenuItemDraft) error {
	if strings.TrimSpace(restaurant.Name) == "" {
		return ErrRestaurantMissing
	}
	if len(drafts) == 0 {
		return ErrNoMenuItems
	}
	return nil
}

// SavedRestaurant is the server identity returned by a successful bulk save.
type SavedRestaurant struct {
	ID             int    `json:"restaurant_id"`
	Message        string `json:"message"`
	MenuItemsCount int    `json:"menu_items_count"`
}
