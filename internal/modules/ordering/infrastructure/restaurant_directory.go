package infrastructure

import (
	"context"

	"mesaYaMenu/internal/config"
	"mesaYaMenu/internal/modules/ordering/application/port"
	"mesaYaMenu/internal/modules/ordering/domain"
)

// RestaurantDirectory resolves contact details from configuration; the upstream
// API exposes no restaurant lookup for guests.
type RestaurantDirectory struct {
	entries config.RestaurantDirectory
}

func NewRestaurantDirectory(entries config.RestaurantDirectory) *RestaurantDirectory {
	return &RestaurantDirectory{entries: entries}
}

func (d *RestaurantDirectory) ResolveRestaurant(_ context.Context, restaurantID int) (domain.RestaurantContext, error) {
	contact := d.entries.Lookup(restaurantID)
	return domain.RestaurantContext{
		ID:      restaurantID,
		Name:    contact.Name,
		Phone:   contact.Phone,
		Address: contact.Address,
	}, nil
}

var _ port.RestaurantResolver = (*RestaurantDirectory)(nil)
