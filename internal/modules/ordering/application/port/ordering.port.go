package port

import (
	"context"
	"errors"

	"mesaYaMenu/internal/modules/ordering/domain"
)

var ErrMenuNotFound = errors.New("Menu not found for this restaurant")

// MenuFetcher loads the published menu of a restaurant.
type MenuFetcher interface {
	FetchMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error)
}

// OrderSender persists an order upstream. Failures are reported, never retried.
type OrderSender interface {
	SendOrder(ctx context.Context, payload domain.OrderPayload) error
}

// RestaurantResolver supplies the contact details an order is sent to.
type RestaurantResolver interface {
	ResolveRestaurant(ctx context.Context, restaurantID int) (domain.RestaurantContext, error)
}
