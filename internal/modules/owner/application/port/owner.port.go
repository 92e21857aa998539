package port

import (
	"context"

	"mesaYaMenu/internal/modules/owner/domain"
)

type AuthGateway interface {
	Register(ctx context.Context, creds domain.Credentials) error
	// Login returns the bearer token issued for the credentials.
	Login(ctx context.Context, creds domain.Credentials) (string, error)
}

type RestaurantGateway interface {
	SaveRestaurantWithMenu(ctx context.Context, token string, restaurant domain.RestaurantDraft, items []domain.MenuItemDraft) (domain.SavedRestaurant, error)
}

type CategoryFetcher interface {
	FetchCategories(ctx context.Context) ([]domain.Category, error)
}

// QRImage is an upstream QR code passed through untouched.
type QRImage struct {
	ContentType string
	Data        []byte
}

type QRCodeProvider interface {
	QRCodeURL(restaurantID int) string
	FetchQRCode(ctx context.Context, restaurantID int) (QRImage, error)
}

// ClientStorage is the durable per-device key/value store.
type ClientStorage interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
}
