package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"mesaYaMenu/internal/modules/owner/application/port"
	"mesaYaMenu/internal/modules/owner/domain"
	"mesaYaMenu/internal/platform/rest"
	"mesaYaMenu/internal/shared/normalization"
)

const maxQRCodeBytes = 2 << 20

type menuItemBody struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	CategoryID  int         `json:"category_id"`
	ImageURL    string      `json:"image_url"`
	IsAvailable bool        `json:"is_available"`
}

type restaurantBody struct {
	Name      string         `json:"name"`
	Address   string         `json:"address"`
	Phone     string         `json:"phone"`
	MenuItems []menuItemBody `json:"menu_items"`
}

func newRestaurantBody(restaurant domain.RestaurantDraft, items []domain.MenuItemDraft) restaurantBody {
	body := restaurantBody{
		Name:      restaurant.Name,
		Address:   restaurant.Address,
		Phone:     restaurant.Phone,
		MenuItems: make([]menuItemBody, 0, len(items)),
	}
	for _, item := range items {
		body.MenuItems = append(body.MenuItems, menuItemBody{
			Name:        item.Name,
			Description: item.Description,
			Price:       json.Number(item.Price.String()),
			CategoryID:  item.CategoryID,
			ImageURL:    item.ImageURL,
			IsAvailable: item.IsAvailable,
		})
	}
	return body
}

// RestaurantHTTPClient covers the owner endpoints of the order API: bulk
// restaurant save, category listing and QR codes.
type RestaurantHTTPClient struct {
	rest    *rest.Client
	timeout time.Duration
}

func NewRestaurantHTTPClient(baseURL string, timeout time.Duration, client *http.Client) *RestaurantHTTPClient {
	return &RestaurantHTTPClient{rest: rest.NewClient(baseURL, timeout, client), timeout: rest.TimeoutOrDefault(timeout)}
}

func (c *RestaurantHTTPClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func() {}
}

func (c *RestaurantHTTPClient) SaveRestaurantWithMenu(ctx context.Context, token string, restaurant domain.RestaurantDraft, items []domain.MenuItemDraft) (domain.SavedRestaurant, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := c.rest.NewJSONRequest(ctx, http.MethodPost, "/order/restaurants-with-menu", token, newRestaurantBody(restaurant, items))
	if err != nil {
		return domain.SavedRestaurant{}, err
	}
	res, err := c.rest.Do(req)
	if err != nil {
		slog.Error("restaurant save request error", slog.Any("error", err))
		return domain.SavedRestaurant{}, &rest.TransportError{Op: "restaurant save failed", Err: err}
	}
	defer res.Body.Close()

	if !rest.IsSuccess(res.StatusCode) {
		statusErr := rest.ReadStatusError(res)
		slog.Warn("restaurant save rejected", slog.Int("status", res.StatusCode), slog.String("detail", statusErr.Detail))
		return domain.SavedRestaurant{}, statusErr
	}

	payload, err := rest.DecodeJSON(res.Body)
	if err != nil {
		return domain.SavedRestaurant{}, err
	}
	data := normalization.MapFromPayload(payload)
	saved := domain.SavedRestaurant{
		ID:             normalization.AsInt(data["restaurant_id"]),
		Message:        normalization.AsString(data["message"]),
		MenuItemsCount: normalization.AsInt(data["menu_items_count"]),
	}
	if saved.MenuItemsCount == 0 {
		saved.MenuItemsCount = len(items)
	}
	slog.Info("restaurant saved", slog.Int("restaurantId", saved.ID), slog.Int("menuItems", saved.MenuItemsCount))
	return saved, nil
}

func (c *RestaurantHTTPClient) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := c.rest.NewRequest(ctx, http.MethodGet, "/order/get-categories", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.rest.Do(req)
	if err != nil {
		return nil, &rest.TransportError{Op: "categories request failed", Err: err}
	}
	defer res.Body.Close()
	if !rest.IsSuccess(res.StatusCode) {
		return nil, rest.ReadStatusError(res)
	}
	payload, err := rest.DecodeJSON(res.Body)
	if err != nil {
		return nil, err
	}
	return domain.BuildCategories(payload), nil
}

func (c *RestaurantHTTPClient) QRCodeURL(restaurantID int) string {
	return c.rest.URL("/order/generate-qr/" + strconv.Itoa(restaurantID))
}

func (c *RestaurantHTTPClient) FetchQRCode(ctx context.Context, restaurantID int) (port.QRImage, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := c.rest.NewRequest(ctx, http.MethodGet, "/order/generate-qr/"+strconv.Itoa(restaurantID), nil)
	if err != nil {
		return port.QRImage{}, err
	}
	res, err := c.rest.Do(req)
	if err != nil {
		return port.QRImage{}, &rest.TransportError{Op: "qr request failed", Err: err}
	}
	defer res.Body.Close()
	if !rest.IsSuccess(res.StatusCode) {
		return port.QRImage{}, rest.ReadStatusError(res)
	}
	data, err := io.ReadAll(io.LimitReader(res.Body, maxQRCodeBytes))
	if err != nil {
		return port.QRImage{}, fmt.Errorf("read qr code: %w", err)
	}
	contentType := res.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return port.QRImage{ContentType: contentType, Data: data}, nil
}

var (
	_ port.RestaurantGateway = (*RestaurantHTTPClient)(nil)
	_ port.CategoryFetcher   = (*RestaurantHTTPClient)(nil)
	_ port.QRCodeProvider    = (*RestaurantHTTPClient)(nil)
)
