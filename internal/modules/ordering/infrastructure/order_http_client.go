package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"mesaYaMenu/internal/modules/ordering/application/port"
	"mesaYaMenu/internal/modules/ordering/domain"
	"mesaYaMenu/internal/platform/rest"
)

type orderItemBody struct {
	MenuItemID int         `json:"menu_item_id"`
	Quantity   int         `json:"quantity"`
	Price      json.Number `json:"price"`
}

type orderBody struct {
	RestaurantID   int             `json:"restaurant_id"`
	TableNumber    int             `json:"table_number"`
	TotalAmount    json.Number     `json:"total_amount"`
	Status         string          `json:"status"`
	CustomerName   string          `json:"customer_name"`
	CustomerMobile string          `json:"customer_mobile"`
	OrderItems     []orderItemBody `json:"order_items"`
}

func newOrderBody(payload domain.OrderPayload) orderBody {
	items := make([]orderItemBody, 0, len(payload.Items))
	for _, line := range payload.Items {
		items = append(items, orderItemBody{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			Price:      json.Number(line.Price.String()),
		})
	}
	return orderBody{
		RestaurantID:   payload.RestaurantID,
		TableNumber:    payload.TableNumber,
		TotalAmount:    json.Number(payload.TotalAmount.String()),
		Status:         payload.Status,
		CustomerName:   payload.CustomerName,
		CustomerMobile: payload.CustomerMobile,
		OrderItems:     items,
	}
}

// OrderHTTPClient implements OrderSender against POST /order/orders.
type OrderHTTPClient struct {
	rest    *rest.Client
	timeout time.Duration
}

func NewOrderHTTPClient(baseURL string, timeout time.Duration, client *http.Client) *OrderHTTPClient {
	return &OrderHTTPClient{rest: rest.NewClient(baseURL, timeout, client), timeout: rest.TimeoutOrDefault(timeout)}
}

func (c *OrderHTTPClient) SendOrder(ctx context.Context, payload domain.OrderPayload) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := c.rest.NewJSONRequest(ctx, http.MethodPost, "/order/orders", "", newOrderBody(payload))
	if err != nil {
		return err
	}
	res, err := c.rest.Do(req)
	if err != nil {
		slog.Error("order request error", slog.Int("restaurantId", payload.RestaurantID), slog.Any("error", err))
		return &rest.TransportError{Op: "order request failed", Err: err}
	}
	defer res.Body.Close()

	if !rest.IsSuccess(res.StatusCode) {
		statusErr := rest.ReadStatusError(res)
		slog.Error("order rejected", slog.Int("status", res.StatusCode), slog.Int("restaurantId", payload.RestaurantID), slog.String("detail", statusErr.Detail))
		return &rest.StatusError{Status: statusErr.Status}
	}
	slog.Info("order persisted", slog.Int("restaurantId", payload.RestaurantID), slog.Int("lines", len(payload.Items)))
	return nil
}

var _ port.OrderSender = (*OrderHTTPClient)(nil)
