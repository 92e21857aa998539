package infrastructure

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"mesaYaMenu/internal/modules/ordering/application/port"
	"mesaYaMenu/internal/modules/ordering/domain"
	"mesaYaMenu/internal/platform/rest"
)

// MenuHTTPClient implements MenuFetcher against GET /order/menu-items/{restaurantId}.
type MenuHTTPClient struct {
	rest    *rest.Client
	timeout time.Duration
}

func NewMenuHTTPClient(baseURL string, timeout time.Duration, client *http.Client) *MenuHTTPClient {
	return &MenuHTTPClient{rest: rest.NewClient(baseURL, timeout, client), timeout: rest.TimeoutOrDefault(timeout)}
}

func (c *MenuHTTPClient) FetchMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	path := "/order/menu-items/" + strconv.Itoa(restaurantID)
	req, err := c.rest.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		slog.Error("menu request build failed", slog.String("path", path), slog.Any("error", err))
		return nil, err
	}
	req.Header.Set("accept", "application/json")

	slog.Debug("menu request", slog.String("url", req.URL.String()))
	res, err := c.rest.Do(req)
	if err != nil {
		slog.Error("menu request error", slog.Int("restaurantId", restaurantID), slog.Any("error", err))
		return nil, &rest.TransportError{Op: "menu request failed", Err: err}
	}
	defer res.Body.Close()
	slog.Debug("menu response", slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()))

	if res.StatusCode == http.StatusNotFound {
		return nil, port.ErrMenuNotFound
	}
	if !rest.IsSuccess(res.StatusCode) {
		statusErr := rest.ReadStatusError(res)
		slog.Error("menu fetch unexpected status", slog.Int("status", res.StatusCode), slog.Int("restaurantId", restaurantID))
		// the page reports the bare status, never the server detail
		return nil, &rest.StatusError{Status: statusErr.Status}
	}

	payload, err := rest.DecodeJSON(res.Body)
	if err != nil {
		return nil, err
	}
	items := domain.BuildMenu(payload)
	slog.Info("menu fetched", slog.Int("restaurantId", restaurantID), slog.Int("items", len(items)))
	return items, nil
}

var _ port.MenuFetcher = (*MenuHTTPClient)(nil)
