package transport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"mesaYaMenu/internal/modules/ordering/application/port"
	"mesaYaMenu/internal/modules/ordering/application/usecase"
	"mesaYaMenu/internal/modules/ordering/domain"
	"mesaYaMenu/internal/shared/httputil"
)

var errorMapper = httputil.NewErrorMapper().
	WithMapping(usecase.ErrInvalidRestaurantID, http.StatusBadRequest, "").
	WithMapping(usecase.ErrSessionNotFound, http.StatusNotFound, "").
	WithMapping(usecase.ErrUnknownMenuItem, http.StatusNotFound, "").
	WithMapping(usecase.ErrMenuItemUnavailable, http.StatusUnprocessableEntity, "").
	WithMapping(port.ErrMenuNotFound, http.StatusNotFound, "").
	WithMapping(domain.ErrEmptyCart, http.StatusUnprocessableEntity, "").
	WithMapping(domain.ErrRestaurantContactMissing, http.StatusUnprocessableEntity, "")

type detailsRequest struct {
	CustomerName   string `json:"customer_name"`
	CustomerMobile string `json:"customer_mobile"`
	TableNumber    string `json:"table_number"`
}

type visibilityRequest struct {
	Open bool `json:"open"`
}

type addItemRequest struct {
	MenuItemID int `json:"menu_item_id"`
}

type quantityRequest struct {
	Delta int `json:"delta"`
}

// CustomerHandler serves the menu page API.
type CustomerHandler struct {
	page    *usecase.CustomerPageUseCase
	submit  *usecase.SubmitOrderUseCase
	timeout time.Duration
}

func NewCustomerHandler(page *usecase.CustomerPageUseCase, submit *usecase.SubmitOrderUseCase, timeout time.Duration) *CustomerHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CustomerHandler{page: page, submit: submit, timeout: timeout}
}

func (h *CustomerHandler) Register(g *echo.Group) {
	g.POST("/restaurants/:restaurantId/sessions", h.OpenSession)
	g.GET("/sessions/:session", h.GetSession)
	g.PUT("/sessions/:session/details", h.UpdateDetails)
	g.PUT("/sessions/:session/cart/visibility", h.SetCartVisibility)
	g.POST("/sessions/:session/cart/items", h.AddItem)
	g.PATCH("/sessions/:session/cart/items/:itemId", h.ChangeQuantity)
	g.DELETE("/sessions/:session/cart/items/:itemId", h.RemoveItem)
	g.POST("/sessions/:session/orders", h.SubmitOrder)
}

func (h *CustomerHandler) OpenSession(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	view, err := h.page.Open(ctx, c.Param("restaurantId"))
	if err != nil {
		return errorMapper.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, view)
}

func (h *CustomerHandler) GetSession(c echo.Context) error {
	view, err := h.page.View(c.Param("session"), c.QueryParam("category"))
	if err != nil {
		return errorMapper.HTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CustomerHandler) UpdateDetails(c echo.Context) error {
	var req detailsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	view, err := h.page.UpdateDetails(c.Param("session"), domain.CustomerInfo{
		Name:        strings.TrimSpace(req.CustomerName),
		Mobile:      strings.TrimSpace(req.CustomerMobile),
		TableNumber: strings.TrimSpace(req.TableNumber),
	})
	if err != nil {
		return errorMapper.HTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CustomerHandler) SetCartVisibility(c echo.Context) error {
	var req visibilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	view, err := h.page.SetCartOpen(c.Param("session"), req.Open)
	if err != nil {
		return errorMapper.HTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CustomerHandler) AddItem(c echo.Context) error {
	var req addItemRequest
	if err := c.Bind(&req); err != nil || req.MenuItemID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "menu_item_id is required")
	}
	view, err := h.page.AddToCart(c.Param("session"), req.MenuItemID)
	if err != nil {
		return errorMapper.HTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CustomerHandler) ChangeQuantity(c echo.Context) error {
	itemID, err := itemParam(c)
	if err != nil {
		return err
	}
	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	view, err := h.page.ChangeQuantity(c.Param("session"), itemID, req.Delta)
	if err != nil {
		return errorMapper.HTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CustomerHandler) RemoveItem(c echo.Context) error {
	itemID, err := itemParam(c)
	if err != nil {
		return err
	}
	view, err := h.page.RemoveFromCart(c.Param("session"), itemID)
	if err != nil {
		return errorMapper.HTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CustomerHandler) SubmitOrder(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	sessionID := c.Param("session")
	result, err := h.submit.Execute(ctx, sessionID)
	if err != nil {
		slog.Warn("order submission rejected", slog.String("sessionId", sessionID), slog.Any("error", err))
		return errorMapper.HTTPError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func itemParam(c echo.Context) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(c.Param("itemId")))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid menu item id")
	}
	return id, nil
}
