package transport

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"mesaYaMenu/internal/modules/owner/application/usecase"
	"mesaYaMenu/internal/modules/owner/domain"
	"mesaYaMenu/internal/modules/owner/infrastructure"
	"mesaYaMenu/internal/platform/storage"
	"mesaYaMenu/internal/shared/auth"
	"mesaYaMenu/internal/shared/httputil"
)

var errorMapper = httputil.NewErrorMapper().
	WithMapping(usecase.ErrDashboardNotFound, http.StatusNotFound, "").
	WithMapping(usecase.ErrDashboardBusy, http.StatusConflict, "").
	WithMapping(usecase.ErrInvalidRestaurantID, http.StatusBadRequest, "").
	WithMapping(storage.ErrInvalidNamespace, http.StatusBadRequest, "invalid device_id").
	WithMapping(domain.ErrInvalidAuthMode, http.StatusBadRequest, "").
	WithMapping(domain.ErrNotAuthenticated, http.StatusUnauthorized, "").
	WithMapping(domain.ErrDraftIncomplete, http.StatusUnprocessableEntity, "").
	WithMapping(domain.ErrRestaurantMissing, http.StatusUnprocessableEntity, "").
	WithMapping(domain.ErrNoMenuItems, http.StatusUnprocessableEntity, "").
	WithMapping(infrastructure.ErrMissingAccessToken, http.StatusBadGateway, "")

type openRequest struct {
	DeviceID string `json:"device_id"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

// OwnerHandler serves the owner dashboard API.
type OwnerHandler struct {
	dashboard *usecase.DashboardUseCase
	timeout   time.Duration
}

func NewOwnerHandler(dashboard *usecase.DashboardUseCase, timeout time.Duration) *OwnerHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OwnerHandler{dashboard: dashboard, timeout: timeout}
}

func (h *OwnerHandler) Register(g *echo.Group) {
	g.POST("/dashboards", h.OpenDashboard)
	g.GET("/dashboards/:dashboard", h.GetDashboard)
	g.PUT("/dashboards/:dashboard/auth/mode", h.SetMode)
	g.POST("/dashboards/:dashboard/auth/register", h.RegisterOwner)
	g.POST("/dashboards/:dashboard/auth/login", h.Login)
	g.POST("/dashboards/:dashboard/auth/logout", h.Logout)
	g.PUT("/dashboards/:dashboard/restaurant", h.SetRestaurant)
	g.POST("/dashboards/:dashboard/menu-items", h.AddMenuItem)
	g.DELETE("/dashboards/:dashboard/menu-items/:draftId", h.DeleteMenuItem)
	g.POST("/dashboards/:dashboard/save", h.Save)
	g.GET("/restaurants/:restaurantId/qr", h.DownloadQR)
}

func (h *OwnerHandler) withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), h.timeout)
}

func (h *OwnerHandler) OpenDashboard(c echo.Context) error {
	var req openRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
	}
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	view, err := h.dashboard.Open(ctx, req.DeviceID, auth.ExtractBearerToken(c.Request()))
	if err != nil {
		return errorMapper.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, view)
}

func (h *OwnerHandler) GetDashboard(c echo.Context) error {
	view, err := h.dashboard.View(c.Param("dashboard"))
	return respond(c, view, err)
}

func (h *OwnerHandler) SetMode(c echo.Context) error {
	var req modeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	view, err := h.dashboard.SetMode(c.Param("dashboard"), req.Mode)
	return respond(c, view, err)
}

func (h *OwnerHandler) RegisterOwner(c echo.Context) error {
	var creds domain.Credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx, cancel := h.withTimeout(c)
	defer cancel()
	view, err := h.dashboard.Register(ctx, c.Param("dashboard"), creds)
	return respond(c, view, err)
}

func (h *OwnerHandler) Login(c echo.Context) error {
	var creds domain.Credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	creds.Name = ""
	ctx, cancel := h.withTimeout(c)
	defer cancel()
	view, err := h.dashboard.Login(ctx, c.Param("dashboard"), creds)
	return respond(c, view, err)
}

func (h *OwnerHandler) Logout(c echo.Context) error {
	ctx, cancel := h.withTimeout(c)
	defer cancel()
	view, err := h.dashboard.Logout(ctx, c.Param("dashboard"))
	return respond(c, view, err)
}

func (h *OwnerHandler) SetRestaurant(c echo.Context) error {
	var req domain.RestaurantDraft
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	view, err := h.dashboard.SetRestaurant(c.Param("dashboard"), req)
	return respond(c, view, err)
}

func (h *OwnerHandler) AddMenuItem(c echo.Context) error {
	var req domain.DraftInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	view, err := h.dashboard.AddMenuItem(c.Request().Context(), c.Param("dashboard"), req)
	return respond(c, view, err)
}

func (h *OwnerHandler) DeleteMenuItem(c echo.Context) error {
	view, err := h.dashboard.DeleteMenuItem(c.Request().Context(), c.Param("dashboard"), c.Param("draftId"))
	return respond(c, view, err)
}

func (h *OwnerHandler) Save(c echo.Context) error {
	ctx, cancel := h.withTimeout(c)
	defer cancel()
	view, err := h.dashboard.Save(ctx, c.Param("dashboard"))
	return respond(c, view, err)
}

func (h *OwnerHandler) DownloadQR(c echo.Context) error {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	restaurantID := strings.TrimSpace(c.Param("restaurantId"))
	img, err := h.dashboard.FetchQR(ctx, restaurantID)
	if err != nil {
		return errorMapper.HTTPError(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "restaurant_"+restaurantID+"_qr.png"))
	return c.Blob(http.StatusOK, img.ContentType, img.Data)
}

func respond(c echo.Context, view usecase.DashboardView, err error) error {
	if err != nil {
		return errorMapper.HTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}
