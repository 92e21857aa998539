package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"mesaYaMenu/internal/modules/owner/application/port"
	"mesaYaMenu/internal/modules/owner/domain"
	realtimeport "mesaYaMenu/internal/modules/realtime/application/port"
	realtime "mesaYaMenu/internal/modules/realtime/domain"
	"mesaYaMenu/internal/platform/rest"
	"mesaYaMenu/internal/platform/storage"
	"mesaYaMenu/internal/shared/auth"
)

const (
	RegisteredText  = "Account created successfully! Please login."
	LoggedInText    = "Logged in successfully!"
	LoggedOutText   = "Logged out successfully!"
	ItemAddedText   = "Menu item added!"
	ItemDeletedText = "Menu item deleted!"
)

var ErrInvalidRestaurantID = errors.New("Invalid restaurant ID")

type MenuItemView struct {
	LocalID      string `json:"local_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Price        string `json:"price"`
	CategoryID   int    `json:"category_id"`
	CategoryName string `json:"category_name"`
	ImageURL     string `json:"image_url"`
	IsAvailable  bool   `json:"is_available"`
}

type DashboardStats struct {
	ItemCount      int `json:"item_count"`
	AvailableCount int `json:"available_count"`
}

// DashboardView is everything the owner page renders.
type DashboardView struct {
	DashboardID   string                  `json:"dashboard_id"`
	DeviceID      string                  `json:"device_id"`
	Mode          domain.AuthMode         `json:"mode"`
	Authenticated bool                    `json:"authenticated"`
	Restaurant    domain.RestaurantDraft  `json:"restaurant"`
	MenuItems     []MenuItemView          `json:"menu_items"`
	Categories    []domain.Category       `json:"categories"`
	Stats         DashboardStats          `json:"stats"`
	Saved         *domain.SavedRestaurant `json:"saved,omitempty"`
	QRCodeURL     string                  `json:"qr_code_url,omitempty"`
	Busy          bool                    `json:"busy"`
	Toast         *realtime.Toast         `json:"toast,omitempty"`
}

type DashboardUseCase struct {
	dashboards  *DashboardStore
	auth        port.AuthGateway
	restaurants port.RestaurantGateway
	categories  port.CategoryFetcher
	qr          port.QRCodeProvider
	storage     port.ClientStorage
	inspector   auth.TokenInspector
	notifier    realtimeport.PageNotifier
	newLocalID  func() string
}

type DashboardDeps struct {
	Dashboards  *DashboardStore
	Auth        port.AuthGateway
	Restaurants port.RestaurantGateway
	Categories  port.CategoryFetcher
	QR          port.QRCodeProvider
	Storage     port.ClientStorage
	Inspector   auth.TokenInspector
	Notifier    realtimeport.PageNotifier
}

func NewDashboardUseCase(deps DashboardDeps) *DashboardUseCase {
	return &DashboardUseCase{
		dashboards:  deps.Dashboards,
		auth:        deps.Auth,
		restaurants: deps.Restaurants,
		categories:  deps.Categories,
		qr:          deps.QR,
		storage:     deps.Storage,
		inspector:   deps.Inspector,
		notifier:    deps.Notifier,
		newLocalID:  uuid.NewString,
	}
}

// Open starts a dashboard for a device. A bearer token presented with the
// request wins and is persisted; otherwise the token the device stored earlier
// is restored. Expired or tampered JWTs are discarded either way.
func (uc *DashboardUseCase) Open(ctx context.Context, deviceID, bearer string) (DashboardView, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		deviceID = uuid.NewString()
	}

	token, err := uc.storage.Get(ctx, deviceID, domain.TokenStorageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		token = ""
	case err != nil:
		return DashboardView{}, err
	}
	if bearer = strings.TrimSpace(bearer); bearer != "" && uc.usable(bearer) {
		if err := uc.storage.Set(ctx, deviceID, domain.TokenStorageKey, bearer); err != nil {
			slog.Warn("token not persisted", slog.String("deviceId", deviceID), slog.Any("error", err))
		}
		token = bearer
	} else if token != "" && !uc.usable(token) {
		slog.Info("discarding stored token", slog.String("deviceId", deviceID))
		if err := uc.storage.Delete(ctx, deviceID, domain.TokenStorageKey); err != nil {
			slog.Warn("stored token delete failed", slog.String("deviceId", deviceID), slog.Any("error", err))
		}
		token = ""
	}

	categories, err := uc.categories.FetchCategories(ctx)
	if err != nil || len(categories) == 0 {
		slog.Warn("categories unavailable, using fallback", slog.Any("error", err))
		categories = domain.FallbackCategories()
	}

	dashboard := uc.dashboards.Create(deviceID)
	dashboard.mu.Lock()
	dashboard.token = token
	dashboard.categories = categories
	view := uc.viewLocked(dashboard)
	dashboard.mu.Unlock()

	slog.Info("dashboard opened", slog.String("dashboardId", dashboard.ID), slog.String("deviceId", deviceID), slog.Bool("authenticated", token != ""))
	return view, nil
}

func (uc *DashboardUseCase) View(dashboardID string) (DashboardView, error) {
	return uc.withDashboard(dashboardID, func(*Dashboard) error { return nil })
}

func (uc *DashboardUseCase) SetMode(dashboardID, rawMode string) (DashboardView, error) {
	mode, err := domain.ParseAuthMode(rawMode)
	if err != nil {
		return DashboardView{}, err
	}
	return uc.withDashboard(dashboardID, func(d *Dashboard) error {
		d.mode = mode
		return nil
	})
}

func (uc *DashboardUseCase) Register(ctx context.Context, dashboardID string, creds domain.Credentials) (DashboardView, error) {
	d, err := uc.acquire(dashboardID)
	if err != nil {
		return DashboardView{}, err
	}
	err = uc.auth.Register(ctx, creds)
	d.end()
	if err != nil {
		uc.toast(ctx, d.ID, realtime.ErrorToast(authFailure(err), realtime.ToastLong))
		return DashboardView{}, err
	}

	slog.Info("owner registered", slog.String("dashboardId", d.ID))
	uc.toast(ctx, d.ID, realtime.SuccessToast(RegisteredText, realtime.ToastLong))
	return uc.withDashboard(d.ID, func(d *Dashboard) error {
		d.mode = domain.AuthModeLogin
		return nil
	})
}

func (uc *DashboardUseCase) Login(ctx context.Context, dashboardID string, creds domain.Credentials) (DashboardView, error) {
	d, err := uc.acquire(dashboardID)
	if err != nil {
		return DashboardView{}, err
	}
	token, err := uc.auth.Login(ctx, creds)
	d.end()
	if err != nil {
		uc.toast(ctx, d.ID, realtime.ErrorToast(authFailure(err), realtime.ToastLong))
		return DashboardView{}, err
	}

	if err := uc.storage.Set(ctx, d.DeviceID, domain.TokenStorageKey, token); err != nil {
		slog.Warn("token not persisted", slog.String("dashboardId", d.ID), slog.Any("error", err))
	}
	slog.Info("owner logged in", slog.String("dashboardId", d.ID))
	uc.toast(ctx, d.ID, realtime.SuccessToast(LoggedInText, realtime.ToastLong))
	return uc.withDashboard(d.ID, func(d *Dashboard) error {
		d.token = token
		return nil
	})
}

func (uc *DashboardUseCase) Logout(ctx context.Context, dashboardID string) (DashboardView, error) {
	d, err := uc.dashboards.Get(dashboardID)
	if err != nil {
		return DashboardView{}, err
	}
	if err := uc.storage.Delete(ctx, d.DeviceID, domain.TokenStorageKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		slog.Warn("stored token delete failed", slog.String("dashboardId", d.ID), slog.Any("error", err))
	}
	uc.toast(ctx, d.ID, realtime.SuccessToast(LoggedOutText, realtime.ToastShort))
	return uc.withDashboard(d.ID, func(d *Dashboard) error {
		d.token = ""
		return nil
	})
}

func (uc *DashboardUseCase) SetRestaurant(dashboardID string, restaurant domain.RestaurantDraft) (DashboardView, error) {
	restaurant.Name = strings.TrimSpace(restaurant.Name)
	restaurant.Phone = strings.TrimSpace(restaurant.Phone)
	restaurant.Address = strings.TrimSpace(restaurant.Address)
	return uc.withDashboard(dashboardID, func(d *Dashboard) error {
		d.restaurant = restaurant
		return nil
	})
}

func (uc *DashboardUseCase) AddMenuItem(ctx context.Context, dashboardID string, in domain.DraftInput) (DashboardView, error) {
	d, err := uc.dashboards.Get(dashboardID)
	if err != nil {
		return DashboardView{}, err
	}
	draft, err := domain.NewMenuItemDraft(uc.newLocalID(), in)
	if err != nil {
		uc.toast(ctx, d.ID, realtime.ErrorToast(err.Error(), realtime.ToastShort))
		return DashboardView{}, err
	}
	uc.toast(ctx, d.ID, realtime.SuccessToast(ItemAddedText, realtime.ToastShort))
	return uc.withDashboard(d.ID, func(d *Dashboard) error {
		d.drafts = append(d.drafts, draft)
		return nil
	})
}

func (uc *DashboardUseCase) DeleteMenuItem(ctx context.Context, dashboardID, localID string) (DashboardView, error) {
	d, err := uc.dashboards.Get(dashboardID)
	if err != nil {
		return DashboardView{}, err
	}
	uc.toast(ctx, d.ID, realtime.SuccessToast(ItemDeletedText, realtime.ToastShort))
	return uc.withDashboard(d.ID, func(d *Dashboard) error {
		kept := d.drafts[:0]
		for _, draft := range d.drafts {
			if draft.LocalID != localID {
				kept = append(kept, draft)
			}
		}
		d.drafts = kept
		return nil
	})
}

// Save sends the staged restaurant and menu in one request. On success the
// uploaded drafts are dropped and the server identity replaces them; drafts
// staged while the request was in flight stay for the next save.
func (uc *DashboardUseCase) Save(ctx context.Context, dashboardID string) (DashboardView, error) {
	d, err := uc.dashboards.Get(dashboardID)
	if err != nil {
		return DashboardView{}, err
	}

	d.mu.Lock()
	token := d.token
	restaurant := d.restaurant
	drafts := append([]domain.MenuItemDraft(nil), d.drafts...)
	if token == "" {
		err = domain.ErrNotAuthenticated
	} else if err = domain.ValidateForSave(restaurant, drafts); err == nil {
		err = d.begin()
	}
	d.mu.Unlock()
	if err != nil {
		if !errors.Is(err, ErrDashboardBusy) {
			uc.toast(ctx, d.ID, realtime.ErrorToast(err.Error(), realtime.ToastShort))
		}
		return DashboardView{}, err
	}

	saved, err := uc.restaurants.SaveRestaurantWithMenu(ctx, token, restaurant, drafts)
	d.end()
	if err != nil {
		uc.toast(ctx, d.ID, realtime.ErrorToast(saveFailure(err), realtime.ToastLong))
		return DashboardView{}, err
	}

	slog.Info("restaurant saved from dashboard", slog.String("dashboardId", d.ID), slog.Int("restaurantId", saved.ID))
	uc.toast(ctx, d.ID, realtime.SuccessToast(saved.Message, realtime.ToastLong))
	return uc.withDashboard(d.ID, func(d *Dashboard) error {
		d.saved = &saved
		d.drafts = withoutUploaded(d.drafts, drafts)
		return nil
	})
}

func withoutUploaded(current, uploaded []domain.MenuItemDraft) []domain.MenuItemDraft {
	sent := make(map[string]struct{}, len(uploaded))
	for _, draft := range uploaded {
		sent[draft.LocalID] = struct{}{}
	}
	var kept []domain.MenuItemDraft
	for _, draft := range current {
		if _, ok := sent[draft.LocalID]; !ok {
			kept = append(kept, draft)
		}
	}
	return kept
}

// FetchQR passes the upstream QR image through.
func (uc *DashboardUseCase) FetchQR(ctx context.Context, rawRestaurantID string) (port.QRImage, error) {
	id, err := strconv.Atoi(strings.TrimSpace(rawRestaurantID))
	if err != nil || id <= 0 {
		return port.QRImage{}, ErrInvalidRestaurantID
	}
	return uc.qr.FetchQRCode(ctx, id)
}

// usable reports whether a token may still be sent upstream. Opaque tokens are
// left to the auth service to judge.
func (uc *DashboardUseCase) usable(token string) bool {
	if uc.inspector == nil {
		return true
	}
	_, err := uc.inspector.Inspect(token)
	return !errors.Is(err, auth.ErrTokenExpired) && !errors.Is(err, auth.ErrInvalidToken)
}

func (uc *DashboardUseCase) acquire(dashboardID string) (*Dashboard, error) {
	d, err := uc.dashboards.Get(dashboardID)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.begin(); err != nil {
		return nil, err
	}
	return d, nil
}

func (uc *DashboardUseCase) withDashboard(dashboardID string, mutate func(*Dashboard) error) (DashboardView, error) {
	d, err := uc.dashboards.Get(dashboardID)
	if err != nil {
		return DashboardView{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := mutate(d); err != nil {
		return DashboardView{}, err
	}
	return uc.viewLocked(d), nil
}

func (uc *DashboardUseCase) viewLocked(d *Dashboard) DashboardView {
	view := DashboardView{
		DashboardID:   d.ID,
		DeviceID:      d.DeviceID,
		Mode:          d.mode,
		Authenticated: d.token != "",
		Restaurant:    d.restaurant,
		MenuItems:     make([]MenuItemView, 0, len(d.drafts)),
		Categories:    d.categories,
		Stats: DashboardStats{
			ItemCount:      len(d.drafts),
			AvailableCount: domain.AvailableCount(d.drafts),
		},
		Busy: d.busy,
	}
	for _, draft := range d.drafts {
		view.MenuItems = append(view.MenuItems, MenuItemView{
			LocalID:      draft.LocalID,
			Name:         draft.Name,
			Description:  draft.Description,
			Price:        draft.Price.StringFixed(2),
			CategoryID:   draft.CategoryID,
			CategoryName: domain.CategoryName(d.categories, draft.CategoryID),
			ImageURL:     draft.ImageURL,
			IsAvailable:  draft.IsAvailable,
		})
	}
	if d.saved != nil {
		saved := *d.saved
		view.Saved = &saved
		if uc.qr != nil {
			view.QRCodeURL = uc.qr.QRCodeURL(saved.ID)
		}
	}
	if uc.notifier != nil {
		view.Toast = uc.notifier.CurrentToast(d.ID)
	}
	return view
}

func (uc *DashboardUseCase) toast(ctx context.Context, dashboardID string, toast realtime.Toast) {
	if uc.notifier != nil {
		uc.notifier.ShowToast(ctx, dashboardID, toast)
	}
}

func authFailure(err error) string {
	var statusErr *rest.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	return "Auth failed: " + rest.Message(err)
}

func saveFailure(err error) string {
	var statusErr *rest.StatusError
	if errors.As(err, &statusErr) {
		return "Error: " + statusErr.Error()
	}
	return "Save failed: " + rest.Message(err)
}
