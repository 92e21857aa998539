package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"mesaYaMenu/internal/modules/ordering/application/port"
	"mesaYaMenu/internal/modules/ordering/domain"
	realtimeport "mesaYaMenu/internal/modules/realtime/application/port"
	realtime "mesaYaMenu/internal/modules/realtime/domain"
	"mesaYaMenu/internal/platform/rest"
)

var (
	ErrInvalidRestaurantID = errors.New("Invalid restaurant ID")
	ErrUnknownMenuItem     = errors.New("menu item not found")
	ErrMenuItemUnavailable = errors.New("Out of Stock")
)

type CartLineView struct {
	MenuItemID int    `json:"menu_item_id"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	Quantity   int    `json:"quantity"`
	LineTotal  string `json:"line_total"`
}

type CartView struct {
	Lines     []CartLineView `json:"lines"`
	Subtotal  string         `json:"subtotal"`
	Tax       string         `json:"tax"`
	Total     string         `json:"total"`
	ItemCount int            `json:"item_count"`
}

// SessionView is everything the menu page renders for one session.
type SessionView struct {
	SessionID        string                   `json:"session_id"`
	Restaurant       domain.RestaurantContext `json:"restaurant"`
	Categories       []string                 `json:"categories"`
	SelectedCategory string                   `json:"selected_category"`
	Menu             []domain.MenuItem        `json:"menu"`
	MenuEmpty        bool                     `json:"menu_empty"`
	MenuError        string                   `json:"menu_error,omitempty"`
	Cart             CartView                 `json:"cart"`
	CartOpen         bool                     `json:"cart_open"`
	Customer         domain.CustomerInfo      `json:"customer"`
	Toast            *realtime.Toast          `json:"toast,omitempty"`
}

// CustomerPageUseCase drives the menu, cart and details form of customer sessions.
type CustomerPageUseCase struct {
	sessions    *SessionStore
	catalog     *MenuCatalog
	restaurants port.RestaurantResolver
	notifier    realtimeport.PageNotifier
}

func NewCustomerPageUseCase(sessions *SessionStore, catalog *MenuCatalog, restaurants port.RestaurantResolver, notifier realtimeport.PageNotifier) *CustomerPageUseCase {
	return &CustomerPageUseCase{sessions: sessions, catalog: catalog, restaurants: restaurants, notifier: notifier}
}

// ParseRestaurantID accepts only positive integer ids.
func ParseRestaurantID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, ErrInvalidRestaurantID
	}
	return id, nil
}

// Open starts a session on a restaurant's menu. A menu that cannot be loaded is
// reported in the view rather than failing the session.
func (uc *CustomerPageUseCase) Open(ctx context.Context, rawRestaurantID string) (SessionView, error) {
	restaurantID, err := ParseRestaurantID(rawRestaurantID)
	if err != nil {
		return SessionView{}, err
	}
	restaurant, err := uc.restaurants.ResolveRestaurant(ctx, restaurantID)
	if err != nil {
		return SessionView{}, fmt.Errorf("resolve restaurant %d: %w", restaurantID, err)
	}

	session := uc.sessions.Create(restaurant)
	menu, err := uc.catalog.Load(ctx, restaurantID)

	session.mu.Lock()
	if err != nil {
		slog.Warn("menu load failed", slog.String("sessionId", session.ID), slog.Int("restaurantId", restaurantID), slog.Any("error", err))
		session.menuError = rest.Message(err)
	} else {
		session.menu = menu
	}
	view := uc.viewLocked(session, domain.AllCategories)
	session.mu.Unlock()

	slog.Info("customer session opened", slog.String("sessionId", session.ID), slog.Int("restaurantId", restaurantID), slog.Int("menuItems", len(menu)))
	return view, nil
}

func (uc *CustomerPageUseCase) View(sessionID, category string) (SessionView, error) {
	return uc.withSession(sessionID, category, func(*CustomerSession) error { return nil })
}

func (uc *CustomerPageUseCase) UpdateDetails(sessionID string, customer domain.CustomerInfo) (SessionView, error) {
	return uc.withSession(sessionID, "", func(s *CustomerSession) error {
		s.customer = customer
		return nil
	})
}

func (uc *CustomerPageUseCase) SetCartOpen(sessionID string, open bool) (SessionView, error) {
	return uc.withSession(sessionID, "", func(s *CustomerSession) error {
		s.cartOpen = open
		return nil
	})
}

func (uc *CustomerPageUseCase) AddToCart(sessionID string, menuItemID int) (SessionView, error) {
	return uc.withSession(sessionID, "", func(s *CustomerSession) error {
		item, ok := domain.FindItem(s.menu, menuItemID)
		if !ok {
			return ErrUnknownMenuItem
		}
		if !item.IsAvailable {
			return ErrMenuItemUnavailable
		}
		s.cart.AddItem(item)
		return nil
	})
}

func (uc *CustomerPageUseCase) ChangeQuantity(sessionID string, menuItemID, delta int) (SessionView, error) {
	return uc.withSession(sessionID, "", func(s *CustomerSession) error {
		s.cart.UpdateQuantity(menuItemID, delta)
		return nil
	})
}

func (uc *CustomerPageUseCase) RemoveFromCart(sessionID string, menuItemID int) (SessionView, error) {
	return uc.withSession(sessionID, "", func(s *CustomerSession) error {
		s.cart.RemoveItem(menuItemID)
		return nil
	})
}

func (uc *CustomerPageUseCase) withSession(sessionID, category string, mutate func(*CustomerSession) error) (SessionView, error) {
	session, err := uc.sessions.Get(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if err := mutate(session); err != nil {
		return SessionView{}, err
	}
	return uc.viewLocked(session, category), nil
}

func (uc *CustomerPageUseCase) viewLocked(s *CustomerSession, category string) SessionView {
	if strings.TrimSpace(category) == "" {
		category = domain.AllCategories
	}
	view := SessionView{
		SessionID:        s.ID,
		Restaurant:       s.Restaurant,
		Categories:       domain.Categories(s.menu),
		SelectedCategory: category,
		Menu:             domain.Filter(s.menu, category),
		MenuEmpty:        s.menuError == "" && len(s.menu) == 0,
		MenuError:        s.menuError,
		Cart:             NewCartView(s.cart),
		CartOpen:         s.cartOpen,
		Customer:         s.customer,
	}
	if uc.notifier != nil {
		view.Toast = uc.notifier.CurrentToast(s.ID)
	}
	return view
}

func NewCartView(cart *domain.Cart) CartView {
	lines := cart.Lines()
	view := CartView{
		Lines:     make([]CartLineView, 0, len(lines)),
		Subtotal:  money(cart.Subtotal()),
		Tax:       money(cart.Tax()),
		Total:     money(cart.Total()),
		ItemCount: cart.TotalItemCount(),
	}
	for _, line := range lines {
		view.Lines = append(view.Lines, CartLineView{
			MenuItemID: line.Item.ID,
			Name:       line.Item.Name,
			Price:      money(line.Item.Price),
			Quantity:   line.Quantity,
			LineTotal:  money(line.LineTotal()),
		})
	}
	return view
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
