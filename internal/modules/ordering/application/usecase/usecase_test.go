package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mesaYaMenu/internal/modules/ordering/application/port"
	"mesaYaMenu/internal/modules/ordering/domain"
	realtime "mesaYaMenu/internal/modules/realtime/domain"
	"mesaYaMenu/internal/platform/rest"
)

type fakeFetcher struct {
	items []domain.MenuItem
	err   error
	calls int
}

func (f *fakeFetcher) FetchMenu(_ context.Context, _ int) ([]domain.MenuItem, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type fakeSender struct {
	payloads []domain.OrderPayload
	err      error
}

func (f *fakeSender) SendOrder(_ context.Context, payload domain.OrderPayload) error {
	f.payloads = append(f.payloads, payload)
	return f.err
}

type fixedResolver struct {
	contact domain.RestaurantContext
}

func (r fixedResolver) ResolveRestaurant(_ context.Context, id int) (domain.RestaurantContext, error) {
	c := r.contact
	c.ID = id
	return c, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	toasts []realtime.Toast
	links  []string
}

func (n *recordingNotifier) ShowToast(_ context.Context, _ string, toast realtime.Toast) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, toast)
}

func (n *recordingNotifier) CurrentToast(string) *realtime.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.toasts) == 0 {
		return nil
	}
	t := n.toasts[len(n.toasts)-1]
	return &t
}

func (n *recordingNotifier) OpenLink(_ context.Context, _ string, link string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.links = append(n.links, link)
}

func sampleMenu() []domain.MenuItem {
	return []domain.MenuItem{
		{ID: 1, Name: "Samosa", Price: decimal.RequireFromString("4.50"), Category: &domain.Category{Name: "Appetizers"}, IsAvailable: true},
		{ID: 2, Name: "Paneer Tikka", Price: decimal.RequireFromString("12.25"), Category: &domain.Category{Name: "Main Course"}, IsAvailable: true},
		{ID: 3, Name: "Kulfi", Price: decimal.RequireFromString("3.00"), Category: &domain.Category{Name: "Desserts"}, IsAvailable: true},
	}
}

type fixture struct {
	fetcher  *fakeFetcher
	sender   *fakeSender
	notifier *recordingNotifier
	sessions *SessionStore
	page     *CustomerPageUseCase
	submit   *SubmitOrderUseCase
}

func newFixture(phone string) *fixture {
	f := &fixture{
		fetcher:  &fakeFetcher{items: sampleMenu()},
		sender:   &fakeSender{},
		notifier: &recordingNotifier{},
		sessions: NewSessionStore(),
	}
	resolver := fixedResolver{contact: domain.RestaurantContext{Name: "Spice Hut", Phone: phone}}
	f.page = NewCustomerPageUseCase(f.sessions, NewMenuCatalog(f.fetcher), resolver, f.notifier)
	f.submit = NewSubmitOrderUseCase(f.sessions, f.sender, f.notifier)
	return f
}

func TestOpenRejectsInvalidRestaurantID(t *testing.T) {
	f := newFixture("9876543210")
	for _, raw := range []string{"", "abc", "0", "-4", "1.5"} {
		if _, err := f.page.Open(context.Background(), raw); !errors.Is(err, ErrInvalidRestaurantID) {
			t.Fatalf("Open(%q) expected ErrInvalidRestaurantID, got %v", raw, err)
		}
	}
	if f.fetcher.calls != 0 {
		t.Fatalf("expected no fetches, got %d", f.fetcher.calls)
	}
}

func TestOpenBuildsCategoriesAndFilters(t *testing.T) {
	f := newFixture("9876543210")
	view, err := f.page.Open(context.Background(), "12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(view.Categories, ",") != "All,Appetizers,Main Course,Desserts" {
		t.Fatalf("unexpected categories %v", view.Categories)
	}
	if view.Restaurant.ID != 12 || len(view.Menu) != 3 || view.MenuEmpty {
		t.Fatalf("unexpected view %#v", view)
	}

	filtered, err := f.page.View(view.SessionID, "Desserts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered.Menu) != 1 || filtered.Menu[0].ID != 3 {
		t.Fatalf("unexpected filtered menu %#v", filtered.Menu)
	}
}

func TestOpenReportsMenuErrorsInView(t *testing.T) {
	f := newFixture("9876543210")
	f.fetcher.err = port.ErrMenuNotFound
	view, err := f.page.Open(context.Background(), "5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.MenuError != "Menu not found for this restaurant" || view.MenuEmpty {
		t.Fatalf("unexpected view %#v", view)
	}

	f.fetcher.err = nil
	f.fetcher.items = nil
	empty, _ := f.page.Open(context.Background(), "5")
	if !empty.MenuEmpty || empty.MenuError != "" {
		t.Fatalf("expected empty menu state, got %#v", empty)
	}
}

func TestCartOperationsThroughSession(t *testing.T) {
	f := newFixture("9876543210")
	view, _ := f.page.Open(context.Background(), "1")
	id := view.SessionID

	f.page.AddToCart(id, 2)
	f.page.AddToCart(id, 2)
	view, _ = f.page.AddToCart(id, 1)
	if view.Cart.ItemCount != 3 || view.Cart.Subtotal != "29.00" || view.Cart.Tax != "2.32" || view.Cart.Total != "31.32" {
		t.Fatalf("unexpected cart %#v", view.Cart)
	}
	if view.Cart.Lines[0].MenuItemID != 2 || view.Cart.Lines[0].Quantity != 2 {
		t.Fatalf("expected insertion order, got %#v", view.Cart.Lines)
	}

	view, _ = f.page.ChangeQuantity(id, 2, -2)
	if len(view.Cart.Lines) != 1 || view.Cart.Lines[0].MenuItemID != 1 {
		t.Fatalf("expected line removed at zero, got %#v", view.Cart.Lines)
	}
	view, _ = f.page.RemoveFromCart(id, 1)
	if len(view.Cart.Lines) != 0 || view.Cart.Total != "0.00" {
		t.Fatalf("expected empty cart, got %#v", view.Cart)
	}

	if _, err := f.page.AddToCart(id, 99); !errors.Is(err, ErrUnknownMenuItem) {
		t.Fatalf("expected ErrUnknownMenuItem, got %v", err)
	}
	if _, err := f.page.View("nope", ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSubmitOrderEmptyCartMakesNoRequest(t *testing.T) {
	f := newFixture("9876543210")
	view, _ := f.page.Open(context.Background(), "1")

	_, err := f.submit.Execute(context.Background(), view.SessionID)
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if len(f.sender.payloads) != 0 || len(f.notifier.links) != 0 {
		t.Fatal("expected no order request and no link")
	}
}

func TestSubmitOrderMissingPhone(t *testing.T) {
	f := newFixture("  ")
	view, _ := f.page.Open(context.Background(), "1")
	f.page.AddToCart(view.SessionID, 1)

	_, err := f.submit.Execute(context.Background(), view.SessionID)
	if !errors.Is(err, domain.ErrRestaurantContactMissing) {
		t.Fatalf("expected ErrRestaurantContactMissing, got %v", err)
	}
	if len(f.sender.payloads) != 0 {
		t.Fatal("expected no order request")
	}
}

func TestSubmitOrderSuccess(t *testing.T) {
	f := newFixture("09876543210")
	view, _ := f.page.Open(context.Background(), "12")
	id := view.SessionID
	f.page.UpdateDetails(id, domain.CustomerInfo{Name: "Asha", TableNumber: "7"})
	f.page.AddToCart(id, 2)
	f.page.AddToCart(id, 2)
	f.page.SetCartOpen(id, true)

	result, err := f.submit.Execute(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Persisted || result.Warning != "" {
		t.Fatalf("expected persisted order, got %#v", result)
	}
	if len(f.sender.payloads) != 1 {
		t.Fatalf("expected one order request, got %d", len(f.sender.payloads))
	}
	payload := f.sender.payloads[0]
	if payload.RestaurantID != 12 || payload.TableNumber != 7 || !payload.TotalAmount.Equal(decimal.RequireFromString("26.46")) {
		t.Fatalf("unexpected payload %#v", payload)
	}
	if result.Phone != "919876543210" || !strings.HasPrefix(result.DeepLink, "https://wa.me/919876543210?text=") {
		t.Fatalf("unexpected link %s", result.DeepLink)
	}
	parsed, err := url.Parse(result.DeepLink)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if parsed.Query().Get("text") != result.Message {
		t.Fatal("link text does not round-trip to the message")
	}
	if len(f.notifier.links) != 1 || f.notifier.links[0] != result.DeepLink {
		t.Fatalf("expected link opened, got %v", f.notifier.links)
	}
	toast := f.notifier.CurrentToast(id)
	if toast == nil || toast.Text != "Order Sent Successfully!" || toast.DisplayFor != realtime.ToastShort {
		t.Fatalf("unexpected toast %#v", toast)
	}

	after, _ := f.page.View(id, "")
	if after.Cart.ItemCount != 0 || after.CartOpen {
		t.Fatalf("expected cart cleared and closed, got %#v", after)
	}
}

func TestSubmitOrderPersistFailureStillSends(t *testing.T) {
	f := newFixture("9876543210")
	f.sender.err = &rest.StatusError{Status: 500}
	view, _ := f.page.Open(context.Background(), "1")
	f.page.AddToCart(view.SessionID, 3)

	result, err := f.submit.Execute(context.Background(), view.SessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Persisted || result.Warning != OrderNotPersistedText {
		t.Fatalf("expected warning, got %#v", result)
	}
	if len(f.notifier.links) != 1 {
		t.Fatal("expected link opened despite failure")
	}
	after, _ := f.page.View(view.SessionID, "")
	if after.Cart.ItemCount != 0 {
		t.Fatal("expected cart cleared after completed submission")
	}
}

func TestMenuCatalogServesCachedCopyOnFailure(t *testing.T) {
	fetcher := &fakeFetcher{items: sampleMenu()}
	catalog := NewMenuCatalog(fetcher)

	if _, err := catalog.Load(context.Background(), 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fetcher.err = &rest.StatusError{Status: 502}
	items, err := catalog.Load(context.Background(), 4)
	if err != nil || len(items) != 3 {
		t.Fatalf("expected cached menu, got %d items err=%v", len(items), err)
	}

	fetcher.err = port.ErrMenuNotFound
	if _, err := catalog.Load(context.Background(), 4); !errors.Is(err, port.ErrMenuNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	fetcher.err = &rest.StatusError{Status: 502}
	if _, err := catalog.Load(context.Background(), 4); err == nil {
		t.Fatal("expected error after eviction")
	}
}

func TestSessionStoreLocate(t *testing.T) {
	store := NewSessionStore()
	store.newID = func() string { return "fixed" }
	store.Create(domain.RestaurantContext{ID: 42})

	restaurantID, ok := store.LocateSession("fixed")
	if !ok || restaurantID != "42" {
		t.Fatalf("unexpected locate result %q %v", restaurantID, ok)
	}
	if ids := store.ForRestaurant(42); len(ids) != 1 || ids[0] != "fixed" {
		t.Fatalf("unexpected sessions %v", ids)
	}
	if _, ok := store.LocateSession("other"); ok {
		t.Fatal("expected unknown session")
	}
}

func TestAddToCartRejectsUnavailableItem(t *testing.T) {
	f := newFixture("9876543210")
	f.fetcher.items = append(sampleMenu(), domain.MenuItem{ID: 9, Name: "Mango Lassi", Price: decimal.RequireFromString("2.75")})
	view, _ := f.page.Open(context.Background(), "1")

	if _, err := f.page.AddToCart(view.SessionID, 9); !errors.Is(err, ErrMenuItemUnavailable) {
		t.Fatalf("expected ErrMenuItemUnavailable, got %v", err)
	}
	view, _ = f.page.View(view.SessionID, "")
	if len(view.Cart.Lines) != 0 {
		t.Fatalf("unavailable item reached the cart: %#v", view.Cart.Lines)
	}
	if _, err := f.submit.Execute(context.Background(), view.SessionID); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected empty cart on submit, got %v", err)
	}
	if len(f.sender.payloads) != 0 {
		t.Fatalf("expected no order sent, got %d", len(f.sender.payloads))
	}
}

func TestSessionStoreSweepsIdleSessions(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore()
	store.now = func() time.Time { return now }
	stale := store.Create(domain.RestaurantContext{ID: 1})
	fresh := store.Create(domain.RestaurantContext{ID: 1})

	now = now.Add(90 * time.Minute)
	if _, err := store.Get(fresh.ID); err != nil {
		t.Fatalf("get: %v", err)
	}
	now = now.Add(45 * time.Minute)

	evicted := store.Sweep(time.Hour)
	if len(evicted) != 1 || evicted[0] != stale.ID {
		t.Fatalf("expected only the stale session evicted, got %v", evicted)
	}
	if _, err := store.Get(stale.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected stale session gone, got %v", err)
	}
	if ids := store.ForRestaurant(1); len(ids) != 1 || ids[0] != fresh.ID {
		t.Fatalf("expected fresh session kept, got %v", ids)
	}
}
