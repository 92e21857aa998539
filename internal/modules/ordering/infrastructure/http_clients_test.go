package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mesaYaMenu/internal/config"
	"mesaYaMenu/internal/modules/ordering/application/port"
	"mesaYaMenu/internal/modules/ordering/domain"
	"mesaYaMenu/internal/platform/rest"
)

func TestMenuHTTPClientFetchMenu(t *testing.T) {
	var gotPath, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		_, _ = io.WriteString(w, `[
			{"id": 1, "name": "Samosa", "description": "Crisp", "price": "4.50", "category": {"name": "Appetizers"}, "image_url": "", "is_available": true},
			{"id": 2, "name": "Lassi", "price": 3.25, "category": {"name": null}, "is_available": false},
			{"name": "no id"}
		]`)
	}))
	defer server.Close()

	client := NewMenuHTTPClient(server.URL, time.Second, nil)
	items, err := client.FetchMenu(context.Background(), 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/order/menu-items/12" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotAccept != "application/json" {
		t.Fatalf("expected accept header, got %q", gotAccept)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if !items[0].Price.Equal(decimal.RequireFromString("4.50")) || items[0].CategoryName() != "Appetizers" {
		t.Fatalf("unexpected first item: %#v", items[0])
	}
	if items[1].CategoryName() != "" || items[1].IsAvailable {
		t.Fatalf("unexpected second item: %#v", items[1])
	}
}

func TestMenuHTTPClientMapsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"nope"}`, http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewMenuHTTPClient(server.URL, time.Second, nil).FetchMenu(context.Background(), 3)
	if !errors.Is(err, port.ErrMenuNotFound) {
		t.Fatalf("expected ErrMenuNotFound, got %v", err)
	}
	if err.Error() != "Menu not found for this restaurant" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestMenuHTTPClientReportsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewMenuHTTPClient(server.URL, time.Second, nil).FetchMenu(context.Background(), 3)
	var statusErr *rest.StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected status error, got %v", err)
	}
	if err.Error() != "HTTP error! status: 503" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestOrderHTTPClientSendsNumericMoney(t *testing.T) {
	var body map[string]any
	var method, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	cart := domain.NewCart()
	cart.AddItem(domain.MenuItem{ID: 5, Name: "Dosa", Price: decimal.RequireFromString("12.25")})
	cart.AddItem(domain.MenuItem{ID: 5, Name: "Dosa", Price: decimal.RequireFromString("12.25")})
	payload := domain.BuildOrderPayload(7, cart, domain.CustomerInfo{Name: "Asha", TableNumber: "4"})

	if err := NewOrderHTTPClient(server.URL, time.Second, nil).SendOrder(context.Background(), payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if method != http.MethodPost || path != "/order/orders" {
		t.Fatalf("unexpected request %s %s", method, path)
	}
	if body["total_amount"] != 26.46 {
		t.Fatalf("expected numeric total 26.46, got %#v", body["total_amount"])
	}
	if body["status"] != "pending" || body["table_number"] != float64(4) || body["customer_mobile"] != "" {
		t.Fatalf("unexpected body %#v", body)
	}
	items, ok := body["order_items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("unexpected order items %#v", body["order_items"])
	}
	line := items[0].(map[string]any)
	if line["menu_item_id"] != float64(5) || line["quantity"] != float64(2) || line["price"] != 12.25 {
		t.Fatalf("unexpected line %#v", line)
	}
}

func TestOrderHTTPClientReportsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail":"db down"}`)
	}))
	defer server.Close()

	cart := domain.NewCart()
	cart.AddItem(domain.MenuItem{ID: 1, Price: decimal.NewFromInt(1)})
	err := NewOrderHTTPClient(server.URL, time.Second, nil).SendOrder(context.Background(), domain.BuildOrderPayload(1, cart, domain.CustomerInfo{}))
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected status failure, got %v", err)
	}
}

func TestRestaurantDirectoryFallsBackToDefault(t *testing.T) {
	dir := NewRestaurantDirectory(config.RestaurantDirectory{
		Default: config.RestaurantContact{Name: "Default", Phone: "919463052507"},
		ByID:    map[int]config.RestaurantContact{9: {Phone: "9876543210", Address: "MG Road"}},
	})

	known, _ := dir.ResolveRestaurant(context.Background(), 9)
	if known.ID != 9 || known.Phone != "9876543210" || known.Name != "Default" || known.Address != "MG Road" {
		t.Fatalf("unexpected contact %#v", known)
	}
	unknown, _ := dir.ResolveRestaurant(context.Background(), 1)
	if unknown.Phone != "919463052507" {
		t.Fatalf("expected default contact, got %#v", unknown)
	}
}
