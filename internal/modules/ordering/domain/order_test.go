package domain

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateSubmission(t *testing.T) {
	cart := NewCart()
	restaurant := RestaurantContext{ID: 7, Name: "Curry House", Phone: "9876543210"}

	if err := ValidateSubmission(cart, restaurant); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}

	cart.AddItem(menuItem(1, "5.00"))
	if err := ValidateSubmission(cart, RestaurantContext{ID: 7}); !errors.Is(err, ErrRestaurantContactMissing) {
		t.Fatalf("expected ErrRestaurantContactMissing, got %v", err)
	}
	if err := ValidateSubmission(cart, restaurant); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildOrderPayload(t *testing.T) {
	cart := NewCart()
	cart.AddItem(menuItem(1, "10.00"))
	cart.AddItem(menuItem(1, "10.00"))
	cart.AddItem(menuItem(2, "4.50"))

	payload := BuildOrderPayload(7, cart, CustomerInfo{TableNumber: " 12 "})

	if payload.RestaurantID != 7 || payload.TableNumber != 12 {
		t.Fatalf("unexpected ids: %#v", payload)
	}
	if payload.Status != OrderStatusPending {
		t.Fatalf("unexpected status: %s", payload.Status)
	}
	if payload.CustomerName != "" || payload.CustomerMobile != "" {
		t.Fatalf("expected empty customer fields, got %q/%q", payload.CustomerName, payload.CustomerMobile)
	}
	if !payload.TotalAmount.Equal(decimal.RequireFromString("26.46")) {
		t.Fatalf("unexpected total: %s", payload.TotalAmount)
	}
	if len(payload.Items) != 2 || payload.Items[0].Quantity != 2 || payload.Items[1].MenuItemID != 2 {
		t.Fatalf("unexpected lines: %#v", payload.Items)
	}
}

func TestParseTableNumber(t *testing.T) {
	cases := map[string]int{
		"":     0,
		"7":    7,
		" 12 ": 12,
		"abc":  0,
		"5a":   5,
	}
	for input, expected := range cases {
		if got := ParseTableNumber(input); got != expected {
			t.Fatalf("ParseTableNumber(%q) = %d, expected %d", input, got, expected)
		}
	}
}

func TestComposeOrderMessage(t *testing.T) {
	cart := NewCart()
	samosa := menuItem(1, "10.00")
	samosa.Name = "Samosa"
	cart.AddItem(samosa)
	cart.AddItem(samosa)

	msg := ComposeOrderMessage(cart, CustomerInfo{}, RestaurantContext{Name: "Curry House"})

	expectedLines := []string{
		"🛒 *New Order from Guest*",
		"📱 Mobile: Not provided",
		"🪑 Table: Not specified",
		"🏪 Restaurant: Curry House",
		"",
		"*Order Items:*",
		"• Samosa x 2 = $20.00",
		"",
		"Subtotal: $20.00",
		"Tax (8%): $1.60",
		"Total: *$21.60*",
	}
	got := strings.Split(strings.TrimSuffix(msg, "\n"), "\n")
	if len(got) != len(expectedLines) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(expectedLines), len(got), msg)
	}
	for i := range expectedLines {
		if got[i] != expectedLines[i] {
			t.Fatalf("line %d: expected %q, got %q", i, expectedLines[i], got[i])
		}
	}
}

func TestComposeOrderMessageUsesCustomerDetails(t *testing.T) {
	cart := NewCart()
	cart.AddItem(menuItem(1, "1.00"))
	msg := ComposeOrderMessage(cart, CustomerInfo{Name: "Asha", Mobile: "9000000000", TableNumber: "4"}, RestaurantContext{Name: "R"})
	for _, want := range []string{"New Order from Asha", "Mobile: 9000000000", "Table: 4"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in message:\n%s", want, msg)
		}
	}
}

func TestWhatsAppLinkEncodesMessage(t *testing.T) {
	link := WhatsAppLink("919876543210", "Total: *$1+2 & more*\nnext")

	if !strings.HasPrefix(link, "https://wa.me/919876543210?text=") {
		t.Fatalf("unexpected link prefix: %s", link)
	}
	if strings.Contains(link, " ") || strings.Contains(link, "\n") || strings.Contains(link, "+") {
		t.Fatalf("link contains unescaped characters: %s", link)
	}
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if got := parsed.Query().Get("text"); got != "Total: *$1+2 & more*\nnext" {
		t.Fatalf("round-tripped message mismatch: %q", got)
	}
}
