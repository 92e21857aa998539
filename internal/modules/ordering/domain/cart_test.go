package domain

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func menuItem(id int, price string) MenuItem {
	return MenuItem{ID: id, Name: "item", Price: decimal.RequireFromString(price), IsAvailable: true}
}

func TestCartAddItemTwiceMergesLine(t *testing.T) {
	cart := NewCart()
	a := menuItem(1, "10.00")

	cart.AddItem(a)
	cart.AddItem(a)

	lines := cart.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", lines[0].Quantity)
	}
	if got := cart.Subtotal().StringFixed(2); got != "20.00" {
		t.Fatalf("expected subtotal 20.00, got %s", got)
	}
	if got := cart.Tax().StringFixed(2); got != "1.60" {
		t.Fatalf("expected tax 1.60, got %s", got)
	}
	if got := cart.Total().StringFixed(2); got != "21.60" {
		t.Fatalf("expected total 21.60, got %s", got)
	}
}

func TestCartUpdateQuantityRemovesLineAtZero(t *testing.T) {
	cart := NewCart()
	cart.AddItem(menuItem(1, "10.00"))

	cart.UpdateQuantity(1, -1)

	if !cart.IsEmpty() {
		t.Fatalf("expected empty cart, got %v", cart.Lines())
	}
	if !cart.Subtotal().IsZero() || !cart.Tax().IsZero() || !cart.Total().IsZero() {
		t.Fatalf("expected zero totals, got %s/%s/%s", cart.Subtotal(), cart.Tax(), cart.Total())
	}
	if cart.TotalItemCount() != 0 {
		t.Fatalf("expected zero items, got %d", cart.TotalItemCount())
	}
}

func TestCartUpdateQuantityLargeNegativeDeltaRemoves(t *testing.T) {
	cart := NewCart()
	cart.AddItem(menuItem(1, "2.50"))
	cart.AddItem(menuItem(1, "2.50"))

	cart.UpdateQuantity(1, -5)

	if cart.Quantity(1) != 0 || !cart.IsEmpty() {
		t.Fatalf("expected line removed, got %v", cart.Lines())
	}
}

func TestCartUpdateQuantityUnknownItemIsNoop(t *testing.T) {
	cart := NewCart()
	cart.AddItem(menuItem(1, "1.00"))

	cart.UpdateQuantity(99, 3)

	if cart.TotalItemCount() != 1 {
		t.Fatalf("expected unchanged cart, got %v", cart.Lines())
	}
}

func TestCartRemoveItemKeepsInsertionOrder(t *testing.T) {
	cart := NewCart()
	cart.AddItem(menuItem(1, "1.00"))
	cart.AddItem(menuItem(2, "2.00"))
	cart.AddItem(menuItem(3, "3.00"))

	cart.RemoveItem(2)
	cart.RemoveItem(42)

	lines := cart.Lines()
	if len(lines) != 2 || lines[0].Item.ID != 1 || lines[1].Item.ID != 3 {
		t.Fatalf("unexpected lines: %v", lines)
	}
}

func TestCartEmptyTotalsAreZero(t *testing.T) {
	cart := NewCart()
	totals := cart.Totals()
	if !totals.Subtotal.IsZero() || !totals.Tax.IsZero() || !totals.Total.IsZero() || totals.ItemCount != 0 {
		t.Fatalf("expected zero totals, got %#v", totals)
	}
}

func TestCartAvoidsFloatingPointDrift(t *testing.T) {
	cart := NewCart()
	item := menuItem(1, "0.10")
	for i := 0; i < 3; i++ {
		cart.AddItem(item)
	}
	if !cart.Subtotal().Equal(decimal.RequireFromString("0.3")) {
		t.Fatalf("expected exact 0.3, got %s", cart.Subtotal())
	}
}

func TestCartTotalsStayConsistentUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	prices := []string{"10.00", "4.25", "0.99", "13.37", "7"}
	cart := NewCart()

	for step := 0; step < 2000; step++ {
		id := rng.Intn(len(prices)) + 1
		switch rng.Intn(3) {
		case 0:
			cart.AddItem(menuItem(id, prices[id-1]))
		case 1:
			cart.UpdateQuantity(id, rng.Intn(7)-4)
		case 2:
			cart.RemoveItem(id)
		}

		seen := map[int]struct{}{}
		expected := decimal.Zero
		count := 0
		for _, line := range cart.Lines() {
			if line.Quantity <= 0 {
				t.Fatalf("step %d: non-positive quantity %d for item %d", step, line.Quantity, line.Item.ID)
			}
			if _, dup := seen[line.Item.ID]; dup {
				t.Fatalf("step %d: duplicate line for item %d", step, line.Item.ID)
			}
			seen[line.Item.ID] = struct{}{}
			expected = expected.Add(line.Item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			count += line.Quantity
		}
		if !cart.Subtotal().Equal(expected) {
			t.Fatalf("step %d: subtotal %s, expected %s", step, cart.Subtotal(), expected)
		}
		if !cart.Tax().Equal(cart.Subtotal().Mul(decimal.RequireFromString("0.08"))) {
			t.Fatalf("step %d: tax %s is not 8%% of %s", step, cart.Tax(), cart.Subtotal())
		}
		if !cart.Total().Equal(cart.Subtotal().Add(cart.Tax())) {
			t.Fatalf("step %d: total %s != subtotal + tax", step, cart.Total())
		}
		if cart.TotalItemCount() != count {
			t.Fatalf("step %d: item count %d, expected %d", step, cart.TotalItemCount(), count)
		}
	}
}
