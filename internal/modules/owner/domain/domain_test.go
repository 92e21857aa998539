package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewMenuItemDraftValidation(t *testing.T) {
	cases := []DraftInput{
		{Price: "5", CategoryID: "1"},
		{Name: "Tea", CategoryID: "1"},
		{Name: "Tea", Price: "5"},
		{Name: "Tea", Price: "abc", CategoryID: "1"},
		{Name: "Tea", Price: "-1", CategoryID: "1"},
		{Name: "Tea", Price: "5", CategoryID: "x"},
		{Name: "   ", Price: "5", CategoryID: "1"},
	}
	for i, in := range cases {
		if _, err := NewMenuItemDraft("id", in); !errors.Is(err, ErrDraftIncomplete) {
			t.Fatalf("case %d: expected ErrDraftIncomplete, got %v", i, err)
		}
	}
}

func TestNewMenuItemDraftDefaults(t *testing.T) {
	draft, err := NewMenuItemDraft("local-1", DraftInput{Name: " Masala Chai ", Price: "2.50", CategoryID: "4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.LocalID != "local-1" || draft.Name != "Masala Chai" || draft.CategoryID != 4 || !draft.IsAvailable {
		t.Fatalf("unexpected draft %#v", draft)
	}
	if !draft.Price.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("unexpected price %s", draft.Price)
	}

	off := false
	draft, _ = NewMenuItemDraft("local-2", DraftInput{Name: "Lassi", Price: "3", CategoryID: "4", IsAvailable: &off})
	if draft.IsAvailable {
		t.Fatal("expected explicit availability to be kept")
	}
}

func TestCategoriesAndCounts(t *testing.T) {
	cats := FallbackCategories()
	if len(cats) != 6 || CategoryName(cats, 2) != "Main Course" || CategoryName(cats, 99) != "Unknown" {
		t.Fatalf("unexpected fallback categories %v", cats)
	}

	parsed := BuildCategories([]any{
		map[string]any{"id": float64(7), "name": "Chaat"},
		map[string]any{"name": "no id"},
	})
	if len(parsed) != 1 || parsed[0].ID != 7 {
		t.Fatalf("unexpected parsed categories %v", parsed)
	}

	drafts := []MenuItemDraft{{IsAvailable: true}, {IsAvailable: false}, {IsAvailable: true}}
	if AvailableCount(drafts) != 2 {
		t.Fatalf("expected 2 available, got %d", AvailableCount(drafts))
	}
}

func TestValidateForSave(t *testing.T) {
	if err := ValidateForSave(RestaurantDraft{}, []MenuItemDraft{{}}); !errors.Is(err, ErrRestaurantMissing) {
		t.Fatalf("expected ErrRestaurantMissing, got %v", err)
	}
	if err := ValidateForSave(RestaurantDraft{Name: "Spice Hut"}, nil); !errors.Is(err, ErrNoMenuItems) {
		t.Fatalf("expected ErrNoMenuItems, got %v", err)
	}
	if err := ValidateForSave(RestaurantDraft{Name: "Spice Hut"}, []MenuItemDraft{{}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuthMode(t *testing.T) {
	if AuthModeRegister.Toggle() != AuthModeLogin || AuthModeLogin.Toggle() != AuthModeRegister {
		t.Fatal("toggle should alternate modes")
	}
	if mode, err := ParseAuthMode(" LOGIN "); err != nil || mode != AuthModeLogin {
		t.Fatalf("unexpected parse result %v %v", mode, err)
	}
	if _, err := ParseAuthMode("admin"); !errors.Is(err, ErrInvalidAuthMode) {
		t.Fatalf("expected ErrInvalidAuthMode, got %v", err)
	}
}
