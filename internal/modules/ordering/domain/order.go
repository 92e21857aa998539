package domain

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderStatusPending is the only status the ordering page ever submits.
const OrderStatusPending = "pending"

var (
	ErrEmptyCart                = errors.New("Please add items to your cart before placing an order")
	ErrRestaurantContactMissing = errors.New("Restaurant contact information not available")
)

// CustomerInfo is what the guest typed into the details form. Every field is optional.
type CustomerInfo struct {
	Name        string `json:"customer_name"`
	Mobile      string `json:"customer_mobile"`
	TableNumber string `json:"table_number"`
}

// RestaurantContext identifies the restaurant an order is addressed to.
type RestaurantContext struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// OrderLine mirrors one cart line in the order payload.
type OrderLine struct {
	MenuItemID int
	Quantity   int
	Price      decimal.Decimal
}

// OrderPayload is the body posted to the order creation endpoint.
type OrderPayload struct {
	RestaurantID   int
	TableNumber    int
	TotalAmount    decimal.Decimal
	Status         string
	CustomerName   string
	CustomerMobile string
	Items          []OrderLine
}

// ValidateSubmission checks the preconditions of an order submission.
func ValidateSubmission(cart *Cart, restaurant RestaurantContext) error {
	if strings.TrimSpace(restaurant.Phone) == "" {
		return ErrRestaurantContactMissing
	}
	if cart == nil || cart.IsEmpty() {
		return ErrEmptyCart
	}
	return nil
}

// BuildOrderPayload snapshots the cart into an order payload. Missing customer
// details stay empty strings here; placeholders only exist in the chat message.
func BuildOrderPayload(restaurantID int, cart *Cart, customer CustomerInfo) OrderPayload {
	lines := cart.Lines()
	items := make([]OrderLine, 0, len(lines))
	for _, line := range lines {
		items = append(items, OrderLine{
			MenuItemID: line.Item.ID,
			Quantity:   line.Quantity,
			Price:      line.Item.Price,
		})
	}
	return OrderPayload{
		RestaurantID:   restaurantID,
		TableNumber:    ParseTableNumber(customer.TableNumber),
		TotalAmount:    cart.Total(),
		Status:         OrderStatusPending,
		CustomerName:   customer.Name,
		CustomerMobile: customer.Mobile,
		Items:          items,
	}
}

// ParseTableNumber reads the leading integer of the table field, 0 when there is none.
func ParseTableNumber(raw string) int {
	trimmed := strings.TrimSpace(raw)
	end := 0
	for end < len(trimmed) {
		c := trimmed[end]
		if c >= '0' && c <= '9' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	n, err := strconv.Atoi(trimmed[:end])
	if err != nil {
		return 0
	}
	return n
}
