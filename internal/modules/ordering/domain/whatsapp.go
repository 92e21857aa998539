package domain

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const whatsAppBaseURL = "https://wa.me/"

// ComposeOrderMessage renders the chat summary sent to the restaurant.
func ComposeOrderMessage(cart *Cart, customer CustomerInfo, restaurant RestaurantContext) string {
	var b strings.Builder
	b.WriteString("🛒 *New Order from " + orDefault(customer.Name, "Guest") + "*\n")
	b.WriteString("📱 Mobile: " + orDefault(customer.Mobile, "Not provided") + "\n")
	b.WriteString("🪑 Table: " + orDefault(customer.TableNumber, "Not specified") + "\n")
	b.WriteString("🏪 Restaurant: " + restaurant.Name + "\n")
	b.WriteString("\n*Order Items:*\n")
	for _, line := range cart.Lines() {
		b.WriteString("• " + line.Item.Name + " x " + strconv.Itoa(line.Quantity) + " = $" + money(line.LineTotal()) + "\n")
	}
	b.WriteString("\nSubtotal: $" + money(cart.Subtotal()) + "\n")
	b.WriteString("Tax (" + strconv.Itoa(TaxRatePercent) + "%): $" + money(cart.Tax()) + "\n")
	b.WriteString("Total: *$" + money(cart.Total()) + "*\n")
	return b.String()
}

// WhatsAppLink builds the wa.me deep link for phone (already normalized) and message.
func WhatsAppLink(phone, message string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return whatsAppBaseURL + phone + "?text=" + encoded
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
