package usecase

import (
	"context"
	"log/slog"

	"mesaYaMenu/internal/modules/ordering/application/port"
	"mesaYaMenu/internal/modules/ordering/domain"
	realtimeport "mesaYaMenu/internal/modules/realtime/application/port"
	realtime "mesaYaMenu/internal/modules/realtime/domain"
)

const (
	OrderSentText         = "Order Sent Successfully!"
	OrderNotPersistedText = "Failed to send order to server, but WhatsApp message will still be sent"
	OrderSuccessDisplay   = realtime.ToastShort
)

// SubmitOrderResult describes a completed submission. Persisted is false when
// the order API rejected or never received the order; the deep link is still valid.
type SubmitOrderResult struct {
	DeepLink  string        `json:"deep_link"`
	Message   string        `json:"message"`
	Phone     string        `json:"phone"`
	Totals    domain.Totals `json:"totals"`
	Persisted bool          `json:"persisted"`
	Warning   string        `json:"warning,omitempty"`
}

type SubmitOrderUseCase struct {
	sessions *SessionStore
	orders   port.OrderSender
	notifier realtimeport.PageNotifier
}

func NewSubmitOrderUseCase(sessions *SessionStore, orders port.OrderSender, notifier realtimeport.PageNotifier) *SubmitOrderUseCase {
	return &SubmitOrderUseCase{sessions: sessions, orders: orders, notifier: notifier}
}

// Execute validates the session's cart, persists the order best-effort and
// hands the chat deep link to the page. The cart is cleared once the link is out.
func (uc *SubmitOrderUseCase) Execute(ctx context.Context, sessionID string) (SubmitOrderResult, error) {
	session, err := uc.sessions.Get(sessionID)
	if err != nil {
		return SubmitOrderResult{}, err
	}

	session.mu.Lock()
	restaurant := session.Restaurant
	if err := domain.ValidateSubmission(session.cart, restaurant); err != nil {
		session.mu.Unlock()
		return SubmitOrderResult{}, err
	}
	cart := session.cart.Clone()
	customer := session.customer
	session.mu.Unlock()

	payload := domain.BuildOrderPayload(session.RestaurantID, cart, customer)
	result := SubmitOrderResult{Totals: cart.Totals(), Persisted: true}

	if err := uc.orders.SendOrder(ctx, payload); err != nil {
		slog.Warn("order not persisted", slog.String("sessionId", session.ID), slog.Int("restaurantId", session.RestaurantID), slog.Any("error", err))
		result.Persisted = false
		result.Warning = OrderNotPersistedText
	}

	result.Phone = domain.NormalizePhone(restaurant.Phone)
	result.Message = domain.ComposeOrderMessage(cart, customer, restaurant)
	result.DeepLink = domain.WhatsAppLink(result.Phone, result.Message)

	if uc.notifier != nil {
		uc.notifier.OpenLink(ctx, session.ID, result.DeepLink)
	}

	session.mu.Lock()
	session.cart.Clear()
	session.cartOpen = false
	session.mu.Unlock()

	if uc.notifier != nil {
		uc.notifier.ShowToast(ctx, session.ID, realtime.SuccessToast(OrderSentText, OrderSuccessDisplay))
	}
	slog.Info("order submitted", slog.String("sessionId", session.ID), slog.Int("restaurantId", session.RestaurantID),
		slog.String("total", payload.TotalAmount.StringFixed(2)), slog.Bool("persisted", result.Persisted))
	return result, nil
}
