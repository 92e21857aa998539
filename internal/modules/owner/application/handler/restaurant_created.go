package handler

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"mesaYaMenu/internal/modules/owner/application/usecase"
	realtimeport "mesaYaMenu/internal/modules/realtime/application/port"
	realtime "mesaYaMenu/internal/modules/realtime/domain"
)

// RestaurantCreatedHandler tells the dashboards that saved a restaurant once
// upstream confirms it was created, so their QR reference can be refreshed.
type RestaurantCreatedHandler struct {
	topic       string
	dashboards  *usecase.DashboardStore
	broadcaster realtimeport.Broadcaster
}

func NewRestaurantCreatedHandler(topic string, dashboards *usecase.DashboardStore, broadcaster realtimeport.Broadcaster) *RestaurantCreatedHandler {
	return &RestaurantCreatedHandler{
		topic:       strings.TrimSpace(topic),
		dashboards:  dashboards,
		broadcaster: broadcaster,
	}
}

func (h *RestaurantCreatedHandler) Topic() string { return h.topic }

func (h *RestaurantCreatedHandler) Handle(ctx context.Context, msg *realtime.Message) error {
	restaurantID := msg.RestaurantID()
	if restaurantID <= 0 {
		slog.Warn("restaurant event without id", slog.String("topic", h.topic))
		return nil
	}
	owners := h.dashboards.ForSaved(restaurantID)
	if len(owners) == 0 || h.broadcaster == nil {
		slog.Debug("restaurant event without open dashboard", slog.Int("restaurantId", restaurantID))
		return nil
	}
	key := strconv.Itoa(restaurantID)
	now := time.Now()
	for _, dashboardID := range owners {
		out := realtime.SessionMessage(dashboardID, realtime.RestaurantEntity, realtime.ActionCreated, msg.Data, now)
		out.ResourceID = key
		h.broadcaster.Broadcast(ctx, out)
	}
	slog.Info("restaurant creation relayed", slog.Int("restaurantId", restaurantID), slog.Int("dashboards", len(owners)))
	return nil
}

var _ realtimeport.TopicHandler = (*RestaurantCreatedHandler)(nil)
