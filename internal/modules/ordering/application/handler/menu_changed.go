package handler

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"mesaYaMenu/internal/modules/ordering/application/usecase"
	realtimeport "mesaYaMenu/internal/modules/realtime/application/port"
	realtime "mesaYaMenu/internal/modules/realtime/domain"
)

// MenuChangedHandler drops the cached menu of a restaurant when upstream reports
// a menu change and tells that restaurant's open pages about it.
type MenuChangedHandler struct {
	topic       string
	catalog     *usecase.MenuCatalog
	sessions    *usecase.SessionStore
	broadcaster realtimeport.Broadcaster
}

func NewMenuChangedHandler(topic string, catalog *usecase.MenuCatalog, sessions *usecase.SessionStore, broadcaster realtimeport.Broadcaster) *MenuChangedHandler {
	return &MenuChangedHandler{
		topic:       strings.TrimSpace(topic),
		catalog:     catalog,
		sessions:    sessions,
		broadcaster: broadcaster,
	}
}

func (h *MenuChangedHandler) Topic() string { return h.topic }

func (h *MenuChangedHandler) Handle(ctx context.Context, msg *realtime.Message) error {
	restaurantID := msg.RestaurantID()
	if restaurantID <= 0 {
		slog.Warn("menu event without restaurant id", slog.String("topic", msg.Topic), slog.String("resourceId", msg.ResourceID))
		return nil
	}
	h.catalog.Invalidate(restaurantID)

	open := h.sessions.ForRestaurant(restaurantID)
	slog.Info("menu invalidated", slog.Int("restaurantId", restaurantID), slog.Int("openSessions", len(open)))
	if len(open) == 0 || h.broadcaster == nil {
		return nil
	}
	key := strconv.Itoa(restaurantID)
	h.broadcaster.Broadcast(ctx, &realtime.Message{
		Topic:      realtime.TopicMenuUpdated,
		Entity:     realtime.MenuEntity,
		Action:     realtime.ActionUpdated,
		ResourceID: key,
		Metadata:   realtime.Metadata{realtime.MetaRestaurantID: key},
		Data:       map[string]any{"restaurant_id": restaurantID},
		Timestamp:  time.Now().UTC(),
	})
	return nil
}

var _ realtimeport.TopicHandler = (*MenuChangedHandler)(nil)
