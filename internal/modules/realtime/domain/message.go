package domain

import (
	"strconv"
	"strings"
	"time"

	"mesaYaMenu/internal/shared/normalization"
)

// Metadata carries routing keys (sessionId, restaurantId) alongside a message.
type Metadata map[string]string

const (
	MetaSessionID    = "sessionId"
	MetaRestaurantID = "restaurantId"
)

// Message is the envelope pushed to page websockets and decoded from Kafka events.
type Message struct {
	Topic      string    `json:"topic"`
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	ResourceID string    `json:"resourceId,omitempty"`
	Metadata   Metadata  `json:"metadata,omitempty"`
	Data       any       `json:"data,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// SessionMessage builds a message addressed to every socket of one page session.
func SessionMessage(sessionID, entity, action string, data any, at time.Time) *Message {
	return &Message{
		Topic:     CustomTopic(entity, action),
		Entity:    entity,
		Action:    action,
		Metadata:  Metadata{MetaSessionID: sessionID},
		Data:      data,
		Timestamp: at.UTC(),
	}
}

// RestaurantID reads the restaurant id of an upstream event from the resource
// id, the metadata or the event data, in that order. Zero means none.
func (m *Message) RestaurantID() int {
	if m == nil {
		return 0
	}
	if id, err := strconv.Atoi(strings.TrimSpace(m.ResourceID)); err == nil && id > 0 {
		return id
	}
	if m.Metadata != nil {
		if id, err := strconv.Atoi(strings.TrimSpace(m.Metadata[MetaRestaurantID])); err == nil && id > 0 {
			return id
		}
	}
	data := normalization.MapFromPayload(m.Data)
	for _, key := range []string{"restaurant_id", "restaurantId", "id"} {
		if id := normalization.AsInt(data[key]); id > 0 {
			return id
		}
	}
	return 0
}
