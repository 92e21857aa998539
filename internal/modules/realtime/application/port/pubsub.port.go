package port

import (
	"context"

	"mesaYaMenu/internal/modules/realtime/domain"
)

// Broadcaster delivers messages to connected page websockets.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// TopicHandler handles upstream events consumed from a broker topic.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, msg *domain.Message) error
}

// PageNotifier is the side channel a page session uses for transient feedback
// (toasts) and for asking the browser to open a link in a new context.
type PageNotifier interface {
	ShowToast(ctx context.Context, sessionID string, toast domain.Toast)
	CurrentToast(sessionID string) *domain.Toast
	OpenLink(ctx context.Context, sessionID, link string)
}

// SessionLocator resolves a page session id to the restaurant it is bound to.
// Owner dashboards resolve with an empty restaurant id.
type SessionLocator interface {
	LocateSession(sessionID string) (restaurantID string, ok bool)
}
