package transport

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"mesaYaMenu/internal/modules/realtime/application/port"
	"mesaYaMenu/internal/modules/realtime/domain"
	"mesaYaMenu/internal/modules/realtime/infrastructure"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const clientBuffer = 16

// NewWebsocketHandler exposes /ws/sessions/:session. The session must already
// exist in one of the locators; customer sessions are additionally scoped to
// their restaurant so menu change notices reach them.
func NewWebsocketHandler(hub *infrastructure.Hub, notifier port.PageNotifier, locators ...port.SessionLocator) echo.HandlerFunc {
	return func(c echo.Context) error {
		sessionID := strings.TrimSpace(c.Param("session"))
		logger := c.Logger()
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		peerIP := c.RealIP()

		if sessionID == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "missing session")
		}

		restaurantID, found := locate(locators, sessionID)
		if !found {
			slog.Warn("ws handler unknown session", slog.String("sessionId", sessionID))
			logger.Warnf("ws rejected: unknown session=%s ip=%s reqID=%s", sessionID, peerIP, requestID)
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("ws handler upgrade failed", slog.String("sessionId", sessionID), slog.Any("error", err))
			logger.Errorf("ws upgrade failed session=%s ip=%s reqID=%s: %v", sessionID, peerIP, requestID, err)
			return err
		}

		client := infrastructure.NewClient(hub, conn, sessionID, restaurantID, clientBuffer)
		topics := domain.PageTopics()
		hub.AttachClient(client, topics)

		go client.WritePump()
		go client.ReadPump()

		data := map[string]any{
			"sessionId":     sessionID,
			"allowedTopics": topics,
		}
		if restaurantID != "" {
			data["restaurantId"] = restaurantID
		}
		if notifier != nil {
			if toast := notifier.CurrentToast(sessionID); toast != nil {
				data["toast"] = toast
			}
		}
		client.SendDomainMessage(domain.SessionMessage(sessionID, domain.SystemEntity, domain.ActionConnected, data, time.Now()))

		logger.Infof("ws connected session=%s restaurant=%s ip=%s reqID=%s", sessionID, restaurantID, peerIP, requestID)
		return nil
	}
}

func locate(locators []port.SessionLocator, sessionID string) (string, bool) {
	for _, l := range locators {
		if l == nil {
			continue
		}
		if restaurantID, ok := l.LocateSession(sessionID); ok {
			return restaurantID, true
		}
	}
	return "", false
}
