package domain

import "strings"

const (
	SystemEntity     = "system"
	ToastEntity      = "toast"
	BrowserEntity    = "browser"
	MenuEntity       = "menu"
	RestaurantEntity = "restaurant"

	ActionConnected = "connected"
	ActionPong      = "pong"
	ActionError     = "error"
	ActionShown     = "shown"
	ActionDismissed = "dismissed"
	ActionOpen      = "open"
	ActionUpdated   = "updated"
	ActionCreated   = "created"

	TopicSystemConnected = SystemEntity + "." + ActionConnected
	TopicSystemPong      = SystemEntity + "." + ActionPong
	TopicSystemError     = SystemEntity + "." + ActionError
	TopicToastShown      = ToastEntity + "." + ActionShown
	TopicToastDismissed  = ToastEntity + "." + ActionDismissed
	TopicBrowserOpen     = BrowserEntity + "." + ActionOpen
	TopicMenuUpdated     = MenuEntity + "." + ActionUpdated
	TopicRestaurantNew   = RestaurantEntity + "." + ActionCreated
)

// PageTopics lists every topic a page socket is subscribed to.
func PageTopics() []string {
	return []string{
		TopicSystemConnected,
		TopicSystemPong,
		TopicSystemError,
		TopicToastShown,
		TopicToastDismissed,
		TopicBrowserOpen,
		TopicMenuUpdated,
		TopicRestaurantNew,
	}
}

// CustomTopic returns the canonical topic for the given entity and action.
func CustomTopic(entity, action string) string {
	cleanEntity := strings.TrimSpace(entity)
	cleanAction := strings.TrimSpace(action)
	if cleanEntity == "" || cleanAction == "" {
		return ""
	}
	return cleanEntity + "." + cleanAction
}
