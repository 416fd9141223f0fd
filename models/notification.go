package models

// Push kinds, used for metrics and client routing.
const (
	PushKindDose      = "dose"
	PushKindRetry     = "retry"
	PushKindInventory = "inventory"
)

// Client screens opened when a push is tapped.
const (
	ScreenEventSchedule = "EventSchedule"
	ScreenInventory     = "Inventory"
)

// PushMessage is one push notification addressed to a user.
type PushMessage struct {
	UserID string
	Kind   string
	Title  string
	Body   string
	Screen string
	Data   map[string]string
}
