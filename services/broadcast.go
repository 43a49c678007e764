package services

// Event names published after a successful commit
const (
	EventOrderCreated    = "order_created"
	EventOrderUpdated    = "order_updated"
	EventOrderDeleted    = "order_deleted"
	EventSettingsUpdated = "settings_updated"
	EventSettingUpdated  = "setting_updated"
)

// Broadcaster fans an event out to connected observers.
// Implementations must not block the caller and must swallow delivery failures.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// NopBroadcaster drops every event
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(string, any) {}

func broadcasterOrNop(b Broadcaster) Broadcaster {
	if b == nil {
		return NopBroadcaster{}
	}
	return b
}
