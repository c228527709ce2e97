package events

import "time"

// CatalogRebuilt is published after every successful catalog rebuild.
type CatalogRebuilt struct {
	BaseEvent
	Trigger   string    `json:"trigger"`
	Suppliers int       `json:"suppliers"`
	Items     int       `json:"items"`
	BuiltAt   time.Time `json:"builtAt"`
}

// EventName returns the unique identifier for this event type.
func (e CatalogRebuilt) EventName() string {
	return "catalog.rebuilt"
}
