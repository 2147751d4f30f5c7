package ui

import (
	"time"

	"overpass/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// tickMsg is sent on a timer for spinner animation
type tickMsg time.Time
