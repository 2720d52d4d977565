// Package events defines the engine's outbound domain events and the
// emitter used to fan them out to host-side consumers (notification,
// analytics). The engine only publishes; it never waits on a consumer.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types produced by the progression and scheduling engine.
const (
	// EventTypeLevelUp fires when an XP award crosses a level boundary.
	EventTypeLevelUp = "level_up"

	// EventTypeItemMastered fires when an item first reaches mastery.
	EventTypeItemMastered = "item_mastered"

	// EventTypeStreakAtRisk fires when a maintained streak is about to
	// break. Advisory only: emitting it never mutates streak state.
	EventTypeStreakAtRisk = "streak_at_risk"
)

// Event is a single outbound domain event with a serialized payload.
type Event struct {
	// ID is a unique identifier for this event.
	ID uuid.UUID `json:"id"`

	// Type is one of the EventType constants above.
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON.
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created.
	CreatedAt time.Time `json:"created_at"`
}

// LevelUpPayload describes a level boundary crossing.
type LevelUpPayload struct {
	UserID   uuid.UUID `json:"user_id"`
	NewLevel int       `json:"new_level"`
	Title    string    `json:"title"`
}

// ItemMasteredPayload describes an item reaching mastery.
type ItemMasteredPayload struct {
	UserID uuid.UUID `json:"user_id"`
	ItemID uuid.UUID `json:"item_id"`
}

// StreakAtRiskPayload describes a streak in danger of breaking today.
type StreakAtRiskPayload struct {
	UserID        uuid.UUID `json:"user_id"`
	CurrentStreak int       `json:"current_streak"`
}

// NewEvent creates an Event of the given type with the payload serialized
// as JSON.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler is implemented by components that consume events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter is implemented by components that publish events. Services
// emit through this interface without knowing who is listening.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *Event) error
}
